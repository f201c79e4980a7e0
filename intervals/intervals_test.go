// elindel: local re-assembly of reads for indel detection.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elindel/blob/master/LICENSE.txt>.

package intervals

import (
	"math/rand"
	"testing"

	"github.com/exascience/elindel/bed"
	"github.com/exascience/elindel/utils"
)

func intervalsEqual(intervals1, intervals2 []Interval) bool {
	if len(intervals1) != len(intervals2) {
		return false
	}
	for i, interval1 := range intervals1 {
		if interval1 != intervals2[i] {
			return false
		}
	}
	return true
}

func makeLargeIntervalsSlice() (result []Interval) {
	rnd := rand.New(rand.NewSource(42))
	result = make([]Interval, 0x30000)
	result[0].End = 3
	for i := 1; i < len(result); i++ {
		if rnd.Intn(100) < 20 {
			result[i].Start = result[i-1].End - 1
		} else {
			result[i].Start = result[i-1].End + 1
		}
		result[i].End = result[i].Start + 3
	}
	return result
}

func checkFlattened(t *testing.T, name string, intervals []Interval) {
	for i, interval := range intervals {
		if interval.Start > interval.End || (i > 0 && interval.Start <= intervals[i-1].End) {
			t.Errorf("%v: interval %v not flattened", name, i)
			return
		}
	}
}

func TestFlatten(t *testing.T) {
	for _, flatten := range []struct {
		name string
		fn   func([]Interval) []Interval
	}{{"Flatten", Flatten}, {"ParallelFlatten", ParallelFlatten}} {
		if len(flatten.fn(nil)) != 0 {
			t.Errorf("empty %v failed", flatten.name)
		}
		if !intervalsEqual(flatten.fn([]Interval{{2, 3}, {3, 4}}), []Interval{{2, 4}}) {
			t.Errorf("%v 1 failed", flatten.name)
		}
		if !intervalsEqual(flatten.fn([]Interval{{2, 3}, {4, 5}}), []Interval{{2, 3}, {4, 5}}) {
			t.Errorf("%v 2 failed", flatten.name)
		}
		if !intervalsEqual(flatten.fn([]Interval{{2, 4}, {3, 5}, {4, 6}, {7, 9}}), []Interval{{2, 6}, {7, 9}}) {
			t.Errorf("%v 3 failed", flatten.name)
		}
		if !intervalsEqual(flatten.fn([]Interval{{2, 3}, {2, 5}, {2, 4}, {2, 3}, {2, 6}, {2, 7}}), []Interval{{2, 7}}) {
			t.Errorf("%v 4 failed", flatten.name)
		}
		checkFlattened(t, flatten.name, flatten.fn(makeLargeIntervalsSlice()))
	}
}

func TestParallelSortByStart(t *testing.T) {
	intervals := makeLargeIntervalsSlice()
	rand.New(rand.NewSource(7)).Shuffle(len(intervals), func(i, j int) {
		intervals[i], intervals[j] = intervals[j], intervals[i]
	})
	ParallelSortByStart(intervals)
	for i := 1; i < len(intervals); i++ {
		if intervals[i].Start < intervals[i-1].Start {
			t.Fatal("ParallelSortByStart failed")
		}
	}
}

func BenchmarkParallelFlatten(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		intervals := makeLargeIntervalsSlice()
		b.StartTimer()
		_ = ParallelFlatten(intervals)
	}
}

func TestOverlappingRange(t *testing.T) {
	intervals := []Interval{{2, 4}, {6, 8}, {10, 12}}
	for _, test := range []struct {
		start, end int32
		low, high  int
	}{
		{0, 2, 0, 0},
		{0, 3, 0, 1},
		{4, 6, 1, 1},
		{3, 7, 0, 2},
		{7, 11, 1, 3},
		{12, 20, 3, 3},
		{0, 20, 0, 3},
	} {
		low, high := OverlappingRange(intervals, test.start, test.end)
		if low != test.low || high != test.high {
			t.Errorf("OverlappingRange(%v, %v) = %v, %v; want %v, %v", test.start, test.end, low, high, test.low, test.high)
		}
	}
	if Overlap(nil, 2, 3) {
		t.Error("empty Overlap failed")
	}
	if Overlap(intervals, 4, 6) {
		t.Error("Overlap 1 failed")
	}
	if !Overlap(intervals, 5, 7) {
		t.Error("Overlap 2 failed")
	}
}

func TestFromBed(t *testing.T) {
	b := bed.NewBed()
	chrom := utils.Intern("chr1")
	for _, r := range [][2]int32{{50, 60}, {10, 20}, {15, 30}} {
		region, err := bed.NewRegion(chrom, r[0], r[1], nil)
		if err != nil {
			t.Fatal(err)
		}
		b.AddRegion(region)
	}
	result := FromBed(b)
	if !intervalsEqual(result[chrom], []Interval{{10, 30}, {50, 60}}) {
		t.Errorf("FromBed failed: %v", result[chrom])
	}
}
