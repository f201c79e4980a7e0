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

// Package intervals merges and queries sorted, half-open genomic
// intervals.
package intervals

import (
	"sort"

	"github.com/exascience/pargo/parallel"
	psort "github.com/exascience/pargo/sort"

	"github.com/exascience/elindel/bed"
	"github.com/exascience/elindel/utils"
)

// Interval is a half-open range [Start, End).
type Interval struct {
	Start, End int32
}

// SortByStart sorts a slice of Interval by Start position.
func SortByStart(intervals []Interval) {
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start < intervals[j].Start
	})
}

type stableIntervalSorter []Interval

func (s stableIntervalSorter) SequentialSort(i, j int) {
	SortByStart(s[i:j])
}

func (s stableIntervalSorter) NewTemp() psort.StableSorter {
	return stableIntervalSorter(make([]Interval, len(s)))
}

func (s stableIntervalSorter) Len() int {
	return len(s)
}

func (s stableIntervalSorter) Less(i, j int) bool {
	return s[i].Start < s[j].Start
}

func (s stableIntervalSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableIntervalSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// ParallelSortByStart sorts a slice of Interval by Start position using
// a parallel stable sort.
func ParallelSortByStart(intervals []Interval) {
	psort.StableSort(stableIntervalSorter(intervals))
}

// Extend grows interval1 to cover interval2 if they overlap or touch,
// and reports whether they did. interval2.Start >= interval1.Start
// must hold.
func (interval1 *Interval) Extend(interval2 Interval) bool {
	if interval2.Start > interval1.End {
		return false
	}
	if interval2.End > interval1.End {
		interval1.End = interval2.End
	}
	return true
}

// Flatten merges overlapping intervals of a slice sorted by Start. The
// result is sorted and shares memory with the argument.
func Flatten(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return intervals
	}
	i := 0
	for _, next := range intervals[1:] {
		if !intervals[i].Extend(next) {
			i++
			intervals[i] = next
		}
	}
	return intervals[:i+1]
}

const parallelFlattenGrainSize = 0x1000

// ParallelFlatten is Flatten with a parallel divide and conquer.
func ParallelFlatten(intervals []Interval) []Interval {
	if len(intervals) < parallelFlattenGrainSize {
		return Flatten(intervals)
	}
	half := len(intervals) >> 1
	left, right := intervals[:half], intervals[half:]
	parallel.Do(
		func() { left = ParallelFlatten(left) },
		func() { right = ParallelFlatten(right) },
	)
	for len(right) > 0 && left[len(left)-1].Extend(right[0]) {
		right = right[1:]
	}
	return append(left, right...)
}

// OverlappingRange returns the index range [low, high) of the
// intervals that overlap [start, end). intervals must be flattened.
func OverlappingRange(intervals []Interval, start, end int32) (low, high int) {
	low = sort.Search(len(intervals), func(i int) bool {
		return intervals[i].End > start
	})
	high = low + sort.Search(len(intervals)-low, func(i int) bool {
		return intervals[low+i].Start >= end
	})
	return
}

// Overlap reports whether [start, end) overlaps any of the flattened
// intervals.
func Overlap(intervals []Interval, start, end int32) bool {
	low, high := OverlappingRange(intervals, start, end)
	return low < high
}

// FromBed returns the sorted and flattened BED regions per chromosome.
func FromBed(bed *bed.Bed) map[utils.Symbol][]Interval {
	result := make(map[utils.Symbol][]Interval, len(bed.RegionMap))
	for chrom, regions := range bed.RegionMap {
		intervals := make([]Interval, len(regions))
		for i, region := range regions {
			intervals[i] = Interval{Start: region.Start, End: region.End}
		}
		ParallelSortByStart(intervals)
		result[chrom] = ParallelFlatten(intervals)
	}
	return result
}
