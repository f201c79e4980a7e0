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

// Package bed parses the target regions of an assembly run from BED
// files.
package bed

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/exascience/elindel/utils"
)

// A Bed maps chromosomes to their regions, sorted by start position.
type Bed struct {
	RegionMap map[utils.Symbol][]*Region
}

// A Region is a BED interval. Start is 0-based, End is exclusive. See
// https://genome.ucsc.edu/FAQ/FAQformat.html#format1
type Region struct {
	Chrom  utils.Symbol
	Start  int32
	End    int32
	Name   string
	Score  int
	Strand utils.Symbol
}

// Symbols for the optional strand field of a Region.
var (
	SF = utils.Intern("+")
	SR = utils.Intern("-")
)

// Optional BED fields that are interpreted. Further fields are ignored.
const (
	brName = iota
	brScore
	brStrand
)

// NewRegion returns a region with the given optional fields, in BED
// order.
func NewRegion(chrom utils.Symbol, start, end int32, fields []string) (*Region, error) {
	if start < 0 || end < start {
		return nil, errors.Errorf("invalid region %v:%v-%v", *chrom, start, end)
	}
	region := &Region{Chrom: chrom, Start: start, End: end}
	for i, val := range fields {
		switch i {
		case brName:
			region.Name = val
		case brScore:
			if val == "." {
				continue
			}
			score, err := strconv.Atoi(val)
			if err != nil || score < 0 || score > 1000 {
				return nil, errors.Errorf("invalid Score field: %v", val)
			}
			region.Score = score
		case brStrand:
			switch val {
			case "+":
				region.Strand = SF
			case "-":
				region.Strand = SR
			case ".":
			default:
				return nil, errors.Errorf("invalid Strand field: %v", val)
			}
		}
	}
	return region, nil
}

// NewBed returns an empty Bed.
func NewBed() *Bed {
	return &Bed{RegionMap: make(map[utils.Symbol][]*Region)}
}

// AddRegion adds a region to the bed region map.
func (bed *Bed) AddRegion(region *Region) {
	bed.RegionMap[region.Chrom] = append(bed.RegionMap[region.Chrom], region)
}

func (bed *Bed) sortRegions() {
	for _, regions := range bed.RegionMap {
		sort.SliceStable(regions, func(i, j int) bool {
			return regions[i].Start < regions[j].Start
		})
	}
}
