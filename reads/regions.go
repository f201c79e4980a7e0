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

package reads

import (
	"sort"

	"github.com/exascience/elindel/assembly"
	"github.com/exascience/elindel/fasta"
	"github.com/exascience/elindel/intervals"
	"github.com/exascience/elindel/utils"
)

// Regions turns flattened target intervals into assembly regions, in
// chromosome and position order. Every read is assigned to each target
// it overlaps. When ref is not nil, each region gets a reference window
// extended by padding on both sides.
func Regions(records map[utils.Symbol][]Record, targets map[utils.Symbol][]intervals.Interval, ref fasta.Reference, padding int32) ([]*assembly.Region, error) {
	chroms := make([]utils.Symbol, 0, len(targets))
	for chrom := range targets {
		chroms = append(chroms, chrom)
	}
	sort.Slice(chroms, func(i, j int) bool {
		return *chroms[i] < *chroms[j]
	})
	var regions []*assembly.Region
	for _, chrom := range chroms {
		ivals := targets[chrom]
		chromRegions := make([]*assembly.Region, len(ivals))
		for i, ival := range ivals {
			region := &assembly.Region{Chromosome: chrom, Start: ival.Start, End: ival.End}
			if ref != nil {
				window, err := fasta.Window(ref, chrom, ival.Start, ival.End, padding)
				if err != nil {
					return nil, err
				}
				region.Window = window
			}
			chromRegions[i] = region
		}
		for _, record := range records[chrom] {
			low, high := intervals.OverlappingRange(ivals, record.Pos, record.End())
			for _, region := range chromRegions[low:high] {
				region.Reads = append(region.Reads, record.Read)
			}
		}
		regions = append(regions, chromRegions...)
	}
	return regions, nil
}
