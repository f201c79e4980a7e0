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

package fasta

import (
	"github.com/pkg/errors"

	"github.com/exascience/elindel/align"
	"github.com/exascience/elindel/utils"
)

// Window returns the reference bases of [start-padding, end+padding),
// clipped to the contig, as a reference window for contig validation.
// Bases are upper case with ambiguity codes normalized to N.
func Window(ref Reference, chrom utils.Symbol, start, end, padding int32) (*align.ReferenceWindow, error) {
	seq := ref.Seq(*chrom)
	if seq == nil {
		return nil, errors.Errorf("contig %v not found in reference", *chrom)
	}
	if start < 0 || end < start {
		return nil, errors.Errorf("invalid window %v:%v-%v", *chrom, start, end)
	}
	start -= padding
	if start < 0 {
		start = 0
	}
	end += padding
	if int(end) > len(seq) {
		end = int32(len(seq))
	}
	if start >= end {
		return nil, errors.Errorf("window %v:%v-%v lies outside the contig", *chrom, start, end)
	}
	bases := make([]byte, end-start)
	for i, c := range seq[start:end] {
		bases[i] = ToUpperAndN(c)
	}
	return &align.ReferenceWindow{
		Chromosome: chrom,
		Start:      start,
		Bases:      string(bases),
	}, nil
}
