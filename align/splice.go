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

package align

import (
	"sort"

	"github.com/exascience/elindel/sam"
)

// windowJunctions returns the junctions that start at or after
// windowStart, in ascending order. Junctions left of the window are
// not part of its coordinate system.
func windowJunctions(junctions []Junction, windowStart int32) []Junction {
	result := make([]Junction, 0, len(junctions))
	for _, junction := range junctions {
		if junction.Position >= windowStart {
			result = append(result, junction)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result
}

// injectSplice inserts an 'N' operation of the given length at a
// reference offset relative to the start of the alignment. Offsets
// count only window bases, so earlier 'N' operations are skipped.
// Junctions outside the aligned reference span are ignored.
func injectSplice(cigar []sam.CigarOperation, offset, length int32) []sam.CigarOperation {
	if offset <= 0 {
		return cigar
	}
	var pos int32
	for index, op := range cigar {
		if op.Operation == 'N' || !sam.OperatorConsumesReferenceBases(op.Operation) {
			continue
		}
		if pos+op.Length <= offset {
			pos += op.Length
			continue
		}
		split := offset - pos
		result := make([]sam.CigarOperation, 0, len(cigar)+2)
		result = append(result, cigar[:index]...)
		if split > 0 {
			result = append(result, sam.CigarOperation{Length: split, Operation: op.Operation})
		}
		result = append(result, sam.CigarOperation{Length: length, Operation: 'N'})
		result = append(result, sam.CigarOperation{Length: op.Length - split, Operation: op.Operation})
		result = append(result, cigar[index+1:]...)
		return result
	}
	return cigar
}

// injectSplices adds one 'N' operation per junction, in ascending
// coordinate order. Junction positions are genomic; the window does not
// contain the intronic bases of junctions, so each junction's window
// offset discounts the lengths of the junctions before it.
func injectSplices(cigar []sam.CigarOperation, localPosition, windowStart int32, junctions []Junction) []sam.CigarOperation {
	var skipped int32
	for _, junction := range windowJunctions(junctions, windowStart) {
		windowOffset := junction.Position - windowStart - skipped
		skipped += junction.Length
		cigar = injectSplice(cigar, windowOffset-localPosition, junction.Length)
	}
	return cigar
}
