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

package sam

func operatorConsumesReadBases(operator byte) bool {
	switch operator {
	case 'M', 'I', 'S', '=', 'X':
		return true
	default:
		return false
	}
}

func operatorConsumesReferenceBases(operator byte) bool {
	switch operator {
	case 'M', 'D', 'N', '=', 'X':
		return true
	default:
		return false
	}
}

// OperatorConsumesReferenceBases reports whether the operation
// advances on the reference.
func OperatorConsumesReferenceBases(operator byte) bool {
	return operatorConsumesReferenceBases(operator)
}

// ReadLengthFromCigar sums the lengths of all CIGAR operations that
// consume read bases.
func ReadLengthFromCigar(cigar []CigarOperation) int32 {
	var length int32
	for _, op := range cigar {
		if operatorConsumesReadBases(op.Operation) {
			length += op.Length
		}
	}
	return length
}

// ReferenceLengthFromCigar sums the lengths of all CIGAR operations
// that consume reference bases.
func ReferenceLengthFromCigar(cigar []CigarOperation) int32 {
	var length int32
	for _, op := range cigar {
		if operatorConsumesReferenceBases(op.Operation) {
			length += op.Length
		}
	}
	return length
}

// NormalizeCigar removes zero-length operations and merges adjacent
// operations of the same kind. It reuses the storage of the argument.
func NormalizeCigar(cigar []CigarOperation) []CigarOperation {
	result := cigar[:0]
	for _, op := range cigar {
		if op.Length == 0 {
			continue
		}
		if last := len(result) - 1; last >= 0 && result[last].Operation == op.Operation {
			result[last].Length += op.Length
		} else {
			result = append(result, op)
		}
	}
	return result
}

// ExtendCigarWithMatches adds left and right bases of 'M' to the two
// ends of a CIGAR, merging into existing edge 'M' runs. The argument is
// not modified.
func ExtendCigarWithMatches(cigar []CigarOperation, left, right int32) []CigarOperation {
	result := make([]CigarOperation, 0, len(cigar)+2)
	result = append(result, CigarOperation{left, 'M'})
	result = append(result, cigar...)
	result = append(result, CigarOperation{right, 'M'})
	return NormalizeCigar(result)
}

// ReverseCigar reverses the order of the operations in place.
func ReverseCigar(cigar []CigarOperation) {
	for i, j := 0, len(cigar)-1; i < j; i, j = i+1, j-1 {
		cigar[i], cigar[j] = cigar[j], cigar[i]
	}
}
