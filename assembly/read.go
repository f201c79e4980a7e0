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

package assembly

// Strand of a read.
type Strand uint8

// Strand values.
const (
	Forward Strand = 0
	Reverse Strand = 1
)

// A Read is the input unit of graph construction. Quality holds
// Phred+33 encoded base qualities and has the same length as Sequence.
type Read struct {
	Sample   int
	Strand   Strand
	Sequence string
	Quality  string
}
