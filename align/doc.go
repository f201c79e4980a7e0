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

// Package align realigns assembled contigs against a reference window.
//
// Aligner implements a semi-global ("glocal") dynamic program with
// affine gap penalties: the whole query must be consumed, while leading
// and trailing reference bases are free. Besides the best score it
// reports the second-best score over all possible reference end
// positions, so that callers can reject ambiguous placements.
//
// ContigAligner builds on Aligner to accept or reject a contig: it
// requires a unique, sufficiently high scoring alignment whose edges
// are anchored by near-exact matches, pads the contig with the
// untouched reference bases, and injects splice junctions for RNA
// input.
package align
