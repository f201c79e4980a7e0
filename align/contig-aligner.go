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
	"github.com/exascience/elindel/sam"
	"github.com/exascience/elindel/utils"
)

// A Junction is a splice junction in genomic coordinates: Length
// reference bases starting at Position are intronic.
type Junction struct {
	Position, Length int32
}

// A ReferenceWindow is a contiguous stretch of reference bases that
// covers an assembly region plus some padding on both sides. For RNA
// input, the bases of the listed junctions are not part of Bases.
type ReferenceWindow struct {
	Chromosome utils.Symbol
	// genomic position of Bases[0]
	Start     int32
	Bases     string
	Junctions []Junction
}

// A ContigAlignment is an accepted contig, padded with reference bases
// and placed relative to its reference window.
type ContigAlignment struct {
	// window-relative position of the first (padded) base
	LocalPosition int32
	Cigar         []sam.CigarOperation
	Chromosome    utils.Symbol
	WindowStart   int32
	// the contig plus its reference padding
	Sequence string
	Score    int32
}

// GenomicPosition returns the reference coordinate of the first base
// of the padded contig, accounting for junctions between the window
// start and that base.
func (ca *ContigAlignment) GenomicPosition(junctions []Junction) int32 {
	position := ca.WindowStart + ca.LocalPosition
	for _, junction := range windowJunctions(junctions, ca.WindowStart) {
		if junction.Position > position {
			break
		}
		position += junction.Length
	}
	return position
}

// A ContigAligner validates assembled contigs against their reference
// window.
type ContigAligner struct {
	Aligner Aligner
	// alignments must score strictly above this
	MinAlignmentScore int32
	// reject alignments whose first or last operation is not a long,
	// near-exact match run
	CheckAnchors        bool
	MinAnchorLength     int32
	MaxAnchorMismatches int32
	// upper bound on the reference bases added to either side of the
	// contig; 0 means the rest of the window
	MaxPadding int32
}

// NewContigAligner returns a ContigAligner with the default scoring
// scheme and anchor requirements.
func NewContigAligner() *ContigAligner {
	return &ContigAligner{
		Aligner:             DefaultAligner,
		MinAlignmentScore:   1,
		CheckAnchors:        true,
		MinAnchorLength:     10,
		MaxAnchorMismatches: 2,
	}
}

func countMismatches(s1, s2 string) (mismatches int32) {
	for i := 0; i < len(s1); i++ {
		if s1[i] != s2[i] {
			mismatches++
		}
	}
	return
}

// anchored checks the match runs at both edges of the alignment. Only
// the MinAnchorLength bases of each run that are nearest to the rest of
// the alignment count towards the mismatch limit.
func (ca *ContigAligner) anchored(contig, reference string, r *Result) bool {
	if len(r.Cigar) == 0 {
		return false
	}
	anchorLength := ca.MinAnchorLength
	first, last := r.Cigar[0], r.Cigar[len(r.Cigar)-1]
	if first.Operation != 'M' || first.Length < anchorLength ||
		last.Operation != 'M' || last.Length < anchorLength {
		return false
	}
	queryEnd := first.Length
	refEnd := r.Position + first.Length
	if countMismatches(contig[queryEnd-anchorLength:queryEnd], reference[refEnd-anchorLength:refEnd]) > ca.MaxAnchorMismatches {
		return false
	}
	queryStart := int32(len(contig)) - last.Length
	refStart := r.EndPosition - last.Length
	return countMismatches(contig[queryStart:queryStart+anchorLength], reference[refStart:refStart+anchorLength]) <= ca.MaxAnchorMismatches
}

// Align realigns a contig against its reference window. It returns
// false when the alignment is too weak, ambiguous, or insufficiently
// anchored.
func (ca *ContigAligner) Align(contig string, window *ReferenceWindow) (*ContigAlignment, bool) {
	reference := window.Bases
	r := ca.Aligner.Align(contig, reference)
	if r.Score <= ca.MinAlignmentScore || r.Ambiguous() || r.EndPosition <= 0 {
		return nil, false
	}
	if ca.CheckAnchors && !ca.anchored(contig, reference, r) {
		return nil, false
	}

	left := r.Position
	right := int32(len(reference)) - r.EndPosition
	if ca.MaxPadding > 0 {
		left = minInt32(left, ca.MaxPadding)
		right = minInt32(right, ca.MaxPadding)
	}
	localPosition := r.Position - left
	padded := reference[localPosition:r.Position] + contig + reference[r.EndPosition:r.EndPosition+right]

	cigar := sam.ExtendCigarWithMatches(r.Cigar, left, right)
	if len(window.Junctions) > 0 {
		cigar = injectSplices(cigar, localPosition, window.Start, window.Junctions)
	}

	return &ContigAlignment{
		LocalPosition: localPosition,
		Cigar:         cigar,
		Chromosome:    window.Chromosome,
		WindowStart:   window.Start,
		Sequence:      padded,
		Score:         r.Score,
	}, true
}

func minInt32(x, y int32) int32 {
	if x < y {
		return x
	}
	return y
}
