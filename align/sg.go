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
	"log"
	"math"
	"sync"

	"github.com/exascience/elindel/sam"
)

// An Aligner holds the scoring scheme of the semi-global dynamic
// program. All weights are given as positive numbers; mismatches and
// gaps are subtracted. A gap of length n costs GapOpen+(n-1)*GapExtend.
type Aligner struct {
	Match, Mismatch, GapOpen, GapExtend int32
}

// DefaultAligner uses the weights 8,32,48,1, which strongly favor a
// single gap over a cluster of mismatches.
var DefaultAligner = Aligner{Match: 8, Mismatch: 32, GapOpen: 48, GapExtend: 1}

// A Result describes the best semi-global alignment of a query against
// a reference. Position and EndPosition are reference coordinates, with
// EndPosition exclusive.
type Result struct {
	Score, SecondBest     int32
	Position, EndPosition int32
	Cigar                 []sam.CigarOperation
}

// Ambiguous reports whether another reference end position scores as
// well as the best one.
func (r *Result) Ambiguous() bool {
	return r.Score <= r.SecondBest
}

// backtrack cell layout
const (
	fromDiag      = 0
	fromDeletion  = 1
	fromInsertion = 2
	fromNone      = 3
	fromMask      = 3

	deletionOpened  = 4
	insertionOpened = 8
)

const lowInitValue = math.MinInt32 / 2

type sgMatrices struct {
	backtrack []byte
	hPrev, hCur []int32
	fPrev, fCur []int32
}

var sgMatricesPool = sync.Pool{New: func() interface{} { return &sgMatrices{} }}

func ensureInt32s(v []int32, size int) []int32 {
	if size <= cap(v) {
		return v[:size]
	}
	return make([]int32, size)
}

func (m *sgMatrices) ensureSize(rows, cols int) {
	if total := rows * cols; total <= cap(m.backtrack) {
		m.backtrack = m.backtrack[:total]
	} else {
		m.backtrack = make([]byte, total)
	}
	m.hPrev = ensureInt32s(m.hPrev, cols)
	m.hCur = ensureInt32s(m.hCur, cols)
	m.fPrev = ensureInt32s(m.fPrev, cols)
	m.fCur = ensureInt32s(m.fCur, cols)
}

// Align aligns the whole query against a stretch of the reference.
//
// The first matrix row is zero everywhere, so the alignment may start
// at any reference position; the first column accumulates gap open
// costs, so query bases can never be skipped for free. Scores of all
// cells in the last row are candidates for the end of the alignment.
func (a Aligner) Align(query, reference string) *Result {
	queryLength := len(query)
	refLength := len(reference)
	rows := queryLength + 1
	cols := refLength + 1

	m := sgMatricesPool.Get().(*sgMatrices)
	defer sgMatricesPool.Put(m)
	m.ensureSize(rows, cols)

	hPrev, hCur, fPrev, fCur := m.hPrev, m.hCur, m.fPrev, m.fCur
	backtrack := m.backtrack

	for j := 0; j < cols; j++ {
		hPrev[j] = 0
		fPrev[j] = lowInitValue
		backtrack[j] = fromNone
	}

	for i := 1; i < rows; i++ {
		qBase := query[i-1]
		row := backtrack[i*cols : (i+1)*cols]

		hCur[0] = -int32(i) * a.GapOpen
		fCur[0] = hCur[0]
		if i == 1 {
			row[0] = fromInsertion | insertionOpened
		} else {
			row[0] = fromInsertion
		}

		e := int32(lowInitValue)
		for j := 1; j < cols; j++ {
			var trace byte

			diag := hPrev[j-1]
			if qBase == reference[j-1] {
				diag += a.Match
			} else {
				diag -= a.Mismatch
			}

			if open, extend := hCur[j-1]-a.GapOpen, e-a.GapExtend; open >= extend {
				e = open
				trace |= deletionOpened
			} else {
				e = extend
			}

			f := fPrev[j] - a.GapExtend
			if open := hPrev[j] - a.GapOpen; open >= f {
				f = open
				trace |= insertionOpened
			}
			fCur[j] = f

			switch {
			case diag >= e && diag >= f:
				hCur[j] = diag
			case e >= f:
				hCur[j] = e
				trace |= fromDeletion
			default:
				hCur[j] = f
				trace |= fromInsertion
			}
			row[j] = trace
		}
		hPrev, hCur = hCur, hPrev
		fPrev, fCur = fCur, fPrev
	}

	// hPrev now holds the last row
	best, secondBest := int32(lowInitValue), int32(lowInitValue)
	bestColumn := 0
	for j := 0; j < cols; j++ {
		if score := hPrev[j]; score > best {
			secondBest = best
			best = score
			bestColumn = j
		} else if score > secondBest {
			secondBest = score
		}
	}

	position, cigar := traceback(backtrack, cols, queryLength, bestColumn)
	return &Result{
		Score:       best,
		SecondBest:  secondBest,
		Position:    int32(position),
		EndPosition: int32(bestColumn),
		Cigar:       cigar,
	}
}

const (
	inMatch = iota
	inDeletion
	inInsertion
)

func appendOperation(cigar []sam.CigarOperation, operation byte) []sam.CigarOperation {
	if last := len(cigar) - 1; last >= 0 && cigar[last].Operation == operation {
		cigar[last].Length++
		return cigar
	}
	return append(cigar, sam.CigarOperation{Length: 1, Operation: operation})
}

func traceback(backtrack []byte, cols, i, j int) (int, []sam.CigarOperation) {
	cigar := make([]sam.CigarOperation, 0, 8)
	state := inMatch
	for i > 0 {
		trace := backtrack[i*cols+j]
		switch state {
		case inMatch:
			switch trace & fromMask {
			case fromDiag:
				cigar = appendOperation(cigar, 'M')
				i--
				j--
			case fromDeletion:
				state = inDeletion
			case fromInsertion:
				state = inInsertion
			default:
				log.Panicf("invalid traceback at query %v, reference %v", i, j)
			}
		case inDeletion:
			cigar = appendOperation(cigar, 'D')
			if trace&deletionOpened != 0 {
				state = inMatch
			}
			j--
		case inInsertion:
			cigar = appendOperation(cigar, 'I')
			if trace&insertionOpened != 0 {
				state = inMatch
			}
			i--
		}
	}
	sam.ReverseCigar(cigar)
	return j, cigar
}
