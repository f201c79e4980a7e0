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

// bestOfK keeps the K best scoring contigs in a min-heap on score, so
// that the worst retained contig is at the root.
type bestOfK struct {
	capacity int
	contigs  []*Contig
}

func newBestOfK(capacity int) *bestOfK {
	return &bestOfK{capacity: capacity, contigs: make([]*Contig, 0, capacity)}
}

func (b *bestOfK) full() bool {
	return len(b.contigs) >= b.capacity
}

// accepts reports whether a contig with the given score would be
// retained. Scores equal to the worst retained score are not accepted
// when full.
func (b *bestOfK) accepts(score float64) bool {
	return !b.full() || score > b.worst()
}

func (b *bestOfK) siftUp(k int, x *Contig) {
	for k > 0 {
		parent := (k - 1) >> 1
		e := b.contigs[parent]
		if x.Score >= e.Score {
			break
		}
		b.contigs[k] = e
		k = parent
	}
	b.contigs[k] = x
}

func (b *bestOfK) siftDown(k int, x *Contig) {
	half := len(b.contigs) >> 1
	for k < half {
		child := (k << 1) + 1
		c := b.contigs[child]
		right := child + 1
		if right < len(b.contigs) && c.Score > b.contigs[right].Score {
			child = right
			c = b.contigs[child]
		}
		if x.Score <= c.Score {
			break
		}
		b.contigs[k] = c
		k = child
	}
	b.contigs[k] = x
}

// offer adds the contig if it is accepted, evicting the worst retained
// contig when full.
func (b *bestOfK) offer(contig *Contig) bool {
	if !b.accepts(contig.Score) {
		return false
	}
	if b.full() {
		b.siftDown(0, contig)
		return true
	}
	b.contigs = append(b.contigs, nil)
	b.siftUp(len(b.contigs)-1, contig)
	return true
}

func (b *bestOfK) worst() float64 {
	return b.contigs[0].Score
}
