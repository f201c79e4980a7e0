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

type kmerNode struct {
	// the k-mer, or the spelled chain after condensation
	seq string

	frequency       uint16
	sampleFrequency [MaxSamples]uint16
	qualitySums     []uint16

	firstRead              string
	firstStrand            Strand
	hasMultipleUniqueReads bool

	out, in []int32

	condensed, filtered, root bool
}

func saturatingAdd(x uint16, y int, ceiling uint16) uint16 {
	if sum := int(x) + y; sum < int(ceiling) {
		return uint16(sum)
	}
	return ceiling
}

func newKmerNode(seq, read string, strand Strand) *kmerNode {
	return &kmerNode{
		seq:         seq,
		qualitySums: make([]uint16, len(seq)),
		firstRead:   read,
		firstStrand: strand,
	}
}

// quality is Phred+33 encoded. Duplicate reads, with the same bases on
// the same strand, count as a single unique read.
func (node *kmerNode) addOccurrence(sample int, quality, read string, strand Strand) {
	node.frequency = saturatingAdd(node.frequency, 1, MaxFrequency)
	node.sampleFrequency[sample] = saturatingAdd(node.sampleFrequency[sample], 1, MaxFrequency)
	for i := range node.qualitySums {
		node.qualitySums[i] = saturatingAdd(node.qualitySums[i], int(quality[i])-33, MaxQualitySum)
	}
	if read != node.firstRead || strand != node.firstStrand {
		node.hasMultipleUniqueReads = true
	}
}

func (node *kmerNode) minQualitySum() int {
	min := MaxQualitySum
	for _, sum := range node.qualitySums {
		if int(sum) < min {
			min = int(sum)
		}
	}
	return min
}

func indexOf(ids []int32, id int32) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

func removeId(ids []int32, id int32) []int32 {
	if i := indexOf(ids, id); i >= 0 {
		return append(ids[:i], ids[i+1:]...)
	}
	return ids
}
