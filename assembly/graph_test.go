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

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	config := DefaultConfig()
	config.MinContigLength = 0
	config.MinQualitySum = 0
	return config
}

func makeRead(seq string) Read {
	return Read{Sequence: seq, Quality: strings.Repeat("I", len(seq))}
}

func randomSequence(seed int64, n int) string {
	rnd := rand.New(rand.NewSource(seed))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = "ACGT"[rnd.Intn(4)]
	}
	return string(buf)
}

func (g *Graph) node(seq string) *kmerNode {
	id, ok := g.index[seq]
	if !ok {
		return nil
	}
	return g.nodes[id]
}

func (g *Graph) edge(from, to string) bool {
	return g.hasEdge(g.index[from], g.index[to])
}

func TestSaturatingAdd(t *testing.T) {
	assert.Equal(t, uint16(10), saturatingAdd(4, 6, MaxFrequency))
	assert.Equal(t, uint16(MaxFrequency), saturatingAdd(MaxFrequency-3, 10, MaxFrequency))
	assert.Equal(t, uint16(MaxFrequency), saturatingAdd(MaxFrequency, 1, MaxFrequency))
}

func TestNodeCountersSaturate(t *testing.T) {
	node := newKmerNode("ACG", "TACG", Forward)
	for i := 0; i < 40000; i++ {
		node.addOccurrence(3, "II5", "TACG", Strand(i%2))
		require.True(t, node.frequency <= MaxFrequency)
	}
	assert.Equal(t, uint16(MaxFrequency), node.frequency)
	assert.Equal(t, uint16(MaxFrequency), node.sampleFrequency[3])
	assert.Equal(t, uint16(0), node.sampleFrequency[0])
	for _, sum := range node.qualitySums {
		assert.Equal(t, uint16(MaxQualitySum), sum)
	}
	assert.True(t, node.hasMultipleUniqueReads)
}

func TestGraphCountersSaturate(t *testing.T) {
	read := makeRead("ACGTTGCAAGTCCATGGATCCAGTA")
	g := NewGraph(21, testConfig())
	for i := 0; i < 33000; i++ {
		require.True(t, g.AddRead(&read))
	}
	require.Equal(t, 5, g.NodeCount())
	for _, node := range g.nodes {
		assert.Equal(t, uint16(MaxFrequency), node.frequency)
		for _, sum := range node.qualitySums {
			assert.Equal(t, uint16(MaxQualitySum), sum)
		}
	}
}

func TestAddReadLinksAdjacentKmers(t *testing.T) {
	config := testConfig()
	g := NewGraph(4, config)
	read := makeRead("AACCGGTT")
	require.True(t, g.AddRead(&read))
	require.True(t, g.AddRead(&read))
	assert.Equal(t, 5, g.NodeCount())
	assert.True(t, g.edge("AACC", "ACCG"))
	assert.True(t, g.edge("CGGT", "GGTT"))
	assert.False(t, g.edge("ACCG", "AACC"))
	node := g.node("ACCG")
	assert.Len(t, node.out, 1)
	assert.Len(t, node.in, 1)
	assert.Equal(t, uint16(2), node.frequency)
	assert.False(t, node.hasMultipleUniqueReads)

	reverse := read
	reverse.Strand = Reverse
	require.True(t, g.AddRead(&reverse))
	assert.True(t, node.hasMultipleUniqueReads)
}

func TestAddReadCountsDistinctReadsAsUnique(t *testing.T) {
	g := NewGraph(4, testConfig())
	first, second := makeRead("AACCGGTT"), makeRead("TTACCGGA")
	require.True(t, g.AddRead(&first))
	require.True(t, g.AddRead(&first))
	node := g.node("ACCG")
	assert.False(t, node.hasMultipleUniqueReads)
	require.True(t, g.AddRead(&second))
	assert.True(t, node.hasMultipleUniqueReads)
	assert.False(t, g.node("AACC").hasMultipleUniqueReads)
}

func TestAddReadSkipsUnusableBases(t *testing.T) {
	config := testConfig()
	g := NewGraph(4, config)
	read := makeRead("AACCGGTTNTTGGCCAA")
	require.True(t, g.AddRead(&read))
	assert.Equal(t, 10, g.NodeCount())
	assert.False(t, g.edge("GGTT", "TTGG"))
	assert.True(t, g.edge("TTGG", "TGGC"))

	g = NewGraph(4, config)
	read = Read{Sequence: "AACCGGTT", Quality: "III#IIII"}
	require.True(t, g.AddRead(&read))
	assert.Equal(t, 1, g.NodeCount())
	assert.NotNil(t, g.node("GGTT"))
}

func TestAddReadDetectsSingleReadRepeats(t *testing.T) {
	g := NewGraph(4, testConfig())
	read := makeRead("ACGTACGT")
	require.True(t, g.AddRead(&read))
	node := g.node("ACGT")
	assert.Equal(t, uint16(2), node.frequency)
	assert.False(t, node.hasMultipleUniqueReads)

	read.Strand = Reverse
	require.True(t, g.AddRead(&read))
	assert.True(t, node.hasMultipleUniqueReads)
}

func TestAddReadPanicsOnInvalidReads(t *testing.T) {
	g := NewGraph(4, testConfig())
	read := makeRead("AACCGGTT")
	read.Sample = MaxSamples
	assert.Panics(t, func() { g.AddRead(&read) })
	read = Read{Sequence: "AACCGGTT", Quality: "IIII"}
	assert.Panics(t, func() { g.AddRead(&read) })
}

func TestBuildGraphStopsAtNodeCap(t *testing.T) {
	config := testConfig()
	config.MaxNodes = 3
	g, status := BuildGraph([]Read{makeRead("AACCGGTT")}, 4, config)
	assert.Equal(t, TooManyNodes, status)
	assert.True(t, g.TooManyNodes())
	assert.Equal(t, 3, g.NodeCount())

	config.MaxNodes = 5
	g, status = BuildGraph([]Read{makeRead("AACCGGTT")}, 4, config)
	assert.Equal(t, OK, status)
	assert.False(t, g.TooManyNodes())
}

func TestRemoveNodeUpdatesNeighbours(t *testing.T) {
	g, _ := BuildGraph([]Read{makeRead("AACCGGTT")}, 4, testConfig())
	id := g.index["CCGG"]
	g.removeNode(id)
	assert.Equal(t, 4, g.NodeCount())
	assert.Empty(t, g.node("ACCG").out)
	assert.Empty(t, g.node("CGGT").in)
	assert.Nil(t, g.node("CCGG"))
	assert.True(t, g.nodes[id].filtered)
}

func TestWriteDot(t *testing.T) {
	g, _ := BuildGraph([]Read{makeRead("AACCG")}, 4, testConfig())
	var out bytes.Buffer
	require.NoError(t, g.WriteDot(&out))
	assert.Equal(t, "digraph assembly {\n"+
		"  n0 [label=\"AACC\\n1\"];\n"+
		"  n1 [label=\"ACCG\\n1\"];\n"+
		"  n0 -> n1;\n"+
		"}\n", out.String())
}
