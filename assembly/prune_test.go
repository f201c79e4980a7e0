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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneByQualityIsIdempotent(t *testing.T) {
	config := testConfig()
	config.MinBaseQuality = 0
	good := makeRead(randomSequence(1, 30))
	bad := Read{Sequence: randomSequence(2, 30), Quality: strings.Repeat("+", 30)}
	g, status := BuildGraph([]Read{good, good, bad}, 11, config)
	require.Equal(t, OK, status)
	require.Equal(t, 40, g.NodeCount())

	assert.Equal(t, 20, g.PruneByQuality(60))
	assert.Equal(t, 20, g.NodeCount())
	assert.NotNil(t, g.node(good.Sequence[:11]))
	assert.Nil(t, g.node(bad.Sequence[:11]))
	assert.Equal(t, 0, g.PruneByQuality(60))
	assert.Equal(t, 20, g.NodeCount())
}

func TestPruneByFrequency(t *testing.T) {
	config := testConfig()
	common := makeRead(randomSequence(3, 30))
	commonReverse := common
	commonReverse.Strand = Reverse
	rare := makeRead(randomSequence(4, 30))
	g, _ := BuildGraph([]Read{common, commonReverse, rare}, 11, config)
	assert.Equal(t, 0, g.PruneByFrequency(1))
	assert.Equal(t, 40, g.NodeCount())
	assert.Equal(t, 20, g.PruneByFrequency(2))
	assert.Nil(t, g.node(rare.Sequence[:11]))

	g, _ = BuildGraph([]Read{makeRead("ACGTACGT")}, 4, config)
	assert.Equal(t, 4, g.PruneByFrequency(2))
	assert.Equal(t, 0, g.NodeCount())
}

func edgeRatioReads(variantSample int) []Read {
	var reads []Read
	for i := 0; i < 99; i++ {
		reads = append(reads, makeRead("ACGTTGCATG"))
	}
	variant := makeRead("ACGTTCCATG")
	variant.Sample = variantSample
	return append(reads, variant)
}

func TestPruneByEdgeRatio(t *testing.T) {
	config := testConfig()

	g, _ := BuildGraph(edgeRatioReads(0), 5, config)
	require.True(t, g.edge("ACGTT", "CGTTC"))
	assert.Equal(t, 0, g.PruneByEdgeRatio(0.009))

	assert.Equal(t, 1, g.PruneByEdgeRatio(0.05))
	assert.False(t, g.edge("ACGTT", "CGTTC"))
	assert.True(t, g.edge("ACGTT", "CGTTG"))
	assert.True(t, g.edge("CGTTC", "GTTCC"))
	assert.Equal(t, 0, g.RemoveOrphans())
}

func TestPruneByEdgeRatioPerSample(t *testing.T) {
	g, _ := BuildGraph(edgeRatioReads(1), 5, testConfig())
	assert.Equal(t, 0, g.PruneByEdgeRatio(0.05))
	assert.True(t, g.edge("ACGTT", "CGTTC"))
}

func TestPruneByEdgeRatioIncoming(t *testing.T) {
	var reads []Read
	for i := 0; i < 99; i++ {
		reads = append(reads, makeRead("GTACCATGCA"))
	}
	reads = append(reads, makeRead("TTACCATGCA"))
	g, _ := BuildGraph(reads, 5, testConfig())
	require.True(t, g.edge("TTACC", "TACCA"))
	assert.Equal(t, 1, g.PruneByEdgeRatio(0.05))
	assert.False(t, g.edge("TTACC", "TACCA"))
	assert.Equal(t, 1, g.RemoveOrphans())
	assert.Nil(t, g.node("TTACC"))
}

func TestRemoveOrphans(t *testing.T) {
	g, _ := BuildGraph([]Read{makeRead("ACGTA"), makeRead("TTGCA")}, 5, testConfig())
	assert.Equal(t, 2, g.RemoveOrphans())
	assert.Equal(t, 0, g.NodeCount())
}

func TestPrune(t *testing.T) {
	config := DefaultConfig()
	config.MinNodeFrequency = 2
	common := makeRead(randomSequence(5, 40))
	commonReverse := common
	commonReverse.Strand = Reverse
	g, _ := BuildGraph([]Read{common, common, commonReverse, makeRead(randomSequence(6, 40))}, 21, config)
	g.Prune(config)
	assert.Equal(t, 20, g.NodeCount())
	assert.NotNil(t, g.node(common.Sequence[:21]))
}
