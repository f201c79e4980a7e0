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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/elindel/align"
	"github.com/exascience/elindel/sam"
	"github.com/exascience/elindel/utils"
)

func insertionRegion(chromosome string) (*Region, string) {
	r := randomSequence(14, 300)
	reference := r[:149] + "CC" + r[151:]
	haplotype := reference[:150] + "GATTA" + reference[150:]
	read := makeRead(haplotype[100:200])
	region := &Region{
		Chromosome: utils.Intern(chromosome),
		Start:      1100,
		End:        1200,
		Window: &align.ReferenceWindow{
			Chromosome: utils.Intern(chromosome),
			Start:      1000,
			Bases:      reference,
		},
	}
	for i := 0; i < 10; i++ {
		region.Reads = append(region.Reads, read)
	}
	return region, read.Sequence
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	config := DefaultConfig()
	config.KmerSizes = []int{31, 21}
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.KmerSizes = nil
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.MinEdgeRatio = 1.5
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.ContigAligner.Aligner.Match = 0
	_, err := NewAssembler(config)
	assert.Error(t, err)
}

func TestAssembleRegionFindsInsertion(t *testing.T) {
	config := DefaultConfig()
	assembler, err := NewAssembler(config)
	require.NoError(t, err)
	region, contig := insertionRegion("chr1")

	result := assembler.AssembleRegion(region)
	require.Equal(t, OK, result.Status)
	assert.Equal(t, 21, result.KmerSize)
	require.Len(t, result.Contigs, 1)
	assert.Equal(t, contig, result.Contigs[0].Sequence)
	assert.Equal(t, "contig_1_0.0000", result.Contigs[0].Name)

	alignment := result.Contigs[0].Alignment
	require.NotNil(t, alignment)
	assert.Equal(t, "150M5I150M", sam.CigarString(alignment.Cigar))
	assert.Equal(t, int32(0), alignment.LocalPosition)
	assert.Equal(t, int32(95*8-48-4), alignment.Score)
	var insertions int
	for _, op := range alignment.Cigar {
		if op.Operation == 'I' {
			insertions++
			assert.Equal(t, int32(5), op.Length)
		}
	}
	assert.Equal(t, 1, insertions)
}

func TestAssembleRegionEscalatesKmerSize(t *testing.T) {
	config := testConfig()
	config.KmerSizes = []int{3, 7}
	config.MinContigLength = 10
	assembler, err := NewAssembler(config)
	require.NoError(t, err)
	read := makeRead("CAGACGTACGTATGC")
	region := &Region{Chromosome: utils.Intern("chr1"), Start: 0, End: 15, Reads: []Read{read, read}}
	result := assembler.AssembleRegion(region)
	assert.Equal(t, OK, result.Status)
	assert.Equal(t, 7, result.KmerSize)
	require.Len(t, result.Contigs, 1)
	assert.Equal(t, read.Sequence, result.Contigs[0].Sequence)
	assert.Nil(t, result.Contigs[0].Alignment)

	config.KmerSizes = []int{3}
	result = assembler.AssembleRegion(region)
	assert.Equal(t, StoppedOnRepeat, result.Status)
	assert.Empty(t, result.Contigs)
}

func TestAssembleRegionRejectsUnalignedContigs(t *testing.T) {
	assembler, err := NewAssembler(DefaultConfig())
	require.NoError(t, err)
	region, _ := insertionRegion("chr1")
	region.Window.Bases = randomSequence(15, 300)
	result := assembler.AssembleRegion(region)
	assert.Equal(t, OK, result.Status)
	assert.Empty(t, result.Contigs)
}

func TestAssembleRegions(t *testing.T) {
	config := DefaultConfig()
	config.Threads = 2
	assembler, err := NewAssembler(config)
	require.NoError(t, err)

	var regions []*Region
	for _, chromosome := range []string{"chr1", "chr2", "chr3", "chr4"} {
		region, _ := insertionRegion(chromosome)
		regions = append(regions, region)
	}
	regions[2].Reads = nil
	config.MaxNodes = 10

	results := assembler.AssembleRegions(regions)
	require.Len(t, results, 4)
	names := make(map[string]bool)
	for i, result := range results {
		assert.Equal(t, regions[i], result.Region)
		if i == 2 {
			assert.Equal(t, OK, result.Status)
			assert.Empty(t, result.Contigs)
			continue
		}
		assert.Equal(t, TooManyNodes, result.Status)
		assert.Empty(t, result.Contigs)
		for _, contig := range result.Contigs {
			names[contig.Name] = true
		}
	}

	config.MaxNodes = DefaultConfig().MaxNodes
	results = assembler.AssembleRegions(regions)
	require.Len(t, results, 4)
	for i, result := range results {
		assert.Equal(t, OK, result.Status)
		if i == 2 {
			continue
		}
		require.Len(t, result.Contigs, 1)
		assert.Equal(t, utils.SymbolName(regions[i].Chromosome), *result.Contigs[0].Alignment.Chromosome)
		names[result.Contigs[0].Name] = true
	}
	assert.Len(t, names, 3)
}

func TestWriteOutputs(t *testing.T) {
	assembler, err := NewAssembler(DefaultConfig())
	require.NoError(t, err)
	region, contig := insertionRegion("chr7")
	results := assembler.AssembleRegions([]*Region{region})

	var fasta bytes.Buffer
	require.NoError(t, WriteFasta(&fasta, results))
	assert.Equal(t, ">contig_1_0.0000\n"+contig+"\n", fasta.String())

	var status bytes.Buffer
	require.NoError(t, WriteStatus(&status, results))
	assert.Equal(t, "chr7\t1100\t1200\t21\tOK\t1\n", status.String())

	alignments := Alignments(results)
	require.Len(t, alignments, 1)
	var tsv bytes.Buffer
	require.NoError(t, align.WriteAlignments(&tsv, alignments))
	assert.True(t, strings.HasPrefix(tsv.String(), "chr7\t1000\t0\t150M5I150M\t"))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "TOO_MANY_PATHS_FROM_ROOT", TooManyPathsFromRoot.String())
	assert.Panics(t, func() { _ = Status(42).String() })
}
