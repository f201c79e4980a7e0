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

package fasta

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/elindel/utils"
)

func writeTestFasta(t *testing.T, dir string) string {
	filename := filepath.Join(dir, "ref.fa")
	content := ">chr1 first contig\nACGTacgt\nNNryAC\n\n>chr2\nGGGG\nTTTT\n"
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestToUpperAndN(t *testing.T) {
	assert.Equal(t, byte('A'), ToUpperAndN('a'))
	assert.Equal(t, byte('N'), ToUpperAndN('r'))
	assert.Equal(t, byte('N'), ToUpperAndN('V'))
	assert.Equal(t, byte('T'), ToUpperAndN('T'))
}

func TestParseFasta(t *testing.T) {
	dir, err := ioutil.TempDir("", "fasta")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fasta := ParseFasta(writeTestFasta(t, dir))
	assert.Equal(t, "ACGTACGTNNNNAC", string(fasta.Seq("chr1")))
	assert.Equal(t, "GGGGTTTT", string(fasta.Seq("chr2")))
	assert.Nil(t, fasta.Seq("chr3"))
}

func TestElfasta(t *testing.T) {
	dir, err := ioutil.TempDir("", "fasta")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fasta := ParseFasta(writeTestFasta(t, dir))
	elfasta := filepath.Join(dir, "ref.elfasta")
	ToElfasta(fasta, elfasta)

	ref := Open(elfasta)
	defer ref.Close()
	assert.Equal(t, "ACGTACGTNNNNAC", string(ref.Seq("chr1")))
	assert.Equal(t, "GGGGTTTT", string(ref.Seq("chr2")))
}

func TestWindow(t *testing.T) {
	ref := Sequences{"chr1": []byte("acgtACGTNNryAC")}
	chrom := utils.Intern("chr1")

	window, err := Window(ref, chrom, 4, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), window.Start)
	assert.Equal(t, "GTACGTNN", window.Bases)
	assert.Equal(t, chrom, window.Chromosome)

	window, err = Window(ref, chrom, 1, 13, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(0), window.Start)
	assert.Equal(t, "ACGTACGTNNNNAC", window.Bases)

	_, err = Window(ref, utils.Intern("chrX"), 0, 4, 0)
	assert.Error(t, err)
	_, err = Window(ref, chrom, 20, 30, 0)
	assert.Error(t, err)
}
