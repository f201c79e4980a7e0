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
	"bufio"
	"io"
	"log"
	"sort"
	"strconv"
)

// A Graph is the k-mer graph of one region. Nodes live in an arena and
// are referred to by their int32 index. Every edge is recorded in the
// out list of its source and in the in list of its target.
type Graph struct {
	kmerSize       int
	maxNodes       int
	minBaseQuality int

	nodes []*kmerNode
	index map[string]int32

	tooManyNodes bool
}

// NewGraph returns an empty graph for the given k-mer size.
func NewGraph(kmerSize int, config *Config) *Graph {
	if kmerSize < 2 {
		log.Panicf("invalid k-mer size %v", kmerSize)
	}
	return &Graph{
		kmerSize:       kmerSize,
		maxNodes:       config.MaxNodes,
		minBaseQuality: config.MinBaseQuality,
		index:          make(map[string]int32),
	}
}

// BuildGraph adds all reads to a new graph. The status is TooManyNodes
// when the node cap was reached, in which case the graph must not be
// enumerated.
func BuildGraph(reads []Read, kmerSize int, config *Config) (*Graph, Status) {
	g := NewGraph(kmerSize, config)
	for i := range reads {
		if !g.AddRead(&reads[i]) {
			return g, TooManyNodes
		}
	}
	return g, OK
}

// KmerSize returns the k-mer size of the graph.
func (g *Graph) KmerSize() int {
	return g.kmerSize
}

// NodeCount returns the number of nodes that are not filtered.
func (g *Graph) NodeCount() (count int) {
	for _, node := range g.nodes {
		if !node.filtered {
			count++
		}
	}
	return
}

// TooManyNodes reports whether the node cap was reached.
func (g *Graph) TooManyNodes() bool {
	return g.tooManyNodes
}

func isNucleotide(base byte) bool {
	switch base {
	case 'A', 'C', 'G', 'T':
		return true
	default:
		return false
	}
}

func (g *Graph) baseUsableForAssembly(base, qual byte) bool {
	return isNucleotide(base) && int(qual)-33 >= g.minBaseQuality
}

func (g *Graph) getOrAddNode(kmer, read string, strand Strand) (int32, bool) {
	if id, ok := g.index[kmer]; ok {
		return id, true
	}
	if len(g.nodes) >= g.maxNodes {
		g.tooManyNodes = true
		return -1, false
	}
	id := int32(len(g.nodes))
	g.nodes = append(g.nodes, newKmerNode(kmer, read, strand))
	g.index[kmer] = id
	return id, true
}

// AddRead adds the k-mers of a read to the graph, and links consecutive
// k-mers. Windows with an ambiguous or low-quality base are skipped.
// AddRead returns false when the node cap is reached.
func (g *Graph) AddRead(read *Read) bool {
	if read.Sample < 0 || read.Sample >= MaxSamples {
		log.Panicf("invalid sample id %v", read.Sample)
	}
	seq, qual := read.Sequence, read.Quality
	if len(seq) != len(qual) {
		log.Panicf("read sequence of length %v has %v base qualities", len(seq), len(qual))
	}
	k := g.kmerSize
	lastUnusable := -1
	prev, prevStart := int32(-1), -1
	for end := 0; end < len(seq); end++ {
		if !g.baseUsableForAssembly(seq[end], qual[end]) {
			lastUnusable = end
			continue
		}
		start := end - k + 1
		if start < 0 || lastUnusable >= start {
			continue
		}
		node, ok := g.getOrAddNode(seq[start:end+1], seq, read.Strand)
		if !ok {
			return false
		}
		g.nodes[node].addOccurrence(read.Sample, qual[start:end+1], seq, read.Strand)
		if prev >= 0 && prevStart == start-1 {
			g.addEdge(prev, node)
		}
		prev, prevStart = node, start
	}
	return true
}

func (g *Graph) hasEdge(from, to int32) bool {
	return indexOf(g.nodes[from].out, to) >= 0
}

func (g *Graph) addEdge(from, to int32) {
	if g.hasEdge(from, to) {
		return
	}
	g.nodes[from].out = append(g.nodes[from].out, to)
	g.nodes[to].in = append(g.nodes[to].in, from)
}

func (g *Graph) removeEdge(from, to int32) {
	g.nodes[from].out = removeId(g.nodes[from].out, to)
	g.nodes[to].in = removeId(g.nodes[to].in, from)
}

func (g *Graph) removeNode(id int32) {
	node := g.nodes[id]
	for _, to := range node.out {
		if to != id {
			g.nodes[to].in = removeId(g.nodes[to].in, id)
		}
	}
	for _, from := range node.in {
		if from != id {
			g.nodes[from].out = removeId(g.nodes[from].out, id)
		}
	}
	node.out, node.in = nil, nil
	node.filtered = true
	delete(g.index, node.seq)
}

// sortedNodes returns the ids of the nodes that are not filtered,
// ordered by sequence.
func (g *Graph) sortedNodes() []int32 {
	ids := make([]int32, 0, len(g.nodes))
	for id, node := range g.nodes {
		if !node.filtered {
			ids = append(ids, int32(id))
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return g.nodes[ids[i]].seq < g.nodes[ids[j]].seq
	})
	return ids
}

// WriteDot writes the graph in Graphviz format. Filtered nodes are
// included with a dashed outline.
func (g *Graph) WriteDot(w io.Writer) error {
	out := bufio.NewWriter(w)
	out.WriteString("digraph assembly {\n")
	for id, node := range g.nodes {
		out.WriteString("  n")
		out.WriteString(strconv.Itoa(id))
		out.WriteString(" [label=\"")
		out.WriteString(node.seq)
		out.WriteString("\\n")
		out.WriteString(strconv.Itoa(int(node.frequency)))
		out.WriteByte('"')
		switch {
		case node.filtered:
			out.WriteString(" style=dashed")
		case node.condensed:
			out.WriteString(" shape=box")
		}
		if node.root {
			out.WriteString(" color=red")
		}
		out.WriteString("];\n")
	}
	for id, node := range g.nodes {
		for _, to := range node.out {
			out.WriteString("  n")
			out.WriteString(strconv.Itoa(id))
			out.WriteString(" -> n")
			out.WriteString(strconv.Itoa(int(to)))
			out.WriteString(";\n")
		}
	}
	out.WriteString("}\n")
	return out.Flush()
}
