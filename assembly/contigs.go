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
	"math"
	"sort"
	"strings"

	"github.com/willf/bitset"

	"github.com/exascience/elindel/align"
)

// A Contig is an assembled candidate sequence. Score is the log10
// likelihood of its path through the graph. Name and Alignment are
// only set once the contig is validated against the reference.
type Contig struct {
	Name      string
	Sequence  string
	Score     float64
	Alignment *align.ContigAlignment

	ordinal int
}

// persistent list of the nodes on a path, shared between forks
type pathNode struct {
	id     int32
	parent *pathNode
}

type contigPath struct {
	node    int32
	trail   *pathNode
	visited *bitset.BitSet
	score   float64
	// bases contributed by the nodes on the trail, not counting the
	// k-1 bases overlapping the next node
	length int
}

type enumerator struct {
	g         *Graph
	config    *Config
	minLength int
	best      *bestOfK
	seen      map[string]bool
	emitted   int
	repeats   int
}

func (e *enumerator) spell(trail *pathNode) string {
	var ids []int32
	for p := trail; p != nil; p = p.parent {
		ids = append(ids, p.id)
	}
	var seq strings.Builder
	for i := len(ids) - 1; i > 0; i-- {
		seq.WriteString(e.g.spelled(e.g.nodes[ids[i]]))
	}
	seq.WriteString(e.g.nodes[ids[0]].seq)
	return seq.String()
}

// emit returns false when the contig cap is exceeded. A condensed node
// can carry a path past the maximum contig size, so the spelled
// sequence is cut at that size.
func (e *enumerator) emit(path *contigPath, realized int) bool {
	if realized > e.config.MaxContigSize {
		realized = e.config.MaxContigSize
	}
	if realized < e.minLength || !e.best.accepts(path.score) {
		return true
	}
	seq := e.spell(path.trail)
	if len(seq) > realized {
		seq = seq[:realized]
	}
	if e.seen[seq] {
		return true
	}
	if e.emitted >= e.config.MaxContigs {
		return false
	}
	e.seen[seq] = true
	e.emitted++
	e.best.offer(&Contig{Sequence: seq, Score: path.score, ordinal: e.emitted})
	return true
}

func (e *enumerator) enumerateFrom(root int32) Status {
	g := e.g
	stack := []*contigPath{{node: root, visited: bitset.New(uint(len(g.nodes)))}}
	paths := 0
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if paths++; paths > e.config.MaxPathsFromRoot {
			return TooManyPathsFromRoot
		}
		if path.visited.Test(uint(path.node)) {
			e.repeats++
			if e.config.StopOnRepeat {
				return StoppedOnRepeat
			}
			continue
		}
		path.visited.Set(uint(path.node))
		path.trail = &pathNode{id: path.node, parent: path.trail}
		node := g.nodes[path.node]
		realized := path.length + len(node.seq)
		if len(node.out) == 0 || realized >= e.config.MaxContigSize {
			if !e.emit(path, realized) {
				return TooManyContigs
			}
			continue
		}
		if !e.best.accepts(path.score) {
			continue
		}
		path.length += len(node.seq) - (g.kmerSize - 1)
		var totalLog10 float64
		if len(node.out) > 1 {
			total := 0
			for _, to := range node.out {
				total += int(g.nodes[to].frequency)
			}
			totalLog10 = math.Log10(float64(total))
		}
		for i := len(node.out) - 1; i >= 0; i-- {
			next := path
			if i > 0 {
				next = &contigPath{
					trail:   path.trail,
					visited: path.visited.Clone(),
					score:   path.score,
					length:  path.length,
				}
			}
			to := node.out[i]
			next.node = to
			if len(node.out) > 1 {
				next.score += math.Log10(float64(g.nodes[to].frequency)) - totalLog10
			}
			stack = append(stack, next)
		}
	}
	return OK
}

// EnumerateContigs walks all paths from every root of the graph and
// returns the best scoring contigs in the order they were found.
// regionSpan is only used when config.MinContigRatio is set. A status
// other than OK means enumeration was aborted, and the contigs found so
// far are returned.
func (g *Graph) EnumerateContigs(config *Config, regionSpan int) ([]*Contig, Status) {
	e := &enumerator{
		g:         g,
		config:    config,
		minLength: config.MinContigLength,
		best:      newBestOfK(config.MaxBestContigs),
		seen:      make(map[string]bool),
	}
	if config.MinContigRatio > 0 {
		if l := int(math.Ceil(config.MinContigRatio * float64(regionSpan))); l > e.minLength {
			e.minLength = l
		}
	}
	status := OK
	for _, root := range g.findRoots() {
		if status = e.enumerateFrom(root); status != OK {
			break
		}
	}
	contigs := append([]*Contig(nil), e.best.contigs...)
	sort.Slice(contigs, func(i, j int) bool {
		return contigs[i].ordinal < contigs[j].ordinal
	})
	return contigs, status
}
