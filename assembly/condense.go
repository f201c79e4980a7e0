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

import "strings"

// upper bound on the number of nodes merged into one condensed node
const maxCondensedChain = 5000

// spelled returns the part of a node's sequence that it contributes to
// a path when it is not the last node of that path.
func (g *Graph) spelled(node *kmerNode) string {
	return node.seq[:len(node.seq)-(g.kmerSize-1)]
}

func (g *Graph) isChainContinuation(node *kmerNode) bool {
	return len(node.in) == 1 && len(g.nodes[node.in[0]].out) == 1
}

func (g *Graph) chainFrom(start int32) []int32 {
	chain := []int32{start}
	for current := start; len(chain) < maxCondensedChain; {
		node := g.nodes[current]
		if len(node.out) != 1 {
			break
		}
		next := node.out[0]
		nextNode := g.nodes[next]
		if next == start || nextNode.filtered || len(nextNode.in) != 1 {
			break
		}
		chain = append(chain, next)
		current = next
	}
	return chain
}

func (g *Graph) condenseChain(chain []int32) {
	start := g.nodes[chain[0]]
	terminalId := chain[len(chain)-1]
	terminal := g.nodes[terminalId]

	var seq strings.Builder
	for _, id := range chain[:len(chain)-1] {
		seq.WriteString(g.spelled(g.nodes[id]))
	}
	seq.WriteString(terminal.seq)

	out := append([]int32(nil), terminal.out...)
	for _, to := range out {
		in := g.nodes[to].in
		in[indexOf(in, terminalId)] = chain[0]
	}
	for _, id := range chain[1:] {
		node := g.nodes[id]
		node.out, node.in = nil, nil
		node.filtered = true
		node.condensed = true
	}
	start.seq = seq.String()
	start.out = out
	start.condensed = true
}

// Condense collapses every maximal unbranched chain into its first
// node. The absorbed nodes stay in the graph marked as filtered, with
// their edges cleared. Condense returns the number of absorbed nodes.
func (g *Graph) Condense() (absorbed int) {
	for _, id := range g.sortedNodes() {
		node := g.nodes[id]
		if node.filtered || len(node.out) != 1 || g.isChainContinuation(node) {
			continue
		}
		if chain := g.chainFrom(id); len(chain) > 1 {
			g.condenseChain(chain)
			absorbed += len(chain) - 1
		}
	}
	return
}
