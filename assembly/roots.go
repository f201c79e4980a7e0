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

func (g *Graph) isRoot(id int32) bool {
	node := g.nodes[id]
	switch len(node.in) {
	case 0:
		return true
	case 1:
		return node.in[0] == id
	default:
		return false
	}
}

func (g *Graph) findRoots() (roots []int32) {
	for _, id := range g.sortedNodes() {
		if g.isRoot(id) {
			g.nodes[id].root = true
			roots = append(roots, id)
		}
	}
	return
}

// Roots returns the sequences of the nodes without incoming edges, or
// whose only incoming edge is a self-loop, in ascending order, and
// flags these nodes as roots.
func (g *Graph) Roots() []string {
	roots := g.findRoots()
	result := make([]string, len(roots))
	for i, id := range roots {
		result[i] = g.nodes[id].seq
	}
	return result
}
