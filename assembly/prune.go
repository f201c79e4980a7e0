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

// PruneByQuality removes the nodes with a quality sum below
// minQualitySum at any position, and returns the number of removed
// nodes.
func (g *Graph) PruneByQuality(minQualitySum int) (removed int) {
	for _, id := range g.sortedNodes() {
		if g.nodes[id].minQualitySum() < minQualitySum {
			g.removeNode(id)
			removed++
		}
	}
	return
}

// PruneByFrequency removes the nodes seen fewer than minFrequency times,
// or seen in only one read. It does nothing when minFrequency <= 1.
func (g *Graph) PruneByFrequency(minFrequency int) (removed int) {
	if minFrequency <= 1 {
		return 0
	}
	for _, id := range g.sortedNodes() {
		node := g.nodes[id]
		if int(node.frequency) < minFrequency || !node.hasMultipleUniqueReads {
			g.removeNode(id)
			removed++
		}
	}
	return
}

func sampleTotals(g *Graph, neighbours []int32) (totals [MaxSamples]int) {
	for _, id := range neighbours {
		for sample, frequency := range &g.nodes[id].sampleFrequency {
			totals[sample] += int(frequency)
		}
	}
	return
}

func dominatesSomeSample(node *kmerNode, totals *[MaxSamples]int, minEdgeRatio float64) bool {
	for sample, total := range totals {
		if total > 0 && float64(node.sampleFrequency[sample])/float64(total) >= minEdgeRatio {
			return true
		}
	}
	return false
}

type edge struct {
	from, to int32
}

// PruneByEdgeRatio removes the edges to neighbours that are rare in
// every sample relative to their siblings. Outgoing edges are judged
// first, on the graph as it is on entry, then incoming edges on the
// result. It returns the number of removed edges.
func (g *Graph) PruneByEdgeRatio(minEdgeRatio float64) (removed int) {
	ids := g.sortedNodes()
	var edges []edge
	for _, id := range ids {
		node := g.nodes[id]
		if len(node.out) == 0 {
			continue
		}
		totals := sampleTotals(g, node.out)
		for _, to := range node.out {
			if !dominatesSomeSample(g.nodes[to], &totals, minEdgeRatio) {
				edges = append(edges, edge{id, to})
			}
		}
	}
	for _, e := range edges {
		g.removeEdge(e.from, e.to)
	}
	removed = len(edges)
	edges = edges[:0]
	for _, id := range ids {
		node := g.nodes[id]
		if len(node.in) == 0 {
			continue
		}
		totals := sampleTotals(g, node.in)
		for _, from := range node.in {
			if !dominatesSomeSample(g.nodes[from], &totals, minEdgeRatio) {
				edges = append(edges, edge{from, id})
			}
		}
	}
	for _, e := range edges {
		g.removeEdge(e.from, e.to)
	}
	return removed + len(edges)
}

// RemoveOrphans removes the nodes without any edges.
func (g *Graph) RemoveOrphans() (removed int) {
	for _, id := range g.sortedNodes() {
		if node := g.nodes[id]; len(node.out) == 0 && len(node.in) == 0 {
			g.removeNode(id)
			removed++
		}
	}
	return
}

// Prune runs the quality, frequency and edge ratio passes in that
// order, and then removes orphaned nodes.
func (g *Graph) Prune(config *Config) {
	g.PruneByQuality(config.MinQualitySum)
	g.PruneByFrequency(config.MinNodeFrequency)
	g.PruneByEdgeRatio(config.MinEdgeRatio)
	g.RemoveOrphans()
}
