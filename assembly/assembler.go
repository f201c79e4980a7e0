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
	"log"
	"strconv"
	"sync/atomic"

	"github.com/exascience/pargo/parallel"
	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/elindel/align"
	"github.com/exascience/elindel/internal"
	"github.com/exascience/elindel/utils"
)

// A Region is the unit of assembly: a genomic interval, the reads that
// overlap it, and the reference window its contigs are validated
// against. Without a window, contigs are not validated.
type Region struct {
	Chromosome utils.Symbol
	Start, End int32
	Reads      []Read
	Window     *align.ReferenceWindow
}

// A RegionResult holds the outcome of assembling a region. Contigs are
// only reported for regions with status OK.
type RegionResult struct {
	Region   *Region
	Status   Status
	KmerSize int
	Contigs  []*Contig
}

// An Assembler assembles regions with a fixed configuration. The
// contig counter is shared by all regions it assembles, so contig names
// are unique per Assembler.
type Assembler struct {
	config  *Config
	counter int64
}

// NewAssembler validates the configuration and returns an Assembler.
func NewAssembler(config *Config) (*Assembler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{config: config}, nil
}

// Config returns the configuration of the assembler.
func (a *Assembler) Config() *Config {
	return a.config
}

func (a *Assembler) contigName(score float64) string {
	buf := make([]byte, 0, len(a.config.Prefix)+24)
	buf = append(buf, a.config.Prefix...)
	buf = append(buf, '_')
	buf = strconv.AppendInt(buf, atomic.AddInt64(&a.counter, 1), 10)
	buf = append(buf, '_')
	buf = strconv.AppendFloat(buf, score, 'f', 4, 64)
	return string(buf)
}

// assemble tries the configured k-mer sizes in order, moving on to the
// next one only when enumeration stopped on a repeat.
func (a *Assembler) assemble(region *Region) (contigs []*Contig, status Status, kmerSize int) {
	span := int(region.End - region.Start)
	for _, kmerSize = range a.config.KmerSizes {
		var graph *Graph
		graph, status = BuildGraph(region.Reads, kmerSize, a.config)
		if status == OK {
			graph.Prune(a.config)
			graph.Condense()
			contigs, status = graph.EnumerateContigs(a.config, span)
		}
		if status != StoppedOnRepeat {
			return
		}
	}
	return
}

// AssembleRegion assembles the reads of a region and validates the
// resulting contigs against the region's reference window.
func (a *Assembler) AssembleRegion(region *Region) *RegionResult {
	contigs, status, kmerSize := a.assemble(region)
	result := &RegionResult{Region: region, Status: status, KmerSize: kmerSize}
	if status != OK {
		if a.config.Verbose {
			log.Printf("region %v:%v-%v with k=%v: %v", utils.SymbolName(region.Chromosome), region.Start, region.End, kmerSize, status)
		}
		return result
	}
	if window := region.Window; window != nil {
		aligner := &a.config.ContigAligner
		parallel.Range(0, len(contigs), 0, func(low, high int) {
			for _, contig := range contigs[low:high] {
				if alignment, ok := aligner.Align(contig.Sequence, window); ok {
					contig.Alignment = alignment
				}
			}
		})
		validated := contigs[:0]
		for _, contig := range contigs {
			if contig.Alignment != nil {
				validated = append(validated, contig)
			}
		}
		contigs = validated
	}
	for _, contig := range contigs {
		contig.Name = a.contigName(contig.Score)
	}
	result.Contigs = contigs
	return result
}

// AssembleRegions assembles regions in parallel, with at most
// config.Threads regions in flight, and returns the results in the
// order of the regions.
func (a *Assembler) AssembleRegions(regions []*Region) []*RegionResult {
	results := make([]*RegionResult, 0, len(regions))
	index := 0
	var p pipeline.Pipeline
	p.Source(pipeline.NewFunc(len(regions), func(size int) (interface{}, int, error) {
		if index >= len(regions) {
			return nil, 0, nil
		}
		end := index + size
		if end > len(regions) {
			end = len(regions)
		}
		batch := regions[index:end]
		index = end
		return batch, len(batch), nil
	}))
	p.SetVariableBatchSize(1, 1)
	p.Add(
		pipeline.LimitedPar(a.config.Threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
			batch := data.([]*Region)
			batchResults := make([]*RegionResult, len(batch))
			for i, region := range batch {
				batchResults[i] = a.AssembleRegion(region)
			}
			return batchResults
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			results = append(results, data.([]*RegionResult)...)
			return data
		})),
	)
	internal.RunPipeline(&p)
	return results
}
