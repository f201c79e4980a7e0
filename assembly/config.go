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
	"runtime"

	"github.com/pkg/errors"

	"github.com/exascience/elindel/align"
)

const (
	// MaxSamples is the number of per-sample frequency counters in a node.
	MaxSamples = 16

	// MaxFrequency is the ceiling of a node's frequency counters.
	MaxFrequency = math.MaxInt16

	// MaxQualitySum is the ceiling of a node's per-position quality sums.
	MaxQualitySum = math.MaxInt16

	// DefaultMaxBestContigs is the default capacity of the best-of-K
	// structure used during contig enumeration.
	DefaultMaxBestContigs = 128
)

// A Config holds all parameters of region assembly. A Config must not
// be modified once it is handed to NewAssembler.
type Config struct {
	// k-mer sizes in ascending order; a larger one is only tried when
	// enumeration with the previous one stopped on a repeat
	KmerSizes []int

	// bases with a lower Phred quality are not used for k-mers
	MinBaseQuality int

	// nodes with a lower quality sum at any position are pruned
	MinQualitySum int

	MinNodeFrequency int
	MinEdgeRatio     float64

	MinContigLength int
	// minimum contig length as a fraction of the region span, 0 to disable
	MinContigRatio float64

	MaxNodes         int
	MaxContigs       int
	MaxPathsFromRoot int
	MaxContigSize    int
	MaxBestContigs   int

	// "tight" assembly: the whole enumeration ends on the first repeat
	StopOnRepeat bool

	ContigAligner align.ContigAligner

	// prefix of the output contig names
	Prefix string

	Threads int
	Verbose bool
}

// DefaultConfig returns the default assembly parameters.
func DefaultConfig() *Config {
	return &Config{
		KmerSizes:        []int{21, 31, 41},
		MinBaseQuality:   20,
		MinQualitySum:    60,
		MinNodeFrequency: 1,
		MinEdgeRatio:     0.01,
		MinContigLength:  50,
		MaxNodes:         150000,
		MaxContigs:       2000,
		MaxPathsFromRoot: 100000,
		MaxContigSize:    2000,
		MaxBestContigs:   DefaultMaxBestContigs,
		StopOnRepeat:     true,
		ContigAligner:    *align.NewContigAligner(),
		Prefix:           "contig",
		Threads:          runtime.GOMAXPROCS(0),
	}
}

// Validate checks that the parameters are consistent.
func (config *Config) Validate() error {
	if len(config.KmerSizes) == 0 {
		return errors.New("no k-mer sizes given")
	}
	for i, k := range config.KmerSizes {
		if k < 2 {
			return errors.Errorf("invalid k-mer size %v", k)
		}
		if i > 0 && k <= config.KmerSizes[i-1] {
			return errors.Errorf("k-mer sizes must be in ascending order: %v", config.KmerSizes)
		}
	}
	switch {
	case config.MinBaseQuality < 0:
		return errors.Errorf("invalid minimum base quality %v", config.MinBaseQuality)
	case config.MinQualitySum < 0 || config.MinQualitySum > MaxQualitySum:
		return errors.Errorf("invalid minimum quality sum %v", config.MinQualitySum)
	case config.MinNodeFrequency < 0 || config.MinNodeFrequency > MaxFrequency:
		return errors.Errorf("invalid minimum node frequency %v", config.MinNodeFrequency)
	case config.MinEdgeRatio < 0 || config.MinEdgeRatio > 1:
		return errors.Errorf("invalid minimum edge ratio %v", config.MinEdgeRatio)
	case config.MinContigLength < 0:
		return errors.Errorf("invalid minimum contig length %v", config.MinContigLength)
	case config.MinContigRatio < 0:
		return errors.Errorf("invalid minimum contig ratio %v", config.MinContigRatio)
	case config.MaxNodes <= 0:
		return errors.Errorf("invalid maximum number of nodes %v", config.MaxNodes)
	case config.MaxContigs <= 0:
		return errors.Errorf("invalid maximum number of contigs %v", config.MaxContigs)
	case config.MaxPathsFromRoot <= 0:
		return errors.Errorf("invalid maximum number of paths from a root %v", config.MaxPathsFromRoot)
	case config.MaxContigSize <= 0:
		return errors.Errorf("invalid maximum contig size %v", config.MaxContigSize)
	case config.MaxBestContigs <= 0:
		return errors.Errorf("invalid number of best contigs %v", config.MaxBestContigs)
	case config.Threads < 0:
		return errors.Errorf("invalid number of threads %v", config.Threads)
	}
	aligner := config.ContigAligner.Aligner
	if aligner.Match <= 0 || aligner.Mismatch < 0 || aligner.GapOpen < 0 || aligner.GapExtend < 0 {
		return errors.Errorf("invalid alignment weights %v,%v,%v,%v", aligner.Match, aligner.Mismatch, aligner.GapOpen, aligner.GapExtend)
	}
	if config.ContigAligner.CheckAnchors && config.ContigAligner.MinAnchorLength <= 0 {
		return errors.Errorf("invalid minimum anchor length %v", config.ContigAligner.MinAnchorLength)
	}
	if config.ContigAligner.MaxPadding < 0 {
		return errors.Errorf("invalid maximum padding %v", config.ContigAligner.MaxPadding)
	}
	return nil
}
