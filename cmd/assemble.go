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

package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/exascience/elindel/align"
	"github.com/exascience/elindel/assembly"
	"github.com/exascience/elindel/bed"
	"github.com/exascience/elindel/fasta"
	"github.com/exascience/elindel/intervals"
	"github.com/exascience/elindel/reads"
)

// AssembleHelp is the help string for this command.
const AssembleHelp = "assemble parameters:\n" +
	"elindel assemble reads-file output-prefix\n" +
	"--reference elfasta-or-fasta-file\n" +
	"--target-regions bed-file\n" +
	"[--kmer k1,k2,...]\n" +
	"[--mbq nr]\n" +
	"[--min-quality-sum nr]\n" +
	"[--mnf nr]\n" +
	"[--mer ratio]\n" +
	"[--mcl nr]\n" +
	"[--mcr ratio]\n" +
	"[--max-nodes nr]\n" +
	"[--max-contigs nr]\n" +
	"[--max-paths-from-root nr]\n" +
	"[--max-contig-size nr]\n" +
	"[--max-best-contigs nr]\n" +
	"[--loose]\n" +
	"[--sga match,mismatch,gap-open,gap-extend]\n" +
	"[--ca min-anchor-length,max-anchor-mismatches]\n" +
	"[--no-anchor-check]\n" +
	"[--min-alignment-score nr]\n" +
	"[--max-padding nr]\n" +
	"[--window-padding nr]\n" +
	"[--prefix name]\n" +
	"[--nr-of-threads nr]\n" +
	"[--verbose]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

func parseKmerSizes(s string) ([]int, error) {
	values, err := parseInt32List("kmer", s, 0)
	if err != nil {
		return nil, err
	}
	result := make([]int, len(values))
	for i, value := range values {
		result[i] = int(value)
	}
	return result, nil
}

func writeOutput(filename string, write func(io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	out := bufio.NewWriter(file)
	err = write(out)
	if err == nil {
		err = out.Flush()
	}
	if nerr := file.Close(); err == nil {
		err = nerr
	}
	return errors.Wrapf(err, "writing %v", filename)
}

// Assemble implements the elindel assemble command.
func Assemble() error {
	config := assembly.DefaultConfig()

	var (
		reference, targetRegions, kmers, sga, ca string
		minAlignmentScore, maxPadding             int
		windowPadding                             int
		loose, noAnchorCheck                      bool
		timed                                     bool
		profile, logPath                          string
	)

	var flags flag.FlagSet
	flags.StringVar(&reference, "reference", "", "reference genome as .elfasta or FASTA file")
	flags.StringVar(&targetRegions, "target-regions", "", "BED file of regions to assemble")
	flags.StringVar(&kmers, "kmer", "21,31,41", "ascending k-mer sizes")
	flags.IntVar(&config.MinBaseQuality, "mbq", config.MinBaseQuality, "minimum base quality for k-mers")
	flags.IntVar(&config.MinQualitySum, "min-quality-sum", config.MinQualitySum, "minimum quality sum per k-mer position")
	flags.IntVar(&config.MinNodeFrequency, "mnf", config.MinNodeFrequency, "minimum node frequency")
	flags.Float64Var(&config.MinEdgeRatio, "mer", config.MinEdgeRatio, "minimum edge ratio")
	flags.IntVar(&config.MinContigLength, "mcl", config.MinContigLength, "minimum contig length")
	flags.Float64Var(&config.MinContigRatio, "mcr", config.MinContigRatio, "minimum contig length as a fraction of the region")
	flags.IntVar(&config.MaxNodes, "max-nodes", config.MaxNodes, "maximum number of nodes per graph")
	flags.IntVar(&config.MaxContigs, "max-contigs", config.MaxContigs, "maximum number of contigs per region")
	flags.IntVar(&config.MaxPathsFromRoot, "max-paths-from-root", config.MaxPathsFromRoot, "maximum number of paths per root")
	flags.IntVar(&config.MaxContigSize, "max-contig-size", config.MaxContigSize, "maximum contig length")
	flags.IntVar(&config.MaxBestContigs, "max-best-contigs", config.MaxBestContigs, "number of best contigs kept per region")
	flags.BoolVar(&loose, "loose", false, "drop repeating paths instead of stopping the region")
	flags.StringVar(&sga, "sga", "8,32,48,1", "match, mismatch, gap open and gap extend weights")
	flags.StringVar(&ca, "ca", "10,2", "minimum anchor length and maximum anchor mismatches")
	flags.BoolVar(&noAnchorCheck, "no-anchor-check", false, "accept contigs without anchors at both ends")
	flags.IntVar(&minAlignmentScore, "min-alignment-score", int(config.ContigAligner.MinAlignmentScore), "contig alignments must score above this")
	flags.IntVar(&maxPadding, "max-padding", 0, "maximum reference padding per contig side, 0 for the whole window")
	flags.IntVar(&windowPadding, "window-padding", 400, "reference bases added to both sides of a region")
	flags.StringVar(&config.Prefix, "prefix", "", "contig name prefix, a random UUID by default")
	flags.IntVar(&config.Threads, "nr-of-threads", config.Threads, "number of regions assembled in parallel")
	flags.BoolVar(&config.Verbose, "verbose", false, "log regions that fail to assemble")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, AssembleHelp)

	input := getFilename(os.Args[2], AssembleHelp)
	output := getFilename(os.Args[3], AssembleHelp)

	sanityChecksFailed := !checkExist("", input) ||
		!checkExist("--reference", reference) ||
		!checkExist("--target-regions", targetRegions)
	for _, suffix := range []string{".fa", ".contigs.tsv", ".status.tsv"} {
		if !checkCreate("", output+suffix) {
			sanityChecksFailed = true
		}
	}
	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, AssembleHelp)
		os.Exit(1)
	}

	var err error
	if config.KmerSizes, err = parseKmerSizes(kmers); err != nil {
		return err
	}
	weights, err := parseInt32List("sga", sga, 4)
	if err != nil {
		return err
	}
	config.ContigAligner.Aligner = align.Aligner{Match: weights[0], Mismatch: weights[1], GapOpen: weights[2], GapExtend: weights[3]}
	anchors, err := parseInt32List("ca", ca, 2)
	if err != nil {
		return err
	}
	config.ContigAligner.MinAnchorLength = anchors[0]
	config.ContigAligner.MaxAnchorMismatches = anchors[1]
	config.ContigAligner.CheckAnchors = !noAnchorCheck
	config.ContigAligner.MinAlignmentScore = int32(minAlignmentScore)
	config.ContigAligner.MaxPadding = int32(maxPadding)
	config.StopOnRepeat = !loose
	if config.Prefix == "" {
		config.Prefix = strings.Replace(uuid.New().String(), "-", "", -1)
	}
	if windowPadding < 0 {
		return errors.Errorf("invalid --window-padding %v", windowPadding)
	}
	assembler, err := assembly.NewAssembler(config)
	if err != nil {
		return err
	}

	if err := setLogOutput(logPath); err != nil {
		return err
	}
	log.Println("Contig name prefix:", config.Prefix)

	var ref fasta.Reference
	var regions []*assembly.Region
	phase := int64(1)
	err = timedRun(timed, profile, "Loading reference, targets and reads.", phase, func() error {
		ref = fasta.Open(reference)
		targets, err := bed.ParseBed(targetRegions)
		if err != nil {
			return err
		}
		records, err := reads.ParseFile(input)
		if err != nil {
			return err
		}
		regions, err = reads.Regions(records, intervals.FromBed(targets), ref, int32(windowPadding))
		return err
	})
	if ref != nil {
		defer ref.Close()
	}
	if err != nil {
		return err
	}

	var results []*assembly.RegionResult
	phase++
	if err := timedRun(timed, profile, "Assembling regions.", phase, func() error {
		results = assembler.AssembleRegions(regions)
		return nil
	}); err != nil {
		return err
	}
	contigs, failed := 0, 0
	for _, result := range results {
		contigs += len(result.Contigs)
		if result.Status != assembly.OK {
			failed++
		}
	}
	log.Printf("Assembled %v regions into %v contigs, %v regions failed.\n", len(results), contigs, failed)

	phase++
	return timedRun(timed, profile, "Writing output.", phase, func() error {
		if err := writeOutput(output+".fa", func(w io.Writer) error {
			return assembly.WriteFasta(w, results)
		}); err != nil {
			return err
		}
		if err := writeOutput(output+".contigs.tsv", func(w io.Writer) error {
			return align.WriteAlignments(w, assembly.Alignments(results))
		}); err != nil {
			return err
		}
		return writeOutput(output+".status.tsv", func(w io.Writer) error {
			return assembly.WriteStatus(w, results)
		})
	})
}
