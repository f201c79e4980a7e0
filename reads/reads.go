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

// Package reads loads the reads that drive assembly from a
// tab-separated text file, and distributes them over target regions.
//
// Each line holds six fields: chromosome, 0-based position of the
// first base, sample id, strand (+ or -), sequence and Phred+33
// qualities. Lines starting with # are ignored.
package reads

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/exascience/pargo/pipeline"
	psort "github.com/exascience/pargo/sort"
	"github.com/pkg/errors"

	"github.com/exascience/elindel/assembly"
	"github.com/exascience/elindel/internal"
	"github.com/exascience/elindel/utils"
)

// A Record is a read at its position on the reference.
type Record struct {
	Chrom utils.Symbol
	Pos   int32
	assembly.Read
}

// End returns the position after the last base of the read.
func (record *Record) End() int32 {
	return record.Pos + int32(len(record.Sequence))
}

// ParseRecord parses one line of a reads file.
func ParseRecord(line string) (record Record, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 6 {
		return record, errors.Errorf("expected 6 fields, got %v", len(fields))
	}
	record.Chrom = utils.Intern(fields[0])
	if record.Pos, err = internal.ParseInt32(fields[1]); err != nil || record.Pos < 0 {
		return record, errors.Errorf("invalid position %v", fields[1])
	}
	if record.Sample, err = strconv.Atoi(fields[2]); err != nil || record.Sample < 0 || record.Sample >= assembly.MaxSamples {
		return record, errors.Errorf("invalid sample id %v", fields[2])
	}
	switch fields[3] {
	case "+":
		record.Strand = assembly.Forward
	case "-":
		record.Strand = assembly.Reverse
	default:
		return record, errors.Errorf("invalid strand %v", fields[3])
	}
	record.Sequence = strings.ToUpper(fields[4])
	record.Quality = fields[5]
	if len(record.Sequence) != len(record.Quality) {
		return record, errors.Errorf("sequence of length %v has %v qualities", len(record.Sequence), len(record.Quality))
	}
	return record, nil
}

type stableRecordSorter []Record

func (s stableRecordSorter) SequentialSort(i, j int) {
	slice := s[i:j]
	sort.SliceStable(slice, func(i, j int) bool {
		return slice[i].Pos < slice[j].Pos
	})
}

func (s stableRecordSorter) NewTemp() psort.StableSorter {
	return stableRecordSorter(make([]Record, len(s)))
}

func (s stableRecordSorter) Len() int {
	return len(s)
}

func (s stableRecordSorter) Less(i, j int) bool {
	return s[i].Pos < s[j].Pos
}

func (s stableRecordSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableRecordSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// ParseFile loads a (possibly gzipped) reads file. The result maps each
// chromosome to its records, sorted by position.
func ParseFile(filename string) (records map[utils.Symbol][]Record, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening reads file")
	}
	defer func() {
		if nerr := file.Close(); err == nil && nerr != nil {
			records, err = nil, nerr
		}
	}()
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(utils.HandleGzip(bufio.NewReader(file))))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		lines := data.([]string)
		batch := make(map[utils.Symbol][]Record)
		for _, line := range lines {
			if line == "" || line[0] == '#' {
				continue
			}
			record, err := ParseRecord(line)
			if err != nil {
				p.SetErr(errors.Wrapf(err, "%v: invalid read %q", filename, line))
				return batch
			}
			batch[record.Chrom] = append(batch[record.Chrom], record)
		}
		return batch
	})))
	records = make(map[utils.Symbol][]Record)
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		for chrom, batch := range data.(map[utils.Symbol][]Record) {
			records[chrom] = append(records[chrom], batch...)
		}
		return data
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return nil, err
	}
	for _, chromRecords := range records {
		psort.StableSort(stableRecordSorter(chromRecords))
	}
	return records, nil
}
