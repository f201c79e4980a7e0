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
	"io"
	"strconv"

	"github.com/exascience/elindel/align"
	"github.com/exascience/elindel/internal"
	"github.com/exascience/elindel/utils"
)

// WriteFasta writes one FASTA record per contig of the given results.
func WriteFasta(w io.Writer, results []*RegionResult) error {
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	for _, result := range results {
		for _, contig := range result.Contigs {
			buf = append(buf[:0], '>')
			buf = append(buf, contig.Name...)
			buf = append(buf, '\n')
			buf = append(buf, contig.Sequence...)
			buf = append(buf, '\n')
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// Alignments returns the alignments of the validated contigs of the
// given results.
func Alignments(results []*RegionResult) (alignments []*align.ContigAlignment) {
	for _, result := range results {
		for _, contig := range result.Contigs {
			if contig.Alignment != nil {
				alignments = append(alignments, contig.Alignment)
			}
		}
	}
	return
}

// WriteStatus writes one tab-separated line per region: chromosome,
// start, end, k-mer size, status and number of contigs.
func WriteStatus(w io.Writer, results []*RegionResult) error {
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	for _, result := range results {
		region := result.Region
		buf = append(buf[:0], utils.SymbolName(region.Chromosome)...)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(region.Start), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(region.End), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(result.KmerSize), 10)
		buf = append(buf, '\t')
		buf = append(buf, result.Status.String()...)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(len(result.Contigs)), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
