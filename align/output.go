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

package align

import (
	"io"
	"strconv"

	"github.com/exascience/elindel/internal"
	"github.com/exascience/elindel/sam"
	"github.com/exascience/elindel/utils"
)

// Format appends a tab-separated representation of the alignment to
// buf: chromosome, window start, local position, CIGAR, score, padded
// sequence.
func (ca *ContigAlignment) Format(buf []byte) []byte {
	buf = append(buf, utils.SymbolName(ca.Chromosome)...)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, int64(ca.WindowStart), 10)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, int64(ca.LocalPosition), 10)
	buf = append(buf, '\t')
	buf = sam.AppendCigar(buf, ca.Cigar)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, int64(ca.Score), 10)
	buf = append(buf, '\t')
	buf = append(buf, ca.Sequence...)
	return append(buf, '\n')
}

// WriteAlignments writes one line per contig alignment.
func WriteAlignments(w io.Writer, alignments []*ContigAlignment) error {
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	for _, alignment := range alignments {
		buf = alignment.Format(buf[:0])
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
