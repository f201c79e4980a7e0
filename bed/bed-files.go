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

package bed

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/exascience/elindel/internal"
	"github.com/exascience/elindel/utils"
)

// ParseBed parses a (possibly gzipped) BED file. Header, track and
// browser lines are skipped.
func ParseBed(filename string) (*Bed, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening BED file")
	}
	defer internal.Close(file)

	bed := NewBed()
	scanner := bufio.NewScanner(utils.HandleGzip(bufio.NewReader(file)))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if line == "" ||
			strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") {
			continue
		}
		data := strings.Split(line, "\t")
		if len(data) < 3 {
			return nil, errors.Errorf("%v:%v: expected at least 3 fields", filename, lineNo)
		}
		start, err := internal.ParseInt32(data[1])
		if err != nil {
			return nil, errors.Wrapf(err, "%v:%v: invalid start", filename, lineNo)
		}
		end, err := internal.ParseInt32(data[2])
		if err != nil {
			return nil, errors.Wrapf(err, "%v:%v: invalid end", filename, lineNo)
		}
		region, err := NewRegion(utils.Intern(data[0]), start, end, data[3:])
		if err != nil {
			return nil, errors.Wrapf(err, "%v:%v", filename, lineNo)
		}
		bed.AddRegion(region)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %v", filename)
	}
	bed.sortRegions()
	return bed, nil
}
