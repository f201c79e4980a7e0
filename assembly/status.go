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

import "log"

// Status is the outcome of assembling a region.
type Status int

// Region status codes.
const (
	OK Status = iota
	TooManyNodes
	TooManyContigs
	TooManyPathsFromRoot
	StoppedOnRepeat
)

func (status Status) String() string {
	switch status {
	case OK:
		return "OK"
	case TooManyNodes:
		return "TOO_MANY_NODES"
	case TooManyContigs:
		return "TOO_MANY_CONTIGS"
	case TooManyPathsFromRoot:
		return "TOO_MANY_PATHS_FROM_ROOT"
	case StoppedOnRepeat:
		return "STOPPED_ON_REPEAT"
	default:
		log.Panicf("invalid assembly status %d", int(status))
		return ""
	}
}
