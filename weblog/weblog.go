// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package weblog defines the common vocabulary of the log ingestion
// pipeline - typed HTTP properties, URL decomposition and error values
// used to report rejected lines.
package weblog

import (
	"errors"
	"fmt"
	"net"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
)

// LineParsingError informs that we failed to parse a line as
// a common/combined format log record. The line number refers
// to the position within the currently processed file.
type LineParsingError struct {
	LineNumber int64
	Message    string
}

func (m LineParsingError) Error() string {
	return fmt.Sprintf("%s: LineParsingError at line %d", m.Message, m.LineNumber)
}

// NewLineParsingError is a constructor for LineParsingError
func NewLineParsingError(lineNumber int64, message string) LineParsingError {
	return LineParsingError{LineNumber: lineNumber, Message: message}
}

// RowError binds a rejected input line to the reason of its rejection.
// It covers both parsing failures and failures occurring after a line
// has been successfully transformed (e.g. a refused database insert).
type RowError struct {
	LineNumber int64
	Line       string
	Message    string
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s: RowError at line %d", e.Message, e.LineNumber)
}

// NewRowError creates a RowError out of any line-scoped processing
// failure. For LineParsingError values, the bare message is extracted
// so the line number does not appear twice in reports.
func NewRowError(lineNumber int64, line string, err error) RowError {
	var lpe LineParsingError
	if errors.As(err, &lpe) {
		return RowError{LineNumber: lineNumber, Line: line, Message: lpe.Message}
	}
	return RowError{LineNumber: lineNumber, Line: line, Message: err.Error()}
}

// ExcludeIPList represents a list of IP addresses
// which should not be included in log processing
// and archiving. These are typically requests from
// watchdog services.
type ExcludeIPList []string

// Excludes tests a client address against the list.
func (elist ExcludeIPList) Excludes(ip net.IP) bool {
	excludes := len(elist) > 0 && collections.SliceContains(elist, ip.String())
	if excludes {
		log.Debug().Str("ip", ip.String()).Msg("excluded IP")
	}
	return excludes
}
