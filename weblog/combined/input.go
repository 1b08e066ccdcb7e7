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

// Package combined turns structurally parsed common/combined access
// log lines into fully typed and enriched records ready for storage.
package combined

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"log2duck/load/accesslog"
	"log2duck/weblog"
)

// InputRecord is a typed representation of a single access log line
// before enrichment. Fields logged as "-" are kept as empty strings
// (or nil in case of Size).
type InputRecord struct {
	IP        net.IP
	Identity  string
	User      string
	Time      time.Time
	Method    weblog.Method
	Path      string
	Version   weblog.Version
	Status    int
	Size      *int64
	Referer   string
	UserAgent string
}

// GetTime returns the request time with the zone offset as logged.
func (rec *InputRecord) GetTime() time.Time {
	return rec.Time
}

// GetClientIP returns the requesting client address.
func (rec *InputRecord) GetClientIP() net.IP {
	return rec.IP
}

// GetUserAgent returns the raw user agent string ("" when not sent).
func (rec *InputRecord) GetUserAgent() string {
	return rec.UserAgent
}

func emptyIfDash(v string) string {
	if v == "-" {
		return ""
	}
	return v
}

// collapseSlashes reduces a leading run of slashes to a single one so
// the path is not mistaken for a scheme-relative URL ("//host/path")
// during decomposition.
func collapseSlashes(path string) string {
	if strings.HasPrefix(path, "//") {
		return "/" + strings.TrimLeft(path, "/")
	}
	return path
}

// ImportLine converts raw parsed fields into their typed form.
// Unknown request verbs and protocol versions degrade to the "other"
// variant and a missing size to nil, while a broken IP address,
// datetime, status or size still invalidates the line.
func ImportLine(parsed *accesslog.ParsedAccessLog, lineNum int64) (*InputRecord, error) {
	ip := net.ParseIP(parsed.IPAddress)
	if ip == nil {
		return nil, weblog.NewLineParsingError(
			lineNum, fmt.Sprintf("Invalid IP address: %s", parsed.IPAddress))
	}
	t, err := weblog.ImportDatetime(parsed.Datetime)
	if err != nil {
		return nil, weblog.NewLineParsingError(lineNum, err.Error())
	}
	status, err := strconv.Atoi(parsed.Status)
	if err != nil || status < 0 {
		return nil, weblog.NewLineParsingError(
			lineNum, fmt.Sprintf("Invalid status code: %s", parsed.Status))
	}
	var size *int64
	if parsed.Size != "-" {
		v, err := strconv.ParseInt(parsed.Size, 10, 64)
		if err != nil || v < 0 {
			return nil, weblog.NewLineParsingError(
				lineNum, fmt.Sprintf("Invalid size: %s", parsed.Size))
		}
		size = &v
	}
	return &InputRecord{
		IP:        ip,
		Identity:  emptyIfDash(parsed.Identity),
		User:      emptyIfDash(parsed.Username),
		Time:      t,
		Method:    weblog.ImportMethod(parsed.HTTPMethod),
		Path:      collapseSlashes(parsed.Path),
		Version:   weblog.ImportVersion(parsed.HTTPVersion),
		Status:    status,
		Size:      size,
		Referer:   emptyIfDash(parsed.Referrer),
		UserAgent: emptyIfDash(parsed.UserAgent),
	}, nil
}
