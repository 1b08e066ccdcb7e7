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

// Package accesslog provides a scanner for HTTP access logs in the
// common/combined format. The scanner walks a line field by field so
// a broken line is always reported with the name of the first field
// which could not be matched.
package accesslog

import (
	"errors"
	"strings"

	"log2duck/weblog"
)

// ParsedAccessLog represents the structural decomposition of an access
// log line. All the values are raw strings exactly as found in the
// source, without any type conversions applied.
type ParsedAccessLog struct {
	IPAddress   string
	Identity    string
	Username    string
	Datetime    string
	HTTPMethod  string
	Path        string
	HTTPVersion string
	Status      string
	Size        string
	Referrer    string
	UserAgent   string
}

// cursor walks a line byte by byte. All the read* methods advance
// the position, failed expect* methods keep it untouched.
type cursor struct {
	src string
	pos int
}

// readField reads a run of non-space characters (possibly empty).
func (c *cursor) readField() string {
	start := c.pos
	for c.pos < len(c.src) && c.src[c.pos] != ' ' {
		c.pos++
	}
	return c.src[start:c.pos]
}

// readTo reads everything up to the next occurrence of delim and
// consumes the delimiter itself.
func (c *cursor) readTo(delim byte) (string, bool) {
	i := strings.IndexByte(c.src[c.pos:], delim)
	if i < 0 {
		return "", false
	}
	ans := c.src[c.pos : c.pos+i]
	c.pos += i + 1
	return ans, true
}

// readQuoted reads a double-quoted block. A quote preceded by
// a backslash does not close the block (Apache escapes quotes
// this way; Nginx encodes them as \x22 so they never appear raw).
func (c *cursor) readQuoted() (string, bool) {
	if !c.expect('"') {
		return "", false
	}
	for i := c.pos; i < len(c.src); i++ {
		if c.src[i] == '"' && c.src[i-1] != '\\' {
			ans := c.src[c.pos:i]
			c.pos = i + 1
			return ans, true
		}
	}
	return "", false
}

func (c *cursor) expect(ch byte) bool {
	if c.pos < len(c.src) && c.src[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) skipSpaces() {
	for c.pos < len(c.src) && c.src[c.pos] == ' ' {
		c.pos++
	}
}

// splitRequest decomposes the quoted request block ("GET /x HTTP/1.1")
// into its three parts. The path may contain unescaped spaces (some
// clients send them raw), so the method is taken from the front, the
// protocol from the back and everything between belongs to the path.
func splitRequest(block string) (method, path, proto string, err error) {
	i := strings.IndexByte(block, ' ')
	if i <= 0 {
		return "", "", "", errors.New("HTTP method not found")
	}
	method = block[:i]
	j := strings.LastIndexByte(block, ' ')
	if j == i {
		return "", "", "", errors.New("Protocol not found")
	}
	path = block[i+1 : j]
	proto = block[j+1:]
	if path == "" {
		return "", "", "", errors.New("Request path not found")
	}
	if proto == "" {
		return "", "", "", errors.New("Protocol not found")
	}
	return method, path, proto, nil
}

// LineParser is a parser for common/combined format access logs
type LineParser struct{}

// ParseLine parses a HTTP access log format line
// data example:
//
//	0) 195.113.53.123
//	1) -
//	2) johndoe
//	3) [16/Sep/2019:08:24:05 +0200]
//	4) "GET /css/images/ui-bg_highlight-hard_100_f2f5f7_1x100.png HTTP/2.0"
//	5) 200
//	6) 332
//	7) "https://www.korpus.cz/ske/css/jquery-ui.min.css"
//	8) "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/76.0.3809.100 Safari/537.36"
//
// Anything after the user agent block (e.g. request processing time)
// is ignored.
func (lp *LineParser) ParseLine(s string, lineNum int64) (*ParsedAccessLog, error) {
	ans := &ParsedAccessLog{}
	crs := &cursor{src: s}

	ans.IPAddress = crs.readField()
	if ans.IPAddress == "" {
		return nil, weblog.NewLineParsingError(lineNum, "IP address not found")
	}
	crs.skipSpaces()
	ans.Identity = crs.readField()
	if ans.Identity == "" {
		return nil, weblog.NewLineParsingError(lineNum, "Identity not found")
	}
	crs.skipSpaces()
	ans.Username = crs.readField()
	if ans.Username == "" {
		return nil, weblog.NewLineParsingError(lineNum, "Username not found")
	}
	crs.skipSpaces()
	if !crs.expect('[') {
		return nil, weblog.NewLineParsingError(lineNum, "Datetime not found")
	}
	var ok bool
	ans.Datetime, ok = crs.readTo(']')
	if !ok {
		return nil, weblog.NewLineParsingError(lineNum, "Datetime not found")
	}
	crs.skipSpaces()
	request, ok := crs.readQuoted()
	if !ok {
		return nil, weblog.NewLineParsingError(lineNum, "Request not found")
	}
	var err error
	ans.HTTPMethod, ans.Path, ans.HTTPVersion, err = splitRequest(request)
	if err != nil {
		return nil, weblog.NewLineParsingError(lineNum, err.Error())
	}
	crs.skipSpaces()
	ans.Status = crs.readField()
	if ans.Status == "" {
		return nil, weblog.NewLineParsingError(lineNum, "Status not found")
	}
	crs.skipSpaces()
	ans.Size = crs.readField()
	if ans.Size == "" {
		return nil, weblog.NewLineParsingError(lineNum, "Size not found")
	}
	crs.skipSpaces()
	ans.Referrer, ok = crs.readQuoted()
	if !ok {
		return nil, weblog.NewLineParsingError(lineNum, "Referrer not found")
	}
	crs.skipSpaces()
	ans.UserAgent, ok = crs.readQuoted()
	if !ok {
		return nil, weblog.NewLineParsingError(lineNum, "User agent not found")
	}
	return ans, nil
}
