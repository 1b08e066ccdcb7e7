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

package accesslog

import (
	"testing"

	"log2duck/weblog"

	"github.com/stretchr/testify/assert"
)

var (
	entry1 = `10.0.3.50 - janedoe [17/May/2021:06:36:36 +0200] "GET /slovo-v-kostce/search/cs/za%C5%A1kolit?pos=V&lemma=za%C5%A1kolit HTTP/2.0" 200 9218 "https://prirucka.ujc.cas.cz/" "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36" rt=0.465`
	entry2 = `10.1.1.15 - - [17/May/2021:08:00:17 +0200] "GET /slovo-v-kostce/assets/alt-view.svg HTTP/2.0" 200 1793 "https://www.korpus.cz/slovo-v-kostce/search/cs/v%C3%BDbuch" "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36"`
)

func TestParseFullEntry(t *testing.T) {
	parser := LineParser{}
	ans, err := parser.ParseLine(entry1, 1)
	assert.NoError(t, err)
	assert.Equal(t, "10.0.3.50", ans.IPAddress)
	assert.Equal(t, "-", ans.Identity)
	assert.Equal(t, "janedoe", ans.Username)
	assert.Equal(t, "17/May/2021:06:36:36 +0200", ans.Datetime)
	assert.Equal(t, "GET", ans.HTTPMethod)
	assert.Equal(t, "/slovo-v-kostce/search/cs/za%C5%A1kolit?pos=V&lemma=za%C5%A1kolit", ans.Path)
	assert.Equal(t, "HTTP/2.0", ans.HTTPVersion)
	assert.Equal(t, "200", ans.Status)
	assert.Equal(t, "9218", ans.Size)
	assert.Equal(t, "https://prirucka.ujc.cas.cz/", ans.Referrer)
	assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36", ans.UserAgent)
}

// TestParseEntryWithoutRt tests parsing of an entry without the
// trailing processing time information.
func TestParseEntryWithoutRt(t *testing.T) {
	parser := LineParser{}
	ans, err := parser.ParseLine(entry2, 1)
	assert.NoError(t, err)
	assert.Equal(t, "10.1.1.15", ans.IPAddress)
	assert.Equal(t, "-", ans.Username)
	assert.Equal(t, "/slovo-v-kostce/assets/alt-view.svg", ans.Path)
}

func TestParseDashSize(t *testing.T) {
	parser := LineParser{}
	ans, err := parser.ParseLine(
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" 304 - "-" "curl/7.81.0"`, 1)
	assert.NoError(t, err)
	assert.Equal(t, "-", ans.Size)
	assert.Equal(t, "-", ans.Referrer)
	assert.Equal(t, "curl/7.81.0", ans.UserAgent)
}

func TestParseEscapedQuoteInUserAgent(t *testing.T) {
	parser := LineParser{}
	ans, err := parser.ParseLine(
		`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" 200 12 "-" "agent \"quoted\" name"`, 1)
	assert.NoError(t, err)
	assert.Equal(t, `agent \"quoted\" name`, ans.UserAgent)
}

func TestParseSpaceInPath(t *testing.T) {
	parser := LineParser{}
	ans, err := parser.ParseLine(
		`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /some file.txt HTTP/1.1" 200 12 "-" "x"`, 1)
	assert.NoError(t, err)
	assert.Equal(t, "GET", ans.HTTPMethod)
	assert.Equal(t, "/some file.txt", ans.Path)
	assert.Equal(t, "HTTP/1.1", ans.HTTPVersion)
}

func TestParseReportsFirstBrokenField(t *testing.T) {
	parser := LineParser{}
	tests := []struct {
		line   string
		errMsg string
	}{
		{"", "IP address not found"},
		{"10.0.0.1", "Identity not found"},
		{"10.0.0.1 -", "Username not found"},
		{"10.0.0.1 - -", "Datetime not found"},
		{"10.0.0.1 - - [10/Oct/2023:13:55:36 -0700", "Datetime not found"},
		{"10.0.0.1 - - [10/Oct/2023:13:55:36 -0700]", "Request not found"},
		{`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] ""`, "HTTP method not found"},
		{`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /x"`, "Protocol not found"},
		{`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /x HTTP/1.1"`, "Status not found"},
		{`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /x HTTP/1.1" 200`, "Size not found"},
		{`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /x HTTP/1.1" 200 12`, "Referrer not found"},
		{`10.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /x HTTP/1.1" 200 12 "-"`, "User agent not found"},
	}
	for _, tst := range tests {
		_, err := parser.ParseLine(tst.line, 3)
		assert.Error(t, err)
		lpe, ok := err.(weblog.LineParsingError)
		assert.True(t, ok)
		assert.Equal(t, tst.errMsg, lpe.Message)
		assert.Equal(t, int64(3), lpe.LineNumber)
	}
}

func TestParseToleratesExtraSpaces(t *testing.T) {
	parser := LineParser{}
	ans, err := parser.ParseLine(
		`10.0.0.1  -  - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" 200  12 "-" "x"`, 1)
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.1", ans.IPAddress)
	assert.Equal(t, "12", ans.Size)
}
