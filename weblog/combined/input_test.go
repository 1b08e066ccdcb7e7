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

package combined

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"log2duck/load/accesslog"
	"log2duck/weblog"
)

func importTestLine(t *testing.T, line string) (*InputRecord, error) {
	parser := accesslog.LineParser{}
	parsed, err := parser.ParseLine(line, 7)
	assert.NoError(t, err)
	return ImportLine(parsed, 7)
}

func assertImportError(t *testing.T, err error, message string) {
	var lpe weblog.LineParsingError
	if assert.ErrorAs(t, err, &lpe) {
		assert.Equal(t, message, lpe.Message)
		assert.Equal(t, int64(7), lpe.LineNumber)
	}
}

func TestImportFullLine(t *testing.T) {
	rec, err := importTestLine(t,
		`92.40.174.249 ident1 fred [17/Aug/2022:09:15:47 +0200] "POST /images/logo.png?v=3 HTTP/2.0" 201 9563 "https://www.seznam.cz/" "Mozilla/5.0 (X11; Linux x86_64)"`)
	assert.NoError(t, err)
	assert.Equal(t, "92.40.174.249", rec.IP.String())
	assert.Equal(t, "ident1", rec.Identity)
	assert.Equal(t, "fred", rec.User)
	assert.Equal(t, "2022-08-17T09:15:47", rec.Time.Format("2006-01-02T15:04:05"))
	assert.Equal(t, weblog.MethodPost, rec.Method)
	assert.Equal(t, "/images/logo.png?v=3", rec.Path)
	assert.Equal(t, weblog.Version20, rec.Version)
	assert.Equal(t, 201, rec.Status)
	if assert.NotNil(t, rec.Size) {
		assert.Equal(t, int64(9563), *rec.Size)
	}
	assert.Equal(t, "https://www.seznam.cz/", rec.Referer)
	assert.Equal(t, "Mozilla/5.0 (X11; Linux x86_64)", rec.UserAgent)
}

func TestImportDashFields(t *testing.T) {
	rec, err := importTestLine(t,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /a.png HTTP/1.1" 200 - "-" "-"`)
	assert.NoError(t, err)
	assert.Equal(t, "", rec.Identity)
	assert.Equal(t, "", rec.User)
	assert.Nil(t, rec.Size)
	assert.Equal(t, "", rec.Referer)
	assert.Equal(t, "", rec.UserAgent)
}

func TestImportIPv6Address(t *testing.T) {
	rec, err := importTestLine(t,
		`2001:718:1a02:1::5 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" 200 1 "-" "-"`)
	assert.NoError(t, err)
	assert.Equal(t, "2001:718:1a02:1::5", rec.IP.String())
}

func TestImportInvalidIP(t *testing.T) {
	_, err := importTestLine(t,
		`not-an-address - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" 200 1 "-" "-"`)
	assertImportError(t, err, "Invalid IP address: not-an-address")
}

func TestImportInvalidDatetime(t *testing.T) {
	_, err := importTestLine(t,
		`127.0.0.1 - - [yesterday] "GET / HTTP/1.1" 200 1 "-" "-"`)
	assertImportError(t, err, "Invalid datetime: yesterday")
}

func TestImportInvalidStatus(t *testing.T) {
	_, err := importTestLine(t,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" OK 1 "-" "-"`)
	assertImportError(t, err, "Invalid status code: OK")
}

func TestImportInvalidSize(t *testing.T) {
	_, err := importTestLine(t,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" 200 x12 "-" "-"`)
	assertImportError(t, err, "Invalid size: x12")
}

func TestImportNegativeSize(t *testing.T) {
	_, err := importTestLine(t,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.1" 200 -12 "-" "-"`)
	assertImportError(t, err, "Invalid size: -12")
}

func TestImportUnknownMethodAndVersion(t *testing.T) {
	rec, err := importTestLine(t,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "FROBNICATE / SPDY/3.1" 200 1 "-" "-"`)
	assert.NoError(t, err)
	assert.Equal(t, weblog.MethodOther, rec.Method)
	assert.Equal(t, weblog.VersionOther, rec.Version)
}

func TestImportDotlessHTTP2(t *testing.T) {
	rec, err := importTestLine(t,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/2" 200 1 "-" "-"`)
	assert.NoError(t, err)
	assert.Equal(t, weblog.Version20, rec.Version)
}

func TestImportCollapsesLeadingSlashes(t *testing.T) {
	rec, err := importTestLine(t,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET //evil.com/x HTTP/1.1" 200 1 "-" "-"`)
	assert.NoError(t, err)
	assert.Equal(t, "/evil.com/x", rec.Path)
}
