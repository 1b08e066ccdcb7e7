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
	"encoding/json"
	"time"

	"log2duck/weblog"
)

// Row is a single fully enriched record in the shape of the target
// table. Empty strings and nil numbers translate to SQL NULLs when
// the row is stored.
type Row struct {
	IP                 string         `json:"ip"`
	Identity           string         `json:"identity,omitempty"`
	User               string         `json:"user,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
	Method             weblog.Method  `json:"method"`
	Path               string         `json:"path"`
	Extension          string         `json:"extension,omitempty"`
	Query              string         `json:"query,omitempty"`
	ParsedQuery        weblog.Query   `json:"parsedQuery,omitempty"`
	HTTPVersion        weblog.Version `json:"httpVersion"`
	StatusCode         int32          `json:"statusCode"`
	Size               *int64         `json:"size,omitempty"`
	Referer            string         `json:"referer,omitempty"`
	RefererOrigin      string         `json:"refererOrigin,omitempty"`
	RefererPath        string         `json:"refererPath,omitempty"`
	RefererQuery       string         `json:"refererQuery,omitempty"`
	RefererParsedQuery weblog.Query   `json:"refererParsedQuery,omitempty"`
	UserAgent          string         `json:"userAgent,omitempty"`
	Browser            string         `json:"browser,omitempty"`
	BrowserMajor       *uint16        `json:"browserMajor,omitempty"`
	BrowserMinor       *uint16        `json:"browserMinor,omitempty"`
	BrowserPatch       *uint16        `json:"browserPatch,omitempty"`
	BrowserPatchMinor  *uint16        `json:"browserPatchMinor,omitempty"`
	OS                 string         `json:"os,omitempty"`
	OSMajor            *uint16        `json:"osMajor,omitempty"`
	OSMinor            *uint16        `json:"osMinor,omitempty"`
	OSPatch            *uint16        `json:"osPatch,omitempty"`
	OSPatchMinor       *uint16        `json:"osPatchMinor,omitempty"`
	Device             string         `json:"device,omitempty"`
	Brand              string         `json:"brand,omitempty"`
	Model              string         `json:"model,omitempty"`
	Country            string         `json:"country,omitempty"`
	Continent          string         `json:"continent,omitempty"`
	ASN                *uint32        `json:"asn,omitempty"`
	ASName             string         `json:"asName,omitempty"`
	ASDomain           string         `json:"asDomain,omitempty"`
}

// ToJSON serializes the row (e.g. for the dry-run output).
func (r *Row) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// GetTime returns the stored request time (always UTC).
func (r *Row) GetTime() time.Time {
	return r.Timestamp
}

func nullableStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableNum[T int64 | uint16 | uint32](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableQuery(q weblog.Query) any {
	if len(q) == 0 {
		return nil
	}
	ans, err := json.Marshal(q)
	if err != nil {
		return nil
	}
	return string(ans)
}

// AppenderValues exports the row as a value list matching the target
// table columns (see the save/duckdb schema). Parsed queries are
// stored as JSON text because the database MAP type can represent
// neither key order nor repeated keys.
func (r *Row) AppenderValues() []any {
	return []any{
		r.IP,
		nullableStr(r.Identity),
		nullableStr(r.User),
		r.Timestamp,
		r.Method.String(),
		nullableStr(r.Path),
		nullableStr(r.Extension),
		nullableStr(r.Query),
		nullableQuery(r.ParsedQuery),
		r.HTTPVersion.String(),
		r.StatusCode,
		nullableNum(r.Size),
		nullableStr(r.Referer),
		nullableStr(r.RefererOrigin),
		nullableStr(r.RefererPath),
		nullableStr(r.RefererQuery),
		nullableQuery(r.RefererParsedQuery),
		nullableStr(r.UserAgent),
		nullableStr(r.Browser),
		nullableNum(r.BrowserMajor),
		nullableNum(r.BrowserMinor),
		nullableNum(r.BrowserPatch),
		nullableNum(r.BrowserPatchMinor),
		nullableStr(r.OS),
		nullableNum(r.OSMajor),
		nullableNum(r.OSMinor),
		nullableNum(r.OSPatch),
		nullableNum(r.OSPatchMinor),
		nullableStr(r.Device),
		nullableStr(r.Brand),
		nullableStr(r.Model),
		nullableStr(r.Country),
		nullableStr(r.Continent),
		nullableNum(r.ASN),
		nullableStr(r.ASName),
		nullableStr(r.ASDomain),
	}
}

// BoundRow couples a transformed row with its source line so save
// failures can be reported against the original entry.
type BoundRow struct {
	Row        *Row
	LineNumber int64
	Line       string
}
