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

package duckdb

import (
	"fmt"
	"strings"
)

// TableName is the name of the table all processed requests go to.
const TableName = "log"

// tableColumns lists the columns of the log table in the order the
// row appender fills them (see combined.Row.AppenderValues).
var tableColumns = []string{
	"ip",
	"identity",
	"user",
	"timestamp",
	"method",
	"path",
	"extension",
	"query",
	"parsed_query",
	"http_version",
	"status_code",
	"size",
	"referer",
	"referer_origin",
	"referer_path",
	"referer_query",
	"referer_parsed_query",
	"user_agent",
	"browser",
	"browser_major",
	"browser_minor",
	"browser_patch",
	"browser_patch_minor",
	"os",
	"os_major",
	"os_minor",
	"os_patch",
	"os_patch_minor",
	"device",
	"brand",
	"model",
	"country",
	"continent",
	"asn",
	"as_name",
	"as_domain",
}

// createTableSQL defines the log table. The parsed query columns
// hold JSON text as the MAP type can represent neither key order nor
// repeated keys. Version components use USMALLINT which covers any
// sane version number while keeping the table compact.
const createTableSQL = `CREATE TABLE IF NOT EXISTS log (
	ip VARCHAR NOT NULL,
	identity VARCHAR,
	"user" VARCHAR,
	"timestamp" TIMESTAMP NOT NULL,
	method VARCHAR NOT NULL,
	path VARCHAR,
	extension VARCHAR,
	query VARCHAR,
	parsed_query VARCHAR,
	http_version VARCHAR NOT NULL,
	status_code INTEGER NOT NULL,
	size BIGINT,
	referer VARCHAR,
	referer_origin VARCHAR,
	referer_path VARCHAR,
	referer_query VARCHAR,
	referer_parsed_query VARCHAR,
	user_agent VARCHAR,
	browser VARCHAR,
	browser_major USMALLINT,
	browser_minor USMALLINT,
	browser_patch USMALLINT,
	browser_patch_minor USMALLINT,
	os VARCHAR,
	os_major USMALLINT,
	os_minor USMALLINT,
	os_patch USMALLINT,
	os_patch_minor USMALLINT,
	device VARCHAR,
	brand VARCHAR,
	model VARCHAR,
	country VARCHAR,
	continent VARCHAR,
	asn UINTEGER,
	as_name VARCHAR,
	as_domain VARCHAR
)`

// insertSQL builds a positional insert statement used when a failed
// chunk is retried row by row. All identifiers are quoted as the
// column set includes reserved words ("user", "timestamp").
func insertSQL() string {
	cols := make([]string, len(tableColumns))
	params := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		cols[i] = `"` + c + `"`
		params[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		TableName, strings.Join(cols, ", "), strings.Join(params, ", "))
}
