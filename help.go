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

package main

var helpTexts = []string{
	`Parse data provided either as a single web server access log file (common or
combined format) or a directory containing such files and store the entries
into a DuckDB file. A proper JSON configuration file must be specified

{
    "srcPath": "/var/log/nginx/access.log",
    "origin": "https://www.korpus.cz",
    "uaRegexesPath": "/usr/local/share/log2duck/regexes.yaml",
    "geoIpDbPath": "/usr/local/share/log2duck/country_asn.csv",
    "pushChunkSize": 10000,
    "excludeIpList": ["195.113.53.66"],
    "logLevel": "info"
}

Unless configured explicitly via "dbPath" and "errPath", the database file
and the error report file are placed next to the source file with the ".log"
suffix replaced by ".db" and ".err" respectively. Repeated runs only process
entries newer than the newest timestamp already stored in the database (see
the -from-scratch option).
`,
}
