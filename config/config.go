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

package config

import (
	"encoding/json"
	"net/url"
	"strings"

	"log2duck/common"
	"log2duck/fsop"
	"log2duck/weblog"

	"github.com/rs/zerolog/log"
)

const (
	ActionIngest  = "ingest"
	ActionVersion = "version"
	ActionHelp    = "help"

	dfltPushChunkSize = 10000
)

// Main describes log2duck's configuration
type Main struct {

	// SrcPath is either a single access log file or a directory
	// containing access log files.
	SrcPath string `json:"srcPath"`

	// Origin is the absolute URL the logged requests were served
	// from (e.g. "https://www.korpus.cz"). It is used to resolve
	// relative request paths into full URLs.
	Origin string `json:"origin"`

	// DBPath is the target DuckDB file. If empty, the path is
	// derived from SrcPath by replacing the ".log" suffix with ".db".
	DBPath string `json:"dbPath"`

	// ErrPath is the file rejected lines are reported to. If empty,
	// the path is derived from SrcPath by replacing the ".log"
	// suffix with ".err".
	ErrPath string `json:"errPath"`

	// UARegexesPath points to a user agent ruleset file in the
	// uap-core regexes.yaml format.
	UARegexesPath string `json:"uaRegexesPath"`

	// GeoIPDbPath points either to a MaxMind mmdb file or to an
	// IPinfo country_asn CSV file.
	GeoIPDbPath string `json:"geoIpDbPath"`

	ExcludeIPList weblog.ExcludeIPList `json:"excludeIpList"`

	// ScriptPath is an optional Lua file applied to each row before
	// it is written to the database.
	ScriptPath string `json:"scriptPath"`

	// PushChunkSize specifies how many rows are buffered in the
	// database appender before they are flushed.
	PushChunkSize int `json:"pushChunkSize"`

	LogPath  string `json:"logPath"`
	LogLevel string `json:"logLevel"`
}

// DBFilePath returns the configured database file path or a path
// derived from the source log path.
func (c *Main) DBFilePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return replaceLogSuffix(c.SrcPath, ".db")
}

// ErrFilePath returns the configured error file path or a path
// derived from the source log path.
func (c *Main) ErrFilePath() string {
	if c.ErrPath != "" {
		return c.ErrPath
	}
	return replaceLogSuffix(c.SrcPath, ".err")
}

// OriginURL returns the configured origin as a parsed URL.
func (c *Main) OriginURL() *url.URL {
	// we can ignore the error here as we always call config.Validate()
	// first (which parses the origin and reports a possible error)
	u, _ := url.Parse(c.Origin)
	return u
}

func replaceLogSuffix(path, suffix string) string {
	if strings.HasSuffix(path, ".log") {
		return strings.TrimSuffix(path, ".log") + suffix
	}
	return path + suffix
}

// Validate checks for some essential config properties
func Validate(conf *Main, action string) {
	if action != ActionIngest {
		return
	}
	if conf.SrcPath == "" {
		log.Fatal().Msg("missing `srcPath` configuration")
	}
	if !fsop.IsFile(conf.SrcPath) && !fsop.IsDir(conf.SrcPath) {
		log.Fatal().Msgf("Invalid SrcPath: '%s'", conf.SrcPath)
	}
	if conf.Origin == "" {
		log.Fatal().Msg("missing `origin` configuration")
	}
	origin, err := url.Parse(conf.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		log.Fatal().Msgf("Invalid Origin: '%s' (expecting an absolute URL like 'https://mydomain.com')", conf.Origin)
	}
	if !fsop.IsFile(conf.UARegexesPath) {
		log.Fatal().Msgf("Invalid UARegexesPath: '%s'", conf.UARegexesPath)
	}
	if !fsop.IsFile(conf.GeoIPDbPath) {
		log.Fatal().Msgf("Invalid GeoIPDbPath: '%s'", conf.GeoIPDbPath)
	}
	if conf.ScriptPath != "" && !fsop.IsFile(conf.ScriptPath) {
		log.Fatal().Msgf("Invalid ScriptPath: '%s'", conf.ScriptPath)
	}
	if conf.PushChunkSize == 0 {
		conf.PushChunkSize = dfltPushChunkSize
		log.Warn().
			Int("pushChunkSize", conf.PushChunkSize).
			Msg("pushChunkSize not specified, using default")
	}
}

// Load loads main configuration (either from a local fs or via http(s))
func Load(path string) *Main {
	rawData, err := common.LoadSupportedResource(path)
	if err != nil {
		log.Fatal().Msgf("%s", err)
	}
	var conf Main
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Msgf("%s", err)
	}
	return &conf
}
