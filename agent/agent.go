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

// Package agent classifies user agent strings into browser, operating
// system and device properties using an external ruleset in the
// uap-core format (regexes.yaml). Within each of the three categories,
// rules are evaluated in their file order and the first matching rule
// wins.
package agent

// Browser describes the client software of a request. Version parts
// are kept as raw strings because rulesets may produce non-numeric
// values (e.g. "beta"). An empty Family means the agent string did
// not match any rule.
type Browser struct {
	Family     string
	Major      string
	Minor      string
	Patch      string
	PatchMinor string
}

// OS describes the client operating system of a request.
type OS struct {
	Family     string
	Major      string
	Minor      string
	Patch      string
	PatchMinor string
}

// Device describes the client hardware of a request.
type Device struct {
	Family string
	Brand  string
	Model  string
}

// Facets is the complete classification of a user agent string.
// Unmatched categories keep their zero values.
type Facets struct {
	Browser Browser
	OS      OS
	Device  Device
}
