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

package weblog

import "github.com/czcorpus/cnc-gokit/collections"

// Method is a typed HTTP request method. Request verbs outside the
// standard set map to MethodOther instead of invalidating the line
// (crawlers and fuzzers produce all kinds of garbage verbs).
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPatch   Method = "PATCH"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
	MethodOther   Method = "other"
)

var knownMethods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodHead,
	MethodOptions,
	MethodPatch,
	MethodTrace,
	MethodConnect,
}

func (m Method) String() string {
	return string(m)
}

// ImportMethod maps a raw request verb to its typed variant.
// The match is case-sensitive as proper clients send the verbs
// in upper case.
func ImportMethod(v string) Method {
	if collections.SliceContains(knownMethods, Method(v)) {
		return Method(v)
	}
	return MethodOther
}

// Version is a typed HTTP protocol version. The dotless notation of
// the two major versions (HTTP/2, HTTP/3) normalizes to the dotted
// form. Unknown protocol tokens map to VersionOther.
type Version string

const (
	Version10    Version = "HTTP/1.0"
	Version11    Version = "HTTP/1.1"
	Version20    Version = "HTTP/2.0"
	Version30    Version = "HTTP/3.0"
	VersionOther Version = "other"
)

func (v Version) String() string {
	return string(v)
}

// ImportVersion maps a raw protocol token to its typed variant.
func ImportVersion(v string) Version {
	switch v {
	case "HTTP/1.0":
		return Version10
	case "HTTP/1.1":
		return Version11
	case "HTTP/2", "HTTP/2.0":
		return Version20
	case "HTTP/3", "HTTP/3.0":
		return Version30
	}
	return VersionOther
}
