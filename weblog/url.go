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

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// QueryParam groups all the decoded values of a single query string
// key in the order of their appearance.
type QueryParam struct {
	Key    string
	Values []string
}

// Query is an ordered view of a URL query string. Unlike url.Values,
// it keeps both the order of keys and the order of repeated values,
// so e.g. ?a=1&b=2&a=3 produces [a: [1, 3], b: [2]].
type Query []QueryParam

// Get returns the first value of a key or an empty string.
func (q Query) Get(key string) string {
	for _, p := range q {
		if p.Key == key {
			if len(p.Values) > 0 {
				return p.Values[0]
			}
			return ""
		}
	}
	return ""
}

// MarshalJSON exports the query as a JSON object with list values,
// keeping the original key order.
func (q Query) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range q {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		values, err := json.Marshal(p.Values)
		if err != nil {
			return nil, err
		}
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseQuery decodes a raw query string into an ordered Query.
// Pairs which cannot be percent-decoded are dropped while the rest
// of the query survives (broken escaping is common in referers sent
// by crawlers).
func ParseQuery(raw string) Query {
	var ans Query
	idx := make(map[string]int)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		dKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		dValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		if pos, ok := idx[dKey]; ok {
			ans[pos].Values = append(ans[pos].Values, dValue)

		} else {
			idx[dKey] = len(ans)
			ans = append(ans, QueryParam{Key: dKey, Values: []string{dValue}})
		}
	}
	return ans
}

// URLParts carries the stored components of a single URL. The zero
// value means the URL could not be interpreted at all; callers keep
// the raw string in such case.
type URLParts struct {
	Origin    string
	Path      string
	Extension string
	RawQuery  string
	Query     Query
}

// Decompose splits a URL into the parts stored in separate columns.
// Relative references resolve against the provided base (which may be
// nil for values logged as absolute, like referers). Input which
// cannot be parsed as a URL yields empty URLParts, never an error.
func Decompose(base *url.URL, raw string) URLParts {
	var ref *url.URL
	var err error
	if base != nil {
		ref, err = base.Parse(raw)

	} else {
		ref, err = url.Parse(raw)
	}
	if err != nil {
		return URLParts{}
	}
	var origin string
	if ref.Scheme != "" && ref.Host != "" {
		origin = ref.Scheme + "://" + ref.Host
	}
	return URLParts{
		Origin:    origin,
		Path:      ref.Path,
		Extension: PathExtension(ref.Path),
		RawQuery:  ref.RawQuery,
		Query:     ParseQuery(ref.RawQuery),
	}
}

// PathExtension extracts a lowercased filename extension out of a URL
// path. Dotless names and dotfiles (".env") produce an empty result.
func PathExtension(path string) string {
	seg := path
	if i := strings.LastIndexByte(seg, '/'); i >= 0 {
		seg = seg[i+1:]
	}
	i := strings.LastIndexByte(seg, '.')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(seg[i+1:])
}
