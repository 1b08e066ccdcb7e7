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
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryKeepsKeyOrder(t *testing.T) {
	q := ParseQuery("zzz=1&aaa=2&mmm=3")
	assert.Equal(t, 3, len(q))
	assert.Equal(t, "zzz", q[0].Key)
	assert.Equal(t, "aaa", q[1].Key)
	assert.Equal(t, "mmm", q[2].Key)
}

func TestParseQueryRepeatedKeys(t *testing.T) {
	q := ParseQuery("a=1&b=2&a=3")
	assert.Equal(t, 2, len(q))
	assert.Equal(t, []string{"1", "3"}, q[0].Values)
	assert.Equal(t, []string{"2"}, q[1].Values)
}

func TestParseQueryDecodesValues(t *testing.T) {
	q := ParseQuery("lemma=za%C5%A1kolit&pos=V+N")
	assert.Equal(t, "zaškolit", q.Get("lemma"))
	assert.Equal(t, "V N", q.Get("pos"))
}

func TestParseQueryValuelessKey(t *testing.T) {
	q := ParseQuery("debug&x=1")
	assert.Equal(t, []string{""}, q[0].Values)
	assert.Equal(t, "1", q.Get("x"))
}

func TestParseQuerySkipsUndecodablePairs(t *testing.T) {
	q := ParseQuery("a=%zz&b=2")
	assert.Equal(t, 1, len(q))
	assert.Equal(t, "2", q.Get("b"))
}

func TestParseQueryEmpty(t *testing.T) {
	assert.Equal(t, 0, len(ParseQuery("")))
}

func TestQueryJSONKeepsOrder(t *testing.T) {
	q := ParseQuery("zzz=1&aaa=2&zzz=3")
	ans, err := json.Marshal(q)
	assert.NoError(t, err)
	assert.Equal(t, `{"zzz":["1","3"],"aaa":["2"]}`, string(ans))
}

func TestDecomposeRelative(t *testing.T) {
	base, err := url.Parse("https://www.example.com")
	assert.NoError(t, err)
	parts := Decompose(base, "/media/img/a.png?x=1&y=2")
	assert.Equal(t, "https://www.example.com", parts.Origin)
	assert.Equal(t, "/media/img/a.png", parts.Path)
	assert.Equal(t, "png", parts.Extension)
	assert.Equal(t, "x=1&y=2", parts.RawQuery)
	assert.Equal(t, "1", parts.Query.Get("x"))
}

func TestDecomposeAbsolute(t *testing.T) {
	base, _ := url.Parse("https://www.example.com")
	parts := Decompose(base, "http://other.org:8080/data.json")
	assert.Equal(t, "http://other.org:8080", parts.Origin)
	assert.Equal(t, "/data.json", parts.Path)
	assert.Equal(t, "json", parts.Extension)
}

func TestDecomposeWithoutBase(t *testing.T) {
	parts := Decompose(nil, "https://search.example.org/find?q=test")
	assert.Equal(t, "https://search.example.org", parts.Origin)
	assert.Equal(t, "/find", parts.Path)
	assert.Equal(t, "test", parts.Query.Get("q"))
}

func TestDecomposeMalformed(t *testing.T) {
	base, _ := url.Parse("https://www.example.com")
	parts := Decompose(base, "://x")
	assert.Equal(t, URLParts{}, parts)
}

func TestPathExtension(t *testing.T) {
	assert.Equal(t, "png", PathExtension("/img/a.png"))
	assert.Equal(t, "gz", PathExtension("/dump/data.tar.gz"))
	assert.Equal(t, "png", PathExtension("/img/A.PNG"))
	assert.Equal(t, "", PathExtension("/img/"))
	assert.Equal(t, "", PathExtension("/about"))
	assert.Equal(t, "", PathExtension("/conf/.env"))
	assert.Equal(t, "", PathExtension(""))
}
