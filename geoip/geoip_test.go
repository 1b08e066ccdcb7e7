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

package geoip

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testResolver(t *testing.T) *Resolver {
	return newResolver(testRangeSource(t))
}

func TestResolverHit(t *testing.T) {
	r := testResolver(t)
	facts := r.Facts(net.ParseIP("8.8.8.8"))
	assert.Equal(t, "United States", facts.Country)
}

func TestResolverUnknownAddress(t *testing.T) {
	r := testResolver(t)
	facts := r.Facts(net.ParseIP("203.0.113.5"))
	assert.Equal(t, &Facts{}, facts)
}

func TestResolverSkipsNonRoutable(t *testing.T) {
	r := testResolver(t)
	for _, v := range []string{"192.168.1.1", "10.0.0.7", "127.0.0.1", "::1", "169.254.10.1", "0.0.0.0"} {
		facts := r.Facts(net.ParseIP(v))
		assert.Equal(t, &Facts{}, facts)
	}
}

func TestResolverMemoizes(t *testing.T) {
	r := testResolver(t)
	first := r.Facts(net.ParseIP("8.8.8.8"))
	second := r.Facts(net.ParseIP("8.8.8.8"))
	assert.Same(t, first, second)
}

func TestImportASN(t *testing.T) {
	assert.Equal(t, uint32(13335), *importASN("AS13335"))
	assert.Equal(t, uint32(13335), *importASN("13335"))
	assert.Nil(t, importASN(""))
	assert.Nil(t, importASN("AS"))
	assert.Nil(t, importASN("ASabc"))
}
