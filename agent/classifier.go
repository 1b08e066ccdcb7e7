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

package agent

import (
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"
)

// Classifier evaluates the rule cascades over user agent strings.
// In real-world logs, a handful of agent strings covers the vast
// majority of lines, so each distinct string is evaluated at most
// once and further occurrences are served from a cache. The cache
// only grows; the number of distinct agent strings within a single
// batch stays far below any concerning size.
type Classifier struct {
	rules *Ruleset
	cache *collections.ConcurrentMap[string, *Facets]
}

// NewClassifier creates a Classifier with an empty cache.
func NewClassifier(rules *Ruleset) *Classifier {
	return &Classifier{
		rules: rules,
		cache: collections.NewConcurrentMap[string, *Facets](),
	}
}

// Facets returns the classification of an agent string. A missing
// agent ("" or "-") produces the zero value without touching the
// cascades.
func (c *Classifier) Facets(ua string) *Facets {
	if ua == "" || ua == "-" {
		return &Facets{}
	}
	if ans := c.cache.Get(ua); ans != nil {
		return ans
	}
	ans := c.evaluate(ua)
	c.cache.Set(ua, ans)
	return ans
}

func (c *Classifier) evaluate(ua string) *Facets {
	ans := &Facets{}
	for _, rule := range c.rules.Browsers {
		if b, ok := rule.apply(ua); ok {
			ans.Browser = b
			break
		}
	}
	for _, rule := range c.rules.OSes {
		if os, ok := rule.apply(ua); ok {
			ans.OS = os
			break
		}
	}
	for _, rule := range c.rules.Devices {
		if dev, ok := rule.apply(ua); ok {
			ans.Device = dev
			break
		}
	}
	// "Mozlila" is a typo appearing in spoofed agent strings of
	// various malicious crawlers
	if strings.Contains(ua, "Mozlila") {
		ans.Device.Family = "Spider"
	}
	return ans
}
