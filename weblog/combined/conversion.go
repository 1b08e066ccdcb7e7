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
	"net/url"
	"strconv"

	"log2duck/agent"
	"log2duck/geoip"
	"log2duck/weblog"
)

// Transformer assembles complete output rows out of typed input
// records. It owns no caches itself; both the agent classifier and
// the geolocation resolver memoize internally.
type Transformer struct {
	base       *url.URL
	classifier *agent.Classifier
	resolver   *geoip.Resolver
}

// NewTransformer creates a transformer resolving relative request
// paths against the provided base URL (the origin the log belongs to).
func NewTransformer(base *url.URL, classifier *agent.Classifier, resolver *geoip.Resolver) *Transformer {
	return &Transformer{
		base:       base,
		classifier: classifier,
		resolver:   resolver,
	}
}

// numericVersion converts a version component to its numeric form.
// Rulesets may produce non-numeric components ("beta"); those are
// stored as NULL.
func numericVersion(v string) *uint16 {
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return nil
	}
	ans := uint16(n)
	return &ans
}

// Transform builds the output row for an input record. It is a total
// function: an uninterpretable request URL, an unmatched user agent
// or an unknown address all degrade to NULL columns, never to an
// error.
func (t *Transformer) Transform(rec *InputRecord) *Row {
	reqParts := weblog.Decompose(t.base, rec.Path)
	var refParts weblog.URLParts
	if rec.Referer != "" {
		refParts = weblog.Decompose(nil, rec.Referer)
	}
	facets := t.classifier.Facets(rec.UserAgent)
	facts := t.resolver.Facts(rec.IP)

	return &Row{
		IP:                 rec.IP.String(),
		Identity:           rec.Identity,
		User:               rec.User,
		Timestamp:          rec.Time.UTC(),
		Method:             rec.Method,
		Path:               reqParts.Path,
		Extension:          reqParts.Extension,
		Query:              reqParts.RawQuery,
		ParsedQuery:        reqParts.Query,
		HTTPVersion:        rec.Version,
		StatusCode:         int32(rec.Status),
		Size:               rec.Size,
		Referer:            rec.Referer,
		RefererOrigin:      refParts.Origin,
		RefererPath:        refParts.Path,
		RefererQuery:       refParts.RawQuery,
		RefererParsedQuery: refParts.Query,
		UserAgent:          rec.UserAgent,
		Browser:            facets.Browser.Family,
		BrowserMajor:       numericVersion(facets.Browser.Major),
		BrowserMinor:       numericVersion(facets.Browser.Minor),
		BrowserPatch:       numericVersion(facets.Browser.Patch),
		BrowserPatchMinor:  numericVersion(facets.Browser.PatchMinor),
		OS:                 facets.OS.Family,
		OSMajor:            numericVersion(facets.OS.Major),
		OSMinor:            numericVersion(facets.OS.Minor),
		OSPatch:            numericVersion(facets.OS.Patch),
		OSPatchMinor:       numericVersion(facets.OS.PatchMinor),
		Device:             facets.Device.Family,
		Brand:              facets.Device.Brand,
		Model:              facets.Device.Model,
		Country:            facts.Country,
		Continent:          facts.Continent,
		ASN:                facts.ASN,
		ASName:             facts.ASName,
		ASDomain:           facts.ASDomain,
	}
}
