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

// Package geoip translates IP addresses into geographical and network
// ownership information. Supported data sources are MaxMind format
// binary databases (both the IPinfo record layout and the GeoLite2
// City one) and CSV range lists (the IPinfo Lite export layout).
package geoip

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
)

// Facts is the geographical and network classification of an IP
// address. Empty fields mean the address could not be matched; this
// is a regular outcome, not an error.
type Facts struct {
	Country   string
	Continent string
	ASN       *uint32
	ASName    string
	ASDomain  string
}

// source is a single lookup backend. Backends return empty Facts for
// addresses they have no record of; errors are reserved for broken
// reads.
type source interface {
	lookup(ip net.IP) (*Facts, error)
	close() error
}

// Resolver searches a geolocation dataset, remembering results of
// previously seen addresses. The cache key is the exact address
// string, so e.g. "::1" and "0:0:0:0:0:0:0:1" are cached separately
// even though they resolve identically.
type Resolver struct {
	src   source
	cache *collections.ConcurrentMap[string, *Facts]
}

// Open creates a Resolver for the provided database file. The format
// is detected from the file suffix (.mmdb, .csv, .csv.gz).
func Open(path string) (*Resolver, error) {
	var src source
	var err error
	switch {
	case strings.HasSuffix(path, ".csv") || strings.HasSuffix(path, ".csv.gz"):
		src, err = openRangeSource(path)
	case strings.HasSuffix(path, ".mmdb"):
		src, err = openMMDBSource(path)
	default:
		return nil, fmt.Errorf("unsupported geolocation database format: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return newResolver(src), nil
}

func newResolver(src source) *Resolver {
	return &Resolver{
		src:   src,
		cache: collections.NewConcurrentMap[string, *Facts](),
	}
}

// Facts returns the classification of an address. Private, loopback
// and otherwise non-routable addresses resolve to the empty value
// without touching the dataset.
func (r *Resolver) Facts(ip net.IP) *Facts {
	key := ip.String()
	if ans := r.cache.Get(key); ans != nil {
		return ans
	}
	ans := r.resolve(ip)
	r.cache.Set(key, ans)
	return ans
}

func (r *Resolver) resolve(ip net.IP) *Facts {
	if !isRoutable(ip) {
		return &Facts{}
	}
	facts, err := r.src.lookup(ip)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip.String()).Msg("geolocation lookup failed")
		return &Facts{}
	}
	return facts
}

// Close releases the underlying dataset.
func (r *Resolver) Close() error {
	return r.src.close()
}

func isRoutable(ip net.IP) bool {
	return !(ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified())
}

// importASN converts the "AS13335" notation (a bare number is
// accepted too) into its numeric value.
func importASN(v string) *uint32 {
	v = strings.TrimPrefix(v, "AS")
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil
	}
	ans := uint32(n)
	return &ans
}
