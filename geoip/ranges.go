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
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"strings"
)

// ipRange covers addresses from start to end (both inclusive),
// normalized to the 16-byte form so IPv4 and IPv6 records can share
// a single ordering.
type ipRange struct {
	start net.IP
	end   net.IP
	facts *Facts
}

// rangeSource searches an in-memory list of address ranges loaded
// from a CSV export (the IPinfo Lite layout: start_ip, end_ip plus
// named attribute columns). Ranges are sorted by their start address
// and never overlap, so a binary search locates the single candidate
// range for an address.
type rangeSource struct {
	ranges []ipRange
}

func openRangeSource(path string) (*rangeSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geolocation database %s: %w", path, err)
	}
	defer f.Close()
	var rd io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open geolocation database %s: %w", path, err)
		}
		defer gz.Close()
		rd = gz
	}
	ans, err := loadRanges(csv.NewReader(rd))
	if err != nil {
		return nil, fmt.Errorf("failed to load geolocation database %s: %w", path, err)
	}
	return ans, nil
}

func loadRanges(rd *csv.Reader) (*rangeSource, error) {
	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"start_ip", "end_ip"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %s", required)
		}
	}
	colValue := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}
	ans := &rangeSource{ranges: make([]ipRange, 0, 1000)}
	for i := 2; ; i++ {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", i, err)
		}
		start := net.ParseIP(colValue(row, "start_ip"))
		end := net.ParseIP(colValue(row, "end_ip"))
		if start == nil || end == nil {
			return nil, fmt.Errorf("invalid address range on row %d", i)
		}
		ans.ranges = append(ans.ranges, ipRange{
			start: start.To16(),
			end:   end.To16(),
			facts: &Facts{
				Country:   colValue(row, "country"),
				Continent: colValue(row, "continent"),
				ASN:       importASN(colValue(row, "asn")),
				ASName:    colValue(row, "as_name"),
				ASDomain:  colValue(row, "as_domain"),
			},
		})
	}
	sort.Slice(ans.ranges, func(i, j int) bool {
		return bytes.Compare(ans.ranges[i].start, ans.ranges[j].start) < 0
	})
	return ans, nil
}

func (s *rangeSource) lookup(ip net.IP) (*Facts, error) {
	key := ip.To16()
	if key == nil {
		return &Facts{}, nil
	}
	idx := sort.Search(len(s.ranges), func(i int) bool {
		return bytes.Compare(s.ranges[i].start, key) > 0
	})
	if idx == 0 {
		return &Facts{}, nil
	}
	candidate := s.ranges[idx-1]
	if bytes.Compare(key, candidate.end) <= 0 {
		return candidate.facts, nil
	}
	return &Facts{}, nil
}

func (s *rangeSource) close() error {
	return nil
}
