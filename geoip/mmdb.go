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
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

// ipinfoRecord matches the record layout of IPinfo mmdb files
// (both the Lite and the commercial builds).
type ipinfoRecord struct {
	Continent string `maxminddb:"continent"`
	Country   string `maxminddb:"country"`
	ASN       string `maxminddb:"asn"`
	ASName    string `maxminddb:"as_name"`
	ASDomain  string `maxminddb:"as_domain"`
}

// mmdbSource reads MaxMind format binary databases. The IPinfo
// layout is recognized via database metadata; anything else is
// decoded as the GeoLite2/GeoIP2 City layout (which carries no
// autonomous system information).
type mmdbSource struct {
	reader *maxminddb.Reader
	ipinfo bool
}

func openMMDBSource(path string) (*mmdbSource, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geolocation database %s: %w", path, err)
	}
	dbType := strings.ToLower(reader.Metadata.DatabaseType)
	return &mmdbSource{
		reader: reader,
		ipinfo: strings.Contains(dbType, "ipinfo"),
	}, nil
}

func (s *mmdbSource) lookup(ip net.IP) (*Facts, error) {
	if s.ipinfo {
		var rec ipinfoRecord
		if err := s.reader.Lookup(ip, &rec); err != nil {
			return nil, err
		}
		return &Facts{
			Country:   rec.Country,
			Continent: rec.Continent,
			ASN:       importASN(rec.ASN),
			ASName:    rec.ASName,
			ASDomain:  rec.ASDomain,
		}, nil
	}
	var rec geoip2.City
	if err := s.reader.Lookup(ip, &rec); err != nil {
		return nil, err
	}
	return &Facts{
		Country:   rec.Country.Names["en"],
		Continent: rec.Continent.Names["en"],
	}, nil
}

func (s *mmdbSource) close() error {
	return s.reader.Close()
}
