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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type uaParserDef struct {
	Regex             string `yaml:"regex"`
	RegexFlag         string `yaml:"regex_flag"`
	FamilyReplacement string `yaml:"family_replacement"`
	V1Replacement     string `yaml:"v1_replacement"`
	V2Replacement     string `yaml:"v2_replacement"`
	V3Replacement     string `yaml:"v3_replacement"`
	V4Replacement     string `yaml:"v4_replacement"`
}

type osParserDef struct {
	Regex           string `yaml:"regex"`
	RegexFlag       string `yaml:"regex_flag"`
	OSReplacement   string `yaml:"os_replacement"`
	OSV1Replacement string `yaml:"os_v1_replacement"`
	OSV2Replacement string `yaml:"os_v2_replacement"`
	OSV3Replacement string `yaml:"os_v3_replacement"`
	OSV4Replacement string `yaml:"os_v4_replacement"`
}

type deviceParserDef struct {
	Regex             string `yaml:"regex"`
	RegexFlag         string `yaml:"regex_flag"`
	DeviceReplacement string `yaml:"device_replacement"`
	BrandReplacement  string `yaml:"brand_replacement"`
	ModelReplacement  string `yaml:"model_replacement"`
}

type rulesetDef struct {
	UserAgentParsers []uaParserDef     `yaml:"user_agent_parsers"`
	OSParsers        []osParserDef     `yaml:"os_parsers"`
	DeviceParsers    []deviceParserDef `yaml:"device_parsers"`
}

// BrowserRule matches one browser family pattern.
type BrowserRule struct {
	re             *regexp.Regexp
	family         string
	v1, v2, v3, v4 string
}

func (r *BrowserRule) apply(ua string) (Browser, bool) {
	m := r.re.FindStringSubmatch(ua)
	if m == nil {
		return Browser{}, false
	}
	return Browser{
		Family:     expandTemplate(r.family, m, 1),
		Major:      expandTemplate(r.v1, m, 2),
		Minor:      expandTemplate(r.v2, m, 3),
		Patch:      expandTemplate(r.v3, m, 4),
		PatchMinor: expandTemplate(r.v4, m, 5),
	}, true
}

// OSRule matches one operating system pattern.
type OSRule struct {
	re             *regexp.Regexp
	family         string
	v1, v2, v3, v4 string
}

func (r *OSRule) apply(ua string) (OS, bool) {
	m := r.re.FindStringSubmatch(ua)
	if m == nil {
		return OS{}, false
	}
	return OS{
		Family:     expandTemplate(r.family, m, 1),
		Major:      expandTemplate(r.v1, m, 2),
		Minor:      expandTemplate(r.v2, m, 3),
		Patch:      expandTemplate(r.v3, m, 4),
		PatchMinor: expandTemplate(r.v4, m, 5),
	}, true
}

// DeviceRule matches one device family pattern.
type DeviceRule struct {
	re     *regexp.Regexp
	device string
	brand  string
	model  string
}

func (r *DeviceRule) apply(ua string) (Device, bool) {
	m := r.re.FindStringSubmatch(ua)
	if m == nil {
		return Device{}, false
	}
	return Device{
		Family: expandTemplate(r.device, m, 1),
		Brand:  expandTemplate(r.brand, m, 0),
		Model:  expandTemplate(r.model, m, 1),
	}, true
}

// expandTemplate resolves a replacement template against the capture
// groups of a match. An empty template falls back to the group
// dfltGroup (no fallback when dfltGroup is 0, which is the case of
// device brands). Placeholders $1 up to $9 are supported, matching
// the uap-core contract.
func expandTemplate(tpl string, m []string, dfltGroup int) string {
	if tpl == "" {
		if dfltGroup > 0 && dfltGroup < len(m) {
			return strings.TrimSpace(m[dfltGroup])
		}
		return ""
	}
	ans := tpl
	for i := 1; i < len(m) && i <= 9; i++ {
		ans = strings.ReplaceAll(ans, "$"+strconv.Itoa(i), m[i])
	}
	return strings.TrimSpace(ans)
}

// Ruleset is a compiled collection of uap-core compatible matching
// rules, in their original order.
type Ruleset struct {
	Browsers []*BrowserRule
	OSes     []*OSRule
	Devices  []*DeviceRule
}

func compileRule(pattern, flag string) (*regexp.Regexp, error) {
	if flag == "i" {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// LoadRules parses and compiles a ruleset in the uap-core regexes.yaml
// format. Any pattern the regexp package cannot compile makes the
// whole ruleset unusable.
func LoadRules(data []byte) (*Ruleset, error) {
	var defs rulesetDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse agent ruleset: %w", err)
	}
	ans := &Ruleset{
		Browsers: make([]*BrowserRule, 0, len(defs.UserAgentParsers)),
		OSes:     make([]*OSRule, 0, len(defs.OSParsers)),
		Devices:  make([]*DeviceRule, 0, len(defs.DeviceParsers)),
	}
	for _, def := range defs.UserAgentParsers {
		re, err := compileRule(def.Regex, def.RegexFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to compile browser rule %q: %w", def.Regex, err)
		}
		ans.Browsers = append(ans.Browsers, &BrowserRule{
			re:     re,
			family: def.FamilyReplacement,
			v1:     def.V1Replacement,
			v2:     def.V2Replacement,
			v3:     def.V3Replacement,
			v4:     def.V4Replacement,
		})
	}
	for _, def := range defs.OSParsers {
		re, err := compileRule(def.Regex, def.RegexFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to compile os rule %q: %w", def.Regex, err)
		}
		ans.OSes = append(ans.OSes, &OSRule{
			re:     re,
			family: def.OSReplacement,
			v1:     def.OSV1Replacement,
			v2:     def.OSV2Replacement,
			v3:     def.OSV3Replacement,
			v4:     def.OSV4Replacement,
		})
	}
	for _, def := range defs.DeviceParsers {
		re, err := compileRule(def.Regex, def.RegexFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to compile device rule %q: %w", def.Regex, err)
		}
		ans.Devices = append(ans.Devices, &DeviceRule{
			re:     re,
			device: def.DeviceReplacement,
			brand:  def.BrandReplacement,
			model:  def.ModelReplacement,
		})
	}
	return ans, nil
}
