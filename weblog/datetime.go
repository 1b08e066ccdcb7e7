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
	"fmt"
	"time"
)

// accessLogDatetimeLayout covers the timestamp format used by both
// Apache and Nginx access logs (e.g. 10/Oct/2023:13:55:36 -0700).
const accessLogDatetimeLayout = "02/Jan/2006:15:04:05 -0700"

// ImportDatetime parses an access log timestamp (without the
// surrounding brackets). The zone offset is preserved as logged.
func ImportDatetime(v string) (time.Time, error) {
	t, err := time.Parse(accessLogDatetimeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("Invalid datetime: %s", v)
	}
	return t, nil
}
