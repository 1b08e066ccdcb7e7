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

package save

import (
	"fmt"

	"log2duck/weblog"
)

// ConfirmMsg is the feedback a write consumer emits back to the
// ingestion loop. Exactly one of the fields is filled: Written counts
// rows stored by a finished flush, RowError reports a single row the
// target refused and Error reports a failure not attributable to any
// particular row.
type ConfirmMsg struct {
	Written  int
	RowError *weblog.RowError
	Error    error
}

func (cm ConfirmMsg) String() string {
	return fmt.Sprintf(
		"ConfirmMsg{Written: %d, RowError: %v, Error: %v}", cm.Written, cm.RowError, cm.Error)
}
