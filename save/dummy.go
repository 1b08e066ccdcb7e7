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
	"log2duck/weblog/combined"

	"github.com/rs/zerolog/log"
)

// RunWriteConsumer runs a dummy (null) write consumer used in the
// dry-run mode. Rows are serialized and optionally printed but
// nothing is stored.
func RunWriteConsumer(incomingData <-chan *combined.BoundRow, printOut bool) <-chan ConfirmMsg {
	confirmChan := make(chan ConfirmMsg)
	go func() {
		defer close(confirmChan)
		for item := range incomingData {
			out, err := item.Row.ToJSON()
			if err != nil {
				log.Error().Err(err).Msg("failed to serialize row")
				rerr := weblog.NewRowError(item.LineNumber, item.Line, err)
				confirmChan <- ConfirmMsg{RowError: &rerr}
				continue
			}
			if printOut {
				fmt.Println(string(out))
			}
			confirmChan <- ConfirmMsg{Written: 1}
		}
	}()
	return confirmChan
}
