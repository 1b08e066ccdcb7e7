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

package errlog

import (
	"github.com/rs/zerolog/log"

	"log2duck/save"
	"log2duck/weblog"
)

// RunWriteConsumer reads row errors from incomingErrors and records
// them to the error file. A write failure is logged and reported but
// does not stop the consumer. Once the channel is closed, the file is
// closed and the consumer finishes.
func RunWriteConsumer(writer *Writer, incomingErrors <-chan weblog.RowError) <-chan save.ConfirmMsg {
	confirmChan := make(chan save.ConfirmMsg)
	go func() {
		defer close(confirmChan)
		for rerr := range incomingErrors {
			if err := writer.Write(rerr); err != nil {
				log.Error().
					Err(err).
					Int64("lineNumber", rerr.LineNumber).
					Msg("failed to record a rejected line")
				confirmChan <- save.ConfirmMsg{Error: err}
				continue
			}
			confirmChan <- save.ConfirmMsg{RowError: &rerr}
		}
		if err := writer.Close(); err != nil {
			confirmChan <- save.ConfirmMsg{Error: err}
		}
	}()
	return confirmChan
}
