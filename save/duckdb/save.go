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

package duckdb

import (
	"log2duck/save"
	"log2duck/weblog"
	"log2duck/weblog/combined"
)

// RunWriteConsumer reads transformed rows from incomingData and
// writes them to the sink chunk by chunk. Once the channel is closed,
// the rest of the buffered rows is written, the sink is released and
// the consumer finishes.
func RunWriteConsumer(sink *Sink, incomingData <-chan *combined.BoundRow) <-chan save.ConfirmMsg {
	confirmChan := make(chan save.ConfirmMsg)
	go func() {
		defer close(confirmChan)
		for item := range incomingData {
			written, failed := sink.Write(item)
			emitConfirms(confirmChan, written, failed)
		}
		written, failed, err := sink.Close()
		emitConfirms(confirmChan, written, failed)
		if err != nil {
			confirmChan <- save.ConfirmMsg{Error: err}
		}
	}()
	return confirmChan
}

func emitConfirms(confirmChan chan<- save.ConfirmMsg, written int, failed []weblog.RowError) {
	if written > 0 {
		confirmChan <- save.ConfirmMsg{Written: written}
	}
	for i := range failed {
		confirmChan <- save.ConfirmMsg{RowError: &failed[i]}
	}
}
