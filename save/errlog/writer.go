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

// Package errlog maintains the side file of rejected lines. The file
// exists after a run only if at least one line was rejected, so its
// mere presence tells the operator there is something to review.
package errlog

import (
	"bufio"
	"fmt"
	"os"

	"log2duck/weblog"
)

// Writer records rejected lines into a text file, one entry per
// line. The file is created lazily by the first reported error.
type Writer struct {
	path string
	file *os.File
	wr   *bufio.Writer
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Prepare removes a stale error file left behind by a previous run.
func (w *Writer) Prepare() error {
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale error file %s: %w", w.path, err)
	}
	return nil
}

// Write records one rejected line along with the reason.
func (w *Writer) Write(rerr weblog.RowError) error {
	if w.file == nil {
		file, err := os.Create(w.path)
		if err != nil {
			return fmt.Errorf("failed to create error file %s: %w", w.path, err)
		}
		w.file = file
		w.wr = bufio.NewWriter(file)
	}
	if _, err := fmt.Fprintf(w.wr, "Invalid entry: %s (%s)\n", rerr.Line, rerr.Message); err != nil {
		return fmt.Errorf("failed to write to error file %s: %w", w.path, err)
	}
	return nil
}

// Created tells whether any error has been recorded so far.
func (w *Writer) Created() bool {
	return w.file != nil
}

// Close flushes and closes the file. Without any recorded error this
// is a no-op and no file appears on disk.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	if err := w.wr.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush error file %s: %w", w.path, err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close error file %s: %w", w.path, err)
	}
	return nil
}
