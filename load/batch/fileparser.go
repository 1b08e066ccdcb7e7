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

package batch

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// maxLineSize is a hard limit for a single log line. Lines are
// usually well below 1 KB but spammy user agents and referers can
// inflate them a lot.
const maxLineSize = 1024 * 1024

// ItemProcessor receives individual source lines. Line numbers are
// 1-based and local to the currently processed file.
type ItemProcessor interface {
	ProcItem(line string, lineNum int64)
}

// ProcessFile feeds a single log file to the processor and returns
// the number of read lines. A read failure in the middle of a file
// interrupts the processing.
func ProcessFile(path string, proc ItemProcessor) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	var lineNum int64
	for sc.Scan() {
		lineNum++
		proc.ProcItem(sc.Text(), lineNum)
	}
	if err := sc.Err(); err != nil {
		return lineNum, fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	return lineNum, nil
}

// ProcessFiles processes all the files the source path resolves to,
// in their natural order.
func ProcessFiles(srcPath string, proc ItemProcessor) (int64, error) {
	files, err := SrcFiles(srcPath)
	if err != nil {
		return 0, err
	}
	log.Info().
		Int("numFiles", len(files)).
		Str("srcPath", srcPath).
		Msg("found source log files")
	var total int64
	for _, file := range files {
		log.Info().Str("file", file).Msg("processing source log file")
		numLines, err := ProcessFile(file, proc)
		total += numLines
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
