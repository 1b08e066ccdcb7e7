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

// Package batch feeds access log files into the processing pipeline.
// A source path may refer either to a single log file or to a whole
// directory of log files (e.g. one kept by a rotating logger).
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"log2duck/fsop"
)

// SrcFiles resolves a source path into the list of files to process.
// For a directory, its regular files are listed ordered by their
// modification time (and by name where the times are equal) so
// records enter the database in their natural order.
func SrcFiles(srcPath string) ([]string, error) {
	if !fsop.IsDir(srcPath) {
		if !fsop.IsFile(srcPath) {
			return nil, fmt.Errorf("source path %s is neither a file nor a directory", srcPath)
		}
		return []string{srcPath}, nil
	}
	entries, err := os.ReadDir(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list source directory %s: %w", srcPath, err)
	}
	type srcFile struct {
		path  string
		mtime int64
	}
	items := make([]srcFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		fullPath := filepath.Join(srcPath, entry.Name())
		items = append(items, srcFile{path: fullPath, mtime: fsop.GetFileMtime(fullPath)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].mtime == items[j].mtime {
			return items[i].path < items[j].path
		}
		return items[i].mtime < items[j].mtime
	})
	ans := make([]string, len(items))
	for i, item := range items {
		ans[i] = item.path
	}
	return ans, nil
}
