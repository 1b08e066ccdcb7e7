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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lineCollector struct {
	lines []string
	nums  []int64
}

func (c *lineCollector) ProcItem(line string, lineNum int64) {
	c.lines = append(c.lines, line)
	c.nums = append(c.nums, lineNum)
}

func writeTestFile(t *testing.T, dir, name, content string, mtime time.Time) string {
	fullPath := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	assert.NoError(t, os.Chtimes(fullPath, mtime, mtime))
	return fullPath
}

func TestSrcFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFile(t, dir, "access.log", "line\n", time.Now())
	files, err := SrcFiles(srcPath)
	assert.NoError(t, err)
	assert.Equal(t, []string{srcPath}, files)
}

func TestSrcFilesMissingPath(t *testing.T) {
	_, err := SrcFiles(filepath.Join(t.TempDir(), "no-such.log"))
	assert.Error(t, err)
}

func TestSrcFilesDirOrderedByMtime(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Now().Add(-3 * time.Hour)
	newest := writeTestFile(t, dir, "access.log", "", t0.Add(2*time.Hour))
	oldest := writeTestFile(t, dir, "access.log.2", "", t0)
	middle := writeTestFile(t, dir, "access.log.1", "", t0.Add(time.Hour))
	assert.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	files, err := SrcFiles(dir)
	assert.NoError(t, err)
	assert.Equal(t, []string{oldest, middle, newest}, files)
}

func TestSrcFilesDirNameFallbackOrder(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Now().Truncate(time.Second)
	b := writeTestFile(t, dir, "b.log", "", mtime)
	a := writeTestFile(t, dir, "a.log", "", mtime)
	files, err := SrcFiles(dir)
	assert.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestProcessFileFeedsLines(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFile(t, dir, "access.log", "first\nsecond\nthird\n", time.Now())
	collector := &lineCollector{}
	numLines, err := ProcessFile(srcPath, collector)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), numLines)
	assert.Equal(t, []string{"first", "second", "third"}, collector.lines)
	assert.Equal(t, []int64{1, 2, 3}, collector.nums)
}

func TestProcessFilesWholeDir(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Now().Add(-time.Hour)
	writeTestFile(t, dir, "access.log.1", "a\nb\n", t0)
	writeTestFile(t, dir, "access.log", "c\n", t0.Add(time.Minute))
	collector := &lineCollector{}
	numLines, err := ProcessFiles(dir, collector)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), numLines)
	assert.Equal(t, []string{"a", "b", "c"}, collector.lines)
	// line numbers restart for each file
	assert.Equal(t, []int64{1, 2, 1}, collector.nums)
}
