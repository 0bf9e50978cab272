// Copyright 2025 gorse Project Authors
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

package base

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadLines(t *testing.T) {
	text := "1\t100\t5\n2\t200\t3\n3\t300\t4\n"
	var lines [][]string
	err := ReadLines(bufio.NewScanner(strings.NewReader(text)), "\t", func(i int, fields []string) bool {
		lines = append(lines, fields)
		return true
	})
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", "100", "5"},
		{"2", "200", "3"},
		{"3", "300", "4"},
	}, lines)
}

func TestReadLinesStop(t *testing.T) {
	text := "1\t100\t5\n2\t200\t3\n3\t300\t4\n"
	count := 0
	err := ReadLines(bufio.NewScanner(strings.NewReader(text)), "\t", func(i int, fields []string) bool {
		count++
		return count < 2
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
