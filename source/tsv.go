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

package source

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/gorse-io/pairwise/base"
	"github.com/gorse-io/pairwise/base/log"
)

// TSV loads ratings from a separated-values file with three ordered columns
// (user, item, rating). Extra columns such as timestamps are ignored.
type TSV struct {
	path      string
	sep       string
	hasHeader bool
}

// NewTSV creates a TSV source. The file should be:
//
//	<userId 1> <sep> <itemId 1> <sep> <rating 1> <sep> <extras>
//	<userId 2> <sep> <itemId 2> <sep> <rating 2> <sep> <extras>
//	...
//
// For example, the `u.data` from MovieLens 100K is:
//
//	196\t242\t3\t881250949
//	186\t302\t3\t891717742
//	22\t377\t1\t878887116
func NewTSV(path, sep string, hasHeader bool) *TSV {
	return &TSV{path: path, sep: sep, hasHeader: hasHeader}
}

func (s *TSV) Produce(ctx context.Context) ([]Rating, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	ratings := make([]Rating, 0)
	dropped := atomic.NewInt64(0)
	err = base.ReadLines(bufio.NewScanner(file), s.sep, func(lineCount int, fields []string) bool {
		if ctx.Err() != nil {
			return false
		}
		if s.hasHeader && lineCount == 0 {
			return true
		}
		rating, ok := parseRating(fields)
		if !ok {
			dropped.Inc()
			return true
		}
		ratings = append(ratings, rating)
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if ctx.Err() != nil {
		return nil, errors.Trace(ctx.Err())
	}
	if dropped.Load() > 0 {
		log.Logger().Warn("dropped malformed rows",
			zap.String("path", s.path),
			zap.Int64("dropped", dropped.Load()))
	}
	return ratings, nil
}

func parseRating(fields []string) (Rating, bool) {
	if len(fields) < 3 {
		return Rating{}, false
	}
	user := strings.TrimSpace(fields[0])
	item := strings.TrimSpace(fields[1])
	if user == "" || item == "" {
		return Rating{}, false
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 32)
	if err != nil {
		return Rating{}, false
	}
	return Rating{User: user, Item: item, Score: float32(score)}, true
}
