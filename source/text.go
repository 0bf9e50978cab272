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
	"regexp"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/gorse-io/pairwise/base"
	"github.com/gorse-io/pairwise/base/log"
)

const (
	// DefaultStarPattern matches an explicit star rating in a post, e.g.
	// "my review of The Social Network: 4 stars". The first group captures the
	// item name and the second group captures the integer rating.
	DefaultStarPattern = `(?i)(?:my review of|just reviewed) (.+?): ([0-9]+) stars?`
	// DefaultCheckInPattern matches an implicit check-in in a post, e.g.
	// "I'm at Ritual Coffee Roasters". The only group captures the item name.
	DefaultCheckInPattern = `(?i)i'?m at (.+?)(?:\.|!|$)`
)

// StarPosts extracts explicit star ratings from free-text posts. Each line of
// the input file is a record of `<user>\t<text>`. Lines whose text does not
// match the pattern contribute nothing.
type StarPosts struct {
	path    string
	pattern *regexp.Regexp
}

// NewStarPosts creates a StarPosts source. The pattern must have two capture
// groups: the item name and the integer star rating.
func NewStarPosts(path, pattern string) (*StarPosts, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Annotate(err, "compile star pattern")
	}
	if re.NumSubexp() != 2 {
		return nil, errors.Errorf("star pattern must have 2 groups, got %d", re.NumSubexp())
	}
	return &StarPosts{path: path, pattern: re}, nil
}

func (s *StarPosts) Produce(ctx context.Context) ([]Rating, error) {
	ratings := make([]Rating, 0)
	err := scanPosts(ctx, s.path, func(user, text string) {
		match := s.pattern.FindStringSubmatch(text)
		if match == nil {
			return
		}
		score, err := strconv.Atoi(match[2])
		if err != nil {
			return
		}
		ratings = append(ratings, Rating{
			User:  user,
			Item:  strings.TrimSpace(match[1]),
			Score: float32(score),
		})
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ratings, nil
}

// CheckIns extracts implicit binary signals from free-text posts. Each matched
// check-in emits rating 1, de-duplicated to one row per (user, item).
type CheckIns struct {
	path    string
	pattern *regexp.Regexp
}

// NewCheckIns creates a CheckIns source. The pattern must have one capture
// group: the item name.
func NewCheckIns(path, pattern string) (*CheckIns, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Annotate(err, "compile check-in pattern")
	}
	if re.NumSubexp() != 1 {
		return nil, errors.Errorf("check-in pattern must have 1 group, got %d", re.NumSubexp())
	}
	return &CheckIns{path: path, pattern: re}, nil
}

func (s *CheckIns) Produce(ctx context.Context) ([]Rating, error) {
	ratings := make([]Rating, 0)
	seen := mapset.NewThreadUnsafeSet[string]()
	err := scanPosts(ctx, s.path, func(user, text string) {
		match := s.pattern.FindStringSubmatch(text)
		if match == nil {
			return
		}
		item := strings.TrimSpace(match[1])
		if item == "" || !seen.Add(user+"\t"+item) {
			return
		}
		ratings = append(ratings, Rating{User: user, Item: item, Score: 1})
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ratings, nil
}

// scanPosts reads `<user>\t<text>` records and feeds them to the handler.
// Records without a user column are dropped and counted.
func scanPosts(ctx context.Context, path string, handler func(user, text string)) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	dropped := atomic.NewInt64(0)
	err = base.ReadLines(bufio.NewScanner(file), "\t", func(lineCount int, fields []string) bool {
		if ctx.Err() != nil {
			return false
		}
		if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" {
			dropped.Inc()
			return true
		}
		handler(strings.TrimSpace(fields[0]), strings.Join(fields[1:], "\t"))
		return true
	})
	if err != nil {
		return errors.Trace(err)
	}
	if ctx.Err() != nil {
		return errors.Trace(ctx.Err())
	}
	if dropped.Load() > 0 {
		log.Logger().Warn("dropped malformed posts",
			zap.String("path", path),
			zap.Int64("dropped", dropped.Load()))
	}
	return nil
}
