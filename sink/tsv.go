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

// Package sink persists similarity relations.
package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/juju/errors"

	"github.com/gorse-io/pairwise/pair"
)

// TSV writes the similarity relation as tab-separated values with columns
// item, item2, correlation, regularizedCorrelation, cosineSimilarity,
// jaccardSimilarity, size, numRatersA, numRatersB. Rows are sorted by
// (item, item2) so re-runs on identical input produce byte-identical files.
type TSV struct {
	path string
}

func NewTSV(path string) *TSV {
	return &TSV{path: path}
}

func (s *TSV) Write(ctx context.Context, results []pair.SimilarityResult) error {
	file, err := os.Create(s.path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	if err = WriteTo(ctx, file, results); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// WriteTo serializes the similarity relation to a writer. The input slice is
// not modified.
func WriteTo(ctx context.Context, w io.Writer, results []pair.SimilarityResult) error {
	sorted := make([]pair.SimilarityResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ItemA != sorted[j].ItemA {
			return sorted[i].ItemA < sorted[j].ItemA
		}
		return sorted[i].ItemB < sorted[j].ItemB
	})
	buf := bufio.NewWriter(w)
	for _, result := range sorted {
		if ctx.Err() != nil {
			return errors.Trace(ctx.Err())
		}
		if _, err := fmt.Fprintf(buf, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			result.ItemA, result.ItemB,
			formatScore(result.Correlation),
			formatScore(result.RegularizedCorrelation),
			formatScore(result.CosineSimilarity),
			formatScore(result.JaccardSimilarity),
			result.Size, result.NumRatersA, result.NumRatersB); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(buf.Flush())
}

// formatScore renders a score with the shortest round-trip representation.
// NaN sentinels serialize as `NaN`.
func formatScore(score float32) string {
	return strconv.FormatFloat(float64(score), 'g', -1, 32)
}
