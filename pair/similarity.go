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

package pair

import (
	"github.com/chewxy/math32"
	"github.com/juju/errors"

	"github.com/gorse-io/pairwise/base/parallel"
)

const batchSize = 1024

// SimilarityResult holds the similarity scores of an item pair. Scores from
// an undefined division (zero variance or zero norm) are NaN.
type SimilarityResult struct {
	ItemA                  string
	ItemB                  string
	Correlation            float32
	RegularizedCorrelation float32
	CosineSimilarity       float32
	JaccardSimilarity      float32
	Size                   int
	NumRatersA             int
	NumRatersB             int
}

// Similarities maps every PairStatistics row to its similarity scores. The
// mapping is stateless, so rows are scored in parallel batches.
func Similarities(stats []PairStatistics, priorCount, priorCorrelation float32, nJobs int) ([]SimilarityResult, error) {
	if nJobs < 1 {
		nJobs = 1
	}
	results := make([]SimilarityResult, len(stats))
	err := parallel.BatchParallel(len(stats), nJobs, batchSize, func(_, beginJobId, endJobId int) error {
		for i := beginJobId; i < endJobId; i++ {
			results[i] = similarity(stats[i], priorCount, priorCorrelation)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return results, nil
}

func similarity(stats PairStatistics, priorCount, priorCorrelation float32) SimilarityResult {
	correlation := Correlation(stats)
	return SimilarityResult{
		ItemA:                  stats.ItemA,
		ItemB:                  stats.ItemB,
		Correlation:            correlation,
		RegularizedCorrelation: Regularize(correlation, stats.Size, priorCount, priorCorrelation),
		CosineSimilarity:       Cosine(stats),
		JaccardSimilarity:      Jaccard(stats),
		Size:                   stats.Size,
		NumRatersA:             stats.NumRatersA,
		NumRatersB:             stats.NumRatersB,
	}
}

// Correlation computes the Pearson correlation coefficient from raw moments,
// avoiding a second pass over per-user ratings. When either variance is zero
// (all co-raters gave one item the identical rating) the correlation is
// undefined and NaN is returned.
func Correlation(stats PairStatistics) float32 {
	size := float32(stats.Size)
	numerator := size*stats.DotProduct - stats.SumA*stats.SumB
	denominator := math32.Sqrt(size*stats.SumSqA-stats.SumA*stats.SumA) *
		math32.Sqrt(size*stats.SumSqB-stats.SumB*stats.SumB)
	if denominator == 0 {
		return math32.NaN()
	}
	return numerator / denominator
}

// Regularize shrinks a raw correlation toward the prior with pseudocount
// weighting. A pair with no co-raters degenerates to the prior alone instead
// of propagating NaN.
func Regularize(correlation float32, size int, priorCount, priorCorrelation float32) float32 {
	if size == 0 {
		return priorCorrelation
	}
	w := float32(size) / (float32(size) + priorCount)
	return w*correlation + (1-w)*priorCorrelation
}

// Cosine computes the cosine similarity between the co-rating vectors of a
// pair. NaN when either norm is zero, which requires all-zero ratings.
func Cosine(stats PairStatistics) float32 {
	denominator := math32.Sqrt(stats.SumSqA) * math32.Sqrt(stats.SumSqB)
	if denominator == 0 {
		return math32.NaN()
	}
	return stats.DotProduct / denominator
}

// Jaccard treats ratings as binary signals: the co-rater count over the size
// of the rater union. Well-defined whenever both items have at least one
// rater.
func Jaccard(stats PairStatistics) float32 {
	union := stats.NumRatersA + stats.NumRatersB - stats.Size
	return float32(stats.Size) / float32(union)
}
