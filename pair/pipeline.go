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
	"context"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/pairwise/base/log"
	"github.com/gorse-io/pairwise/config"
	"github.com/gorse-io/pairwise/source"
)

// Sink persists the final similarity relation.
type Sink interface {
	Write(ctx context.Context, results []SimilarityResult) error
}

// Run executes the full pipeline: load ratings, count raters, enumerate
// co-rated pairs, fold sufficient statistics, score similarities and write
// them to the sink. An empty result is not an error. The sink may be nil when
// the caller only wants the returned relation.
func Run(ctx context.Context, src source.Source, snk Sink, conf *config.Config) ([]SimilarityResult, error) {
	start := time.Now()
	ratings, err := src.Produce(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("loaded ratings", zap.Int("n_ratings", len(ratings)))
	if err = ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	rows := FilterByRaters(CountRaters(ratings), conf.Pipeline.MinRaters, conf.Pipeline.MaxRaters)
	log.Logger().Info("counted raters",
		zap.Int("n_rows", len(rows)),
		zap.Int("min_raters", conf.Pipeline.MinRaters),
		zap.Int("max_raters", conf.Pipeline.MaxRaters))
	if err = ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	pairs, err := Pair(rows, conf.Pipeline.Jobs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("enumerated co-rated pairs", zap.Int("n_pairs", len(pairs)))
	if err = ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	stats, err := Aggregate(pairs, conf.Pipeline.MinIntersection, conf.Pipeline.Jobs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("aggregated statistics",
		zap.Int("n_groups", len(stats)),
		zap.Int("min_intersection", conf.Pipeline.MinIntersection))
	if err = ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	results, err := Similarities(stats,
		conf.Regularization.PriorCount, conf.Regularization.PriorCorrelation, conf.Pipeline.Jobs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if snk != nil {
		if err = snk.Write(ctx, results); err != nil {
			return nil, errors.Trace(err)
		}
	}
	log.Logger().Info("completed similarity pipeline",
		zap.Int("n_results", len(results)),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}
