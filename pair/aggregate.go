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
	"hash/fnv"
	"sort"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"modernc.org/mathutil"

	"github.com/gorse-io/pairwise/base/parallel"
)

// PairStatistics are the sufficient statistics of a co-rated pair, fully
// determining all similarity metrics without re-scanning raw ratings.
// Invariant: Size <= min(NumRatersA, NumRatersB).
type PairStatistics struct {
	ItemA      string
	ItemB      string
	Size       int
	DotProduct float32
	SumA       float32
	SumB       float32
	SumSqA     float32
	SumSqB     float32
	NumRatersA int
	NumRatersB int
}

type pairKey struct {
	itemA string
	itemB string
}

func (stats *PairStatistics) fold(p CoRatedPair) {
	stats.Size++
	stats.DotProduct += p.ScoreA * p.ScoreB
	stats.SumA += p.ScoreA
	stats.SumB += p.ScoreB
	stats.SumSqA += p.ScoreA * p.ScoreA
	stats.SumSqB += p.ScoreB * p.ScoreB
	// All rows of a group carry the same rater counts. Max is used only
	// because folding needs an explicit reducer.
	stats.NumRatersA = mathutil.Max(stats.NumRatersA, p.NumRatersA)
	stats.NumRatersB = mathutil.Max(stats.NumRatersB, p.NumRatersB)
}

// Aggregate folds CoRatedPair rows into sufficient statistics grouped by
// (ItemA, ItemB). Rows are sharded by key hash so every group is folded by
// exactly one worker; the fold operators (count, sum, max) are associative
// and commutative, so row order within a shard is irrelevant. Pairs with
// fewer than minIntersection co-raters are dropped from the output.
func Aggregate(pairs []CoRatedPair, minIntersection, nJobs int) ([]PairStatistics, error) {
	if nJobs < 1 {
		nJobs = 1
	}
	shards := make([][]CoRatedPair, nJobs)
	for _, p := range pairs {
		h := fnv.New32a()
		_, _ = h.Write([]byte(p.ItemA))
		_, _ = h.Write([]byte{'\t'})
		_, _ = h.Write([]byte(p.ItemB))
		shard := int(h.Sum32()) % nJobs
		if shard < 0 {
			shard += nJobs
		}
		shards[shard] = append(shards[shard], p)
	}
	results := make([][]PairStatistics, nJobs)
	err := parallel.Parallel(nJobs, nJobs, func(_, jobId int) error {
		groups := make(map[pairKey]*PairStatistics)
		for _, p := range shards[jobId] {
			key := pairKey{itemA: p.ItemA, itemB: p.ItemB}
			stats, exist := groups[key]
			if !exist {
				stats = &PairStatistics{ItemA: p.ItemA, ItemB: p.ItemB}
				groups[key] = stats
			}
			stats.fold(p)
		}
		folded := make([]PairStatistics, 0, len(groups))
		for _, stats := range groups {
			if stats.Size >= minIntersection {
				folded = append(folded, *stats)
			}
		}
		results[jobId] = folded
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// Map iteration order is random. Sorting by key makes re-runs on identical
	// input yield an identical relation.
	flattened := lo.Flatten(results)
	sort.Slice(flattened, func(i, j int) bool {
		if flattened[i].ItemA != flattened[j].ItemA {
			return flattened[i].ItemA < flattened[j].ItemA
		}
		return flattened[i].ItemB < flattened[j].ItemB
	})
	return flattened, nil
}
