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
	"sort"

	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/gorse-io/pairwise/base/parallel"
)

// CoRatedPair is one user's ratings for a pair of items, with the invariant
// ItemA < ItemB so each unordered pair appears exactly once per user.
type CoRatedPair struct {
	ItemA      string
	ItemB      string
	ScoreA     float32
	ScoreB     float32
	NumRatersA int
	NumRatersB int
}

// Pair enumerates, for every user, all pairs of items the user rated. Sorting
// each user's items and emitting only (i, j) with i < j keeps one row per
// unordered pair and removes self-pairs. A user who rated a single item
// contributes nothing. Workers handle disjoint user partitions, which bounds
// the memory of the quadratic expansion per partition.
func Pair(rows []RatedRating, nJobs int) ([]CoRatedPair, error) {
	byUser := lo.GroupBy(rows, func(row RatedRating) string {
		return row.User
	})
	users := lo.Keys(byUser)
	if len(users) == 0 {
		return nil, nil
	}
	// Stable user order keeps the fold order of downstream float sums fixed,
	// so re-runs produce bit-identical statistics.
	sort.Strings(users)
	partitions := parallel.Split(users, nJobs)
	results := make([][]CoRatedPair, len(partitions))
	err := parallel.Parallel(len(partitions), nJobs, func(_, jobId int) error {
		pairs := make([]CoRatedPair, 0)
		for _, user := range partitions[jobId] {
			ratings := byUser[user]
			sort.Slice(ratings, func(i, j int) bool {
				return ratings[i].Item < ratings[j].Item
			})
			for i := range ratings {
				for j := i + 1; j < len(ratings); j++ {
					if ratings[i].Item == ratings[j].Item {
						// duplicated (user, item) row from a misbehaving source
						continue
					}
					pairs = append(pairs, CoRatedPair{
						ItemA:      ratings[i].Item,
						ItemB:      ratings[j].Item,
						ScoreA:     ratings[i].Score,
						ScoreB:     ratings[j].Score,
						NumRatersA: ratings[i].NumRaters,
						NumRatersB: ratings[j].NumRaters,
					})
				}
			}
		}
		results[jobId] = pairs
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lo.Flatten(results), nil
}
