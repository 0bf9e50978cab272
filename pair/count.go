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

// Package pair computes pairwise item similarities from a sparse user-item
// rating relation. Stages are pure transformations: count raters, enumerate
// co-rated pairs, fold sufficient statistics, score.
package pair

import (
	"github.com/samber/lo"

	"github.com/gorse-io/pairwise/source"
)

// RatedRating is a rating row joined with its item's rater count.
type RatedRating struct {
	source.Rating
	NumRaters int
}

// CountRaters counts the users who rated each item and joins the count back
// onto every rating row. Sources emit one row per (user, item), so the row
// count per item equals the distinct rater count. Every output row has
// NumRaters >= 1 since items without ratings have no rows.
func CountRaters(ratings []source.Rating) []RatedRating {
	numRaters := make(map[string]int)
	for _, rating := range ratings {
		numRaters[rating.Item]++
	}
	rows := make([]RatedRating, 0, len(ratings))
	for _, rating := range ratings {
		rows = append(rows, RatedRating{Rating: rating, NumRaters: numRaters[rating.Item]})
	}
	return rows
}

// FilterByRaters drops rows whose item has fewer than min raters or, when max
// is positive, more than max raters. Applied before pairing, the upper bound
// caps the quadratic fan-out of items rated by very many users.
func FilterByRaters(rows []RatedRating, min, max int) []RatedRating {
	return lo.Filter(rows, func(row RatedRating, _ int) bool {
		if row.NumRaters < min {
			return false
		}
		if max > 0 && row.NumRaters > max {
			return false
		}
		return true
	})
}
