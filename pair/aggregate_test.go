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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorse-io/pairwise/source"
)

var scenarioRatings = []source.Rating{
	{User: "u1", Item: "A", Score: 5},
	{User: "u1", Item: "B", Score: 4},
	{User: "u2", Item: "A", Score: 3},
	{User: "u2", Item: "B", Score: 3},
	{User: "u3", Item: "A", Score: 5},
	{User: "u3", Item: "B", Score: 5},
}

func scenarioPairs(t *testing.T) []CoRatedPair {
	t.Helper()
	pairs, err := Pair(CountRaters(scenarioRatings), 2)
	assert.NoError(t, err)
	return pairs
}

func TestAggregate(t *testing.T) {
	for _, nJobs := range []int{1, 4} {
		stats, err := Aggregate(scenarioPairs(t), 1, nJobs)
		assert.NoError(t, err)
		assert.Len(t, stats, 1)
		assert.Equal(t, "A", stats[0].ItemA)
		assert.Equal(t, "B", stats[0].ItemB)
		assert.Equal(t, 3, stats[0].Size)
		assert.Equal(t, float32(54), stats[0].DotProduct)
		assert.Equal(t, float32(13), stats[0].SumA)
		assert.Equal(t, float32(12), stats[0].SumB)
		assert.Equal(t, float32(59), stats[0].SumSqA)
		assert.Equal(t, float32(50), stats[0].SumSqB)
		assert.Equal(t, 3, stats[0].NumRatersA)
		assert.Equal(t, 3, stats[0].NumRatersB)
	}
}

func TestAggregateSizeInvariant(t *testing.T) {
	ratings := append([]source.Rating{
		{User: "u4", Item: "A", Score: 2},
		{User: "u4", Item: "C", Score: 4},
		{User: "u5", Item: "C", Score: 1},
	}, scenarioRatings...)
	pairs, err := Pair(CountRaters(ratings), 2)
	assert.NoError(t, err)
	stats, err := Aggregate(pairs, 1, 4)
	assert.NoError(t, err)
	for _, s := range stats {
		assert.LessOrEqual(t, s.Size, s.NumRatersA)
		assert.LessOrEqual(t, s.Size, s.NumRatersB)
	}
}

func TestAggregateMinIntersection(t *testing.T) {
	// (A, C) has a single co-rater and must be suppressed
	ratings := append([]source.Rating{
		{User: "u1", Item: "C", Score: 2},
		{User: "u4", Item: "C", Score: 4},
	}, scenarioRatings...)
	pairs, err := Pair(CountRaters(ratings), 2)
	assert.NoError(t, err)
	stats, err := Aggregate(pairs, 2, 4)
	assert.NoError(t, err)
	assert.Len(t, stats, 1)
	assert.Equal(t, "A", stats[0].ItemA)
	assert.Equal(t, "B", stats[0].ItemB)
}

func TestAggregateDisjointRaters(t *testing.T) {
	// items with disjoint raters never form a group
	ratings := []source.Rating{
		{User: "u1", Item: "A", Score: 5},
		{User: "u2", Item: "B", Score: 3},
	}
	pairs, err := Pair(CountRaters(ratings), 2)
	assert.NoError(t, err)
	stats, err := Aggregate(pairs, 1, 4)
	assert.NoError(t, err)
	assert.Empty(t, stats)
}
