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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"

	"github.com/gorse-io/pairwise/source"
)

func TestPair(t *testing.T) {
	rows := CountRaters([]source.Rating{
		{User: "u1", Item: "B", Score: 4},
		{User: "u1", Item: "A", Score: 5},
		{User: "u1", Item: "C", Score: 3},
		{User: "u2", Item: "A", Score: 3},
		{User: "u2", Item: "B", Score: 3},
		{User: "u3", Item: "C", Score: 1},
	})
	pairs, err := Pair(rows, 4)
	assert.NoError(t, err)
	// u1 contributes 3 pairs, u2 contributes 1, u3 rated a single item
	assert.Len(t, pairs, 4)
	seen := mapset.NewSet[string]()
	for _, p := range pairs {
		// canonical unordered-pair form
		assert.Less(t, p.ItemA, p.ItemB)
		seen.Add(p.ItemA + "\t" + p.ItemB)
	}
	assert.Equal(t, 3, seen.Cardinality())
	assert.True(t, seen.Contains("A\tB"))
	assert.True(t, seen.Contains("A\tC"))
	assert.True(t, seen.Contains("B\tC"))
}

func TestPairDuplicateRows(t *testing.T) {
	// a misbehaving source emitting duplicated (user, item) rows must not
	// produce self-pairs
	rows := CountRaters([]source.Rating{
		{User: "u1", Item: "A", Score: 5},
		{User: "u1", Item: "A", Score: 5},
		{User: "u1", Item: "B", Score: 4},
	})
	pairs, err := Pair(rows, 1)
	assert.NoError(t, err)
	for _, p := range pairs {
		assert.NotEqual(t, p.ItemA, p.ItemB)
	}
}

func TestPairEmpty(t *testing.T) {
	pairs, err := Pair(nil, 4)
	assert.NoError(t, err)
	assert.Empty(t, pairs)
}
