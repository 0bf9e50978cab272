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

// Package source loads (user, item, rating) relations from external origins.
// Sources drop malformed rows instead of failing the batch.
package source

import "context"

// Rating is a single (user, item, rating) row.
type Rating struct {
	User  string
	Item  string
	Score float32
}

// Source produces a uniform rating relation from one origin. Implementations
// guarantee at most one row per (user, item) for implicit signals.
type Source interface {
	Produce(ctx context.Context) ([]Rating, error)
}
