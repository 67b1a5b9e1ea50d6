// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticEntry(pattern string) *Entry[string, any] {
	segments, err := ParseSegments(pattern)
	if err != nil {
		panic(err)
	}
	return &Entry[string, any]{
		Pattern:  canonicalPattern(segments),
		Handler:  pattern,
		segments: segments,
		isStatic: true,
	}
}

func TestStaticTableLookup(t *testing.T) {
	t.Parallel()

	table := newStaticTable[string, any](1000, 3)
	table.add("/", staticEntry("/"))
	table.add("/users", staticEntry("/users"))
	table.add("/users/profile", staticEntry("/users/profile"))

	e := table.lookup("/users")
	require.NotNil(t, e)
	assert.Equal(t, "/users", e.Pattern)

	assert.NotNil(t, table.lookup("/"))
	assert.Nil(t, table.lookup("/unknown"))
	assert.Nil(t, table.lookup("/users/unknown"))
}

func TestStaticTableRemove(t *testing.T) {
	t.Parallel()

	table := newStaticTable[string, any](1000, 3)
	table.add("/users", staticEntry("/users"))
	table.add("/posts", staticEntry("/posts"))

	table.remove("/users")
	assert.Nil(t, table.lookup("/users"))
	assert.NotNil(t, table.lookup("/posts"))
}

// Above the small-table threshold lookups go through the bloom filter; a
// removed route leaves its filter bits set but must still miss the table.
func TestStaticTableRemoveAboveThreshold(t *testing.T) {
	t.Parallel()

	table := newStaticTable[string, any](1000, 3)
	for i := 0; i < smallTableThreshold+5; i++ {
		path := fmt.Sprintf("/route%d", i)
		table.add(path, staticEntry(path))
	}
	require.Greater(t, len(table.routes), smallTableThreshold)

	table.remove("/route0")
	assert.Nil(t, table.lookup("/route0"))
	assert.NotNil(t, table.lookup("/route1"))
}

func TestStaticTableClear(t *testing.T) {
	t.Parallel()

	table := newStaticTable[string, any](1000, 3)
	table.add("/users", staticEntry("/users"))

	table.clear()
	assert.Nil(t, table.lookup("/users"))

	table.add("/posts", staticEntry("/posts"))
	assert.NotNil(t, table.lookup("/posts"))
}

func TestStaticTableMinimumBloomSize(t *testing.T) {
	t.Parallel()

	// Tiny configured sizes are clamped rather than producing a degenerate
	// filter.
	table := newStaticTable[string, any](1, 3)
	table.add("/users", staticEntry("/users"))
	assert.NotNil(t, table.lookup("/users"))
}
