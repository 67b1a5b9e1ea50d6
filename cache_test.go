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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchedResult(pattern string, params map[string]string) Result[string, any] {
	return Result[string, any]{
		Matched: true,
		Pattern: pattern,
		Handler: pattern,
		Params:  params,
	}
}

func TestCacheGetSet(t *testing.T) {
	t.Parallel()

	c := newMatchCache[string, any](10)

	_, found := c.get("/missing")
	assert.False(t, found)

	c.set("/users/1", matchedResult("/users/:id", map[string]string{"id": "1"}))
	res, found := c.get("/users/1")
	require.True(t, found)
	assert.Equal(t, "/users/:id", res.Pattern)
	assert.Equal(t, map[string]string{"id": "1"}, res.Params)
	assert.Equal(t, 1, c.len())
	assert.Equal(t, 10, c.cap())
}

func TestCacheOverwrite(t *testing.T) {
	t.Parallel()

	c := newMatchCache[string, any](10)
	c.set("/a", matchedResult("/a", nil))
	c.set("/a", matchedResult("/a2", nil))

	res, found := c.get("/a")
	require.True(t, found)
	assert.Equal(t, "/a2", res.Pattern)
	assert.Equal(t, 1, c.len())
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := newMatchCache[string, any](2)
	c.set("/a", matchedResult("/a", nil))
	c.set("/b", matchedResult("/b", nil))

	// Touch /a so /b becomes the eviction candidate.
	_, found := c.get("/a")
	require.True(t, found)

	c.set("/c", matchedResult("/c", nil))

	_, found = c.get("/b")
	assert.False(t, found, "/b was least recently used and should be evicted")
	_, found = c.get("/a")
	assert.True(t, found)
	_, found = c.get("/c")
	assert.True(t, found)
	assert.Equal(t, 2, c.len())
}

func TestCacheInvalidate(t *testing.T) {
	t.Parallel()

	c := newMatchCache[string, any](10)
	c.set("/a", matchedResult("/a", nil))
	c.set("/b", matchedResult("/b", nil))

	c.invalidate()
	assert.Equal(t, 0, c.len())

	_, found := c.get("/a")
	assert.False(t, found)

	// The cache stays usable after invalidation.
	c.set("/c", matchedResult("/c", nil))
	_, found = c.get("/c")
	assert.True(t, found)
}

func TestCacheInvalidateKey(t *testing.T) {
	t.Parallel()

	c := newMatchCache[string, any](10)
	c.set("/a", matchedResult("/a", nil))
	c.set("/b", matchedResult("/b", nil))

	c.invalidateKey("/a")
	c.invalidateKey("/missing") // no-op

	_, found := c.get("/a")
	assert.False(t, found)
	_, found = c.get("/b")
	assert.True(t, found)
	assert.Equal(t, 1, c.len())
}

// Cached results must not alias what callers hold: mutations on either side
// of the cache boundary stay invisible to the other.
func TestCacheCopiesResults(t *testing.T) {
	t.Parallel()

	c := newMatchCache[string, any](10)

	stored := matchedResult("/users/:id", map[string]string{"id": "1"})
	c.set("/users/1", stored)

	// Mutating the original after set must not affect the cache.
	stored.Params["id"] = "tampered"

	first, found := c.get("/users/1")
	require.True(t, found)
	assert.Equal(t, "1", first.Params["id"])

	// Mutating a returned copy must not affect later reads.
	first.Params["id"] = "tampered"

	second, found := c.get("/users/1")
	require.True(t, found)
	assert.Equal(t, "1", second.Params["id"])
}

func TestCacheAccessBookkeeping(t *testing.T) {
	t.Parallel()

	c := newMatchCache[string, any](10)
	c.set("/a", matchedResult("/a", nil))

	for i := 0; i < 3; i++ {
		_, found := c.get("/a")
		require.True(t, found)
	}

	entry := c.entries["/a"]
	require.NotNil(t, entry)
	assert.Equal(t, int64(3), entry.accessCount)
	assert.False(t, entry.lastAccessedAt.IsZero())
}
