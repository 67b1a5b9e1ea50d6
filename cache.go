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
	"container/list"
	"time"
)

// cacheEntry is one cached match result keyed by normalized path.
type cacheEntry[H, M any] struct {
	key            string
	result         Result[H, M]
	element        *list.Element
	lastAccessedAt time.Time
	accessCount    int64
}

// matchCache is a fixed-capacity LRU over match results. The recency list's
// front is the most recently used entry; eviction takes the back, which by
// construction is the entry with the oldest lastAccessedAt.
//
// Results are copied on the way in and on the way out, so neither the
// caller nor the trie ever shares a mutable reference with a cached value.
// Like the rest of the core, the cache carries no internal locking; the
// owning Matcher's caller serializes access.
type matchCache[H, M any] struct {
	entries  map[string]*cacheEntry[H, M]
	order    *list.List
	capacity int
}

func newMatchCache[H, M any](capacity int) *matchCache[H, M] {
	return &matchCache[H, M]{
		entries:  make(map[string]*cacheEntry[H, M], capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

// get returns a copy of the cached result for key, promoting the entry to
// most recently used and updating its access bookkeeping.
func (c *matchCache[H, M]) get(key string) (Result[H, M], bool) {
	entry, found := c.entries[key]
	if !found {
		var zero Result[H, M]
		return zero, false
	}
	c.order.MoveToFront(entry.element)
	entry.lastAccessedAt = time.Now()
	entry.accessCount++
	return entry.result.clone(), true
}

// set stores a copy of the result under key, overwriting any existing entry
// and evicting the least recently used one when at capacity.
func (c *matchCache[H, M]) set(key string, result Result[H, M]) {
	if entry, found := c.entries[key]; found {
		entry.result = result.clone()
		entry.lastAccessedAt = time.Now()
		c.order.MoveToFront(entry.element)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evict()
	}

	entry := &cacheEntry[H, M]{
		key:            key,
		result:         result.clone(),
		lastAccessedAt: time.Now(),
	}
	entry.element = c.order.PushFront(entry)
	c.entries[key] = entry
}

func (c *matchCache[H, M]) evict() {
	back := c.order.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*cacheEntry[H, M])
	delete(c.entries, entry.key)
	c.order.Remove(back)
}

// invalidate clears the whole cache. Called whenever the route set changes:
// a single added or removed route can flip the outcome of arbitrarily many
// cached paths, including previously cached not-found results.
func (c *matchCache[H, M]) invalidate() {
	c.entries = make(map[string]*cacheEntry[H, M], c.capacity)
	c.order.Init()
}

// invalidateKey removes a single entry, if present.
func (c *matchCache[H, M]) invalidateKey(key string) {
	entry, found := c.entries[key]
	if !found {
		return
	}
	delete(c.entries, key)
	c.order.Remove(entry.element)
}

func (c *matchCache[H, M]) len() int { return c.order.Len() }

func (c *matchCache[H, M]) cap() int { return c.capacity }
