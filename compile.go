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

import "rivaas.dev/matcher/compiler"

// smallTableThreshold is the route count below which the bloom filter is
// skipped and the table map is probed directly.
const smallTableThreshold = 10

// staticTable is the compiled fast path for purely static patterns: a
// full-path FNV-64a hash map fronted by a bloom filter for negative
// lookups. Paths that the filter rejects cannot be static routes and
// fall through to the trie immediately.
//
// Entries removed from the table are not removed from the filter (bloom
// filters cannot unset bits safely); the resulting false positives only
// cost a map probe, never a wrong answer.
type staticTable[H, M any] struct {
	routes map[uint64]*Entry[H, M]
	bloom  *compiler.BloomFilter
}

func newStaticTable[H, M any](bloomSize uint64, bloomHashes int) *staticTable[H, M] {
	return &staticTable[H, M]{
		routes: make(map[uint64]*Entry[H, M], 16),
		bloom:  compiler.NewBloomFilter(max(bloomSize, 100), bloomHashes),
	}
}

// add compiles a static entry under its normalized path.
func (t *staticTable[H, M]) add(path string, e *Entry[H, M]) {
	h := compiler.Hash([]byte(path))
	t.routes[h] = e
	t.bloom.AddHash(h)
}

// remove drops the entry compiled under path.
func (t *staticTable[H, M]) remove(path string) {
	delete(t.routes, compiler.Hash([]byte(path)))
}

// lookup returns the static entry registered under path, or nil. Hash
// collisions are guarded by comparing the stored pattern against the path;
// for static patterns the canonical pattern and the normalized path
// coincide.
func (t *staticTable[H, M]) lookup(path string) *Entry[H, M] {
	h := compiler.Hash([]byte(path))

	if len(t.routes) >= smallTableThreshold && !t.bloom.TestHash(h) {
		return nil
	}

	e, exists := t.routes[h]
	if !exists || e.Pattern != path {
		return nil
	}
	return e
}

// clear resets the table and filter.
func (t *staticTable[H, M]) clear() {
	t.routes = make(map[uint64]*Entry[H, M], 16)
	t.bloom.Reset()
}
