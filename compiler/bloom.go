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

// Package compiler provides the probabilistic building blocks for the
// matcher's compiled static-route table.
package compiler

import "hash/fnv"

// BloomFilter is a bloom filter used for negative lookups: "definitely not
// in the set" answers are exact, "possibly in the set" answers may be false
// positives and must be confirmed against the real table.
//
// Hash functions are derived from a single FNV-1a base hash XORed with
// per-function seeds, so membership tests hash the input once.
type BloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

// NewBloomFilter creates a bloom filter with size bits and numHashFuncs
// derived hash functions.
func NewBloomFilter(size uint64, numHashFuncs int) *BloomFilter {
	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := 0; i < numHashFuncs; i++ {
		bf.seeds[i] = uint64(i + 1)
	}
	return bf
}

// Hash returns the FNV-1a base hash of data, shared between the filter and
// the table keyed by the same value.
func Hash(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

func (bf *BloomFilter) position(baseHash, seed uint64) uint64 {
	return (baseHash ^ seed) % bf.size
}

// Add records an element in the filter.
func (bf *BloomFilter) Add(data []byte) {
	bf.AddHash(Hash(data))
}

// AddHash records an element by its precomputed base hash.
func (bf *BloomFilter) AddHash(baseHash uint64) {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test reports whether the element might be in the set. A false return is
// definitive.
func (bf *BloomFilter) Test(data []byte) bool {
	return bf.TestHash(Hash(data))
}

// TestHash is Test with a precomputed base hash. Exits on the first unset
// bit, the common case for unknown paths.
func (bf *BloomFilter) TestHash(baseHash uint64) bool {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// Reset clears every bit, keeping the configured size and hash functions.
func (bf *BloomFilter) Reset() {
	clear(bf.bits)
}
