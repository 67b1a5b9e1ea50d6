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

package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBloomFilterAddAndTest(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(1000, 3)

	paths := []string{"/", "/users", "/users/profile", "/api/v1/health"}
	for _, p := range paths {
		bf.Add([]byte(p))
	}

	// No false negatives, ever.
	for _, p := range paths {
		assert.True(t, bf.Test([]byte(p)), "added path %s must test positive", p)
	}
}

func TestBloomFilterNegatives(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(10000, 3)
	for i := 0; i < 50; i++ {
		bf.Add(fmt.Appendf(nil, "/route/%d", i))
	}

	// With 50 entries in 10k bits the false positive rate is tiny; a run of
	// unknown paths should produce at least one definitive negative.
	negatives := 0
	for i := 0; i < 100; i++ {
		if !bf.Test(fmt.Appendf(nil, "/unknown/%d", i)) {
			negatives++
		}
	}
	assert.Greater(t, negatives, 90)
}

func TestBloomFilterHashConsistency(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(1000, 4)
	h := Hash([]byte("/users/42"))

	assert.False(t, bf.TestHash(h))
	bf.AddHash(h)
	assert.True(t, bf.TestHash(h))
	assert.True(t, bf.Test([]byte("/users/42")), "Add/Test and AddHash/TestHash agree")
}

func TestBloomFilterReset(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(1000, 3)
	bf.Add([]byte("/users"))
	assert.True(t, bf.Test([]byte("/users")))

	bf.Reset()
	assert.False(t, bf.Test([]byte("/users")))

	// Reusable after reset.
	bf.Add([]byte("/posts"))
	assert.True(t, bf.Test([]byte("/posts")))
}

func TestHashDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Hash([]byte("/users")), Hash([]byte("/users")))
	assert.NotEqual(t, Hash([]byte("/users")), Hash([]byte("/posts")))
}
