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

import "fmt"

// Option configures a Matcher. Options are applied by New in order;
// validation errors are collected and surfaced from New.
type Option func(*config)

// config is deliberately free of the matcher's type parameters so options
// compose without explicit instantiation at call sites.
type config struct {
	cacheEnabled   bool
	cacheSize      int
	cacheNotFound  bool
	statsEnabled   bool
	compileEnabled bool
	bloomSize      uint64
	bloomHashes    int
	recorder       MatchRecorder
	validationErrs []error
}

func defaultConfig() config {
	return config{
		cacheEnabled:   true,
		cacheSize:      1000,
		compileEnabled: true,
		bloomSize:      1000,
		bloomHashes:    3,
	}
}

func (c *config) validate() error {
	if len(c.validationErrs) > 0 {
		return fmt.Errorf("invalid configuration: %v", c.validationErrs)
	}
	return nil
}

// WithCacheSize sets the match cache capacity in entries.
//
// Default: 1000. Must be positive.
//
// Example:
//
//	m := matcher.MustNew[Handler, Meta](matcher.WithCacheSize(4096))
func WithCacheSize(size int) Option {
	return func(c *config) {
		if size <= 0 {
			c.validationErrs = append(c.validationErrs, fmt.Errorf("%w: %d", ErrCacheSizeInvalid, size))
			return
		}
		c.cacheSize = size
	}
}

// WithoutCache disables the match cache entirely. Every Match call then
// walks the compiled table and trie.
//
// Use when route churn is so frequent that invalidation would defeat the
// cache anyway, or to rule the cache out while debugging.
func WithoutCache() Option {
	return func(c *config) {
		c.cacheEnabled = false
	}
}

// WithNegativeCaching also caches not-found results. Off by default:
// unmatched paths are often unbounded in variety (typo traffic) and can
// churn the cache. Enable when the same unknown paths repeat, e.g. a SPA
// rendering a 404 view on a stable set of dead links.
func WithNegativeCaching() Option {
	return func(c *config) {
		c.cacheNotFound = true
	}
}

// WithStats enables match statistics collection. Disabled by default since
// the miss path is timed per call.
//
// Example:
//
//	m := matcher.MustNew[Handler, Meta](matcher.WithStats())
//	...
//	fmt.Println(m.Stats().AvgMatchTime)
func WithStats() Option {
	return func(c *config) {
		c.statsEnabled = true
	}
}

// WithRecorder attaches a MatchRecorder that receives an event per Match
// call. See the metrics subpackage for an OpenTelemetry-backed recorder.
func WithRecorder(r MatchRecorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithBloomFilterSize sets the bloom filter size (in bits) for the compiled
// static-route table. Larger sizes reduce false positives.
//
// Default: 1000. Recommended: 2-3x the number of static routes.
// Must be > 0 or validation will fail.
func WithBloomFilterSize(size uint64) Option {
	return func(c *config) {
		if size == 0 {
			c.validationErrs = append(c.validationErrs, ErrBloomFilterSizeZero)
			return
		}
		c.bloomSize = size
	}
}

// WithBloomFilterHashFunctions sets the number of hash functions used by
// the compiled table's bloom filter. More hash functions reduce false
// positives.
//
// Default: 3. Values are clamped to [1, 10].
func WithBloomFilterHashFunctions(numFuncs int) Option {
	return func(c *config) {
		if numFuncs <= 0 {
			c.validationErrs = append(c.validationErrs, ErrBloomHashFunctionsInvalid)
			return
		}
		c.bloomHashes = min(numFuncs, 10)
	}
}

// WithoutCompilation disables the compiled static-route table. All lookups
// then go through the cache (if enabled) and the trie.
func WithoutCompilation() Option {
	return func(c *config) {
		c.compileEnabled = false
	}
}
