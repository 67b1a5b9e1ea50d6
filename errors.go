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

import "errors"

var (
	// ErrInvalidPattern indicates a malformed route pattern: a wildcard not in
	// final position, an empty parameter name, or an optional parameter
	// followed by a required segment. Raised at registration time, never
	// during matching.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrDuplicatePattern indicates that an identical pattern is already
	// registered. Remove the existing route first for replace semantics.
	ErrDuplicatePattern = errors.New("pattern already registered")

	// ErrDuplicateRouteName indicates that the route name is already taken.
	ErrDuplicateRouteName = errors.New("route name already registered")

	// ErrRouteNotFound indicates that no route is registered under the given name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMissingParam indicates that GeneratePath was called without a value
	// for a required dynamic segment.
	ErrMissingParam = errors.New("missing required parameter")

	// ErrCacheSizeInvalid indicates that the cache capacity must be positive.
	ErrCacheSizeInvalid = errors.New("cache size must be positive")

	// ErrBloomFilterSizeZero indicates that the bloom filter size must be non-zero.
	ErrBloomFilterSizeZero = errors.New("bloom filter size must be non-zero")

	// ErrBloomHashFunctionsInvalid indicates that the number of bloom hash
	// functions must be positive.
	ErrBloomHashFunctionsInvalid = errors.New("bloom hash functions must be positive")
)
