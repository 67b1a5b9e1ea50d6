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

// Package matcher provides a framework-agnostic route matching engine:
// a segment trie with deterministic specificity, an LRU match cache, and
// reverse path generation from named routes.
//
// The matcher owns no rendering, navigation, or transport concerns. A host
// layer feeds it route definitions at registration time and asks it to
// resolve paths on every navigation; the answer is an opaque handler
// payload plus extracted parameters.
//
// # Key Features
//
//   - Static, dynamic (:name, {name}), optional (:name?), and wildcard
//     (*, {...name}) pattern segments
//   - Static > dynamic > wildcard specificity with full-path backtracking
//   - Reverse path generation from named routes
//   - LRU match cache with whole-cache invalidation on route changes
//   - Compiled static-route table with bloom-filtered negative lookups
//   - Match statistics and a pluggable observability recorder
//
// # Matching Details
//
// Patterns and lookup paths share one normalization: duplicate, leading,
// and trailing separators collapse, so "/home", "home/" and "//home//"
// are the same path. Unknown paths are a routine outcome reported as
// Result.Matched == false, never an error; malformed patterns fail loudly
// at AddRoute time instead.
//
// # Quick Start
//
//	type View func() string
//
//	m := matcher.MustNew[View, any]()
//	m.MustAddRoute("/", homeView).SetName("home")
//	m.MustAddRoute("/user/:id", userView).SetName("user")
//	m.MustAddRoute("/files/*", filesView)
//
//	res := m.Match("/user/123")
//	if res.Matched {
//	    render(res.Handler, res.Params) // {"id": "123"}
//	}
//
//	href, _ := m.GeneratePath("user", map[string]string{"id": "123"})
//	// "/user/123"
//
// # Concurrency
//
// A Matcher is a per-flow, low-latency data structure with no internal
// locking: a navigation flow is serialized by nature, and independent
// Matcher instances share no state. Callers spanning multiple threads of
// control must serialize reads and writes externally; only Stats() is safe
// to read concurrently with matches.
package matcher
