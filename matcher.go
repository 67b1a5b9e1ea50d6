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
	"time"
)

// Matcher is the public entry point: a route trie, an optional LRU match
// cache, an optional compiled static-route table, and match statistics,
// owned together so the cache invalidation contract holds.
//
// H is the handler payload type and M the metadata payload type; both are
// opaque to the matcher.
//
// The trie and cache are mutable with no internal locking. A single Matcher
// serves one logical navigation flow; callers spanning multiple threads of
// control must serialize AddRoute/RemoveRoute/Match externally. Stats() may
// be read concurrently.
type Matcher[H, M any] struct {
	cfg      config
	tree     *trie[H, M]
	cache    *matchCache[H, M]  // nil when disabled
	static   *staticTable[H, M] // nil when compilation disabled
	stats    *statCounters      // nil when disabled
	recorder MatchRecorder
}

// New creates a Matcher with the given options. Returns an error when an
// option is invalid. For a version that panics on error, use [MustNew].
func New[H, M any](opts ...Option) (*Matcher[H, M], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Matcher[H, M]{
		cfg:      cfg,
		tree:     newTrie[H, M](),
		recorder: cfg.recorder,
	}
	if cfg.cacheEnabled {
		m.cache = newMatchCache[H, M](cfg.cacheSize)
	}
	if cfg.compileEnabled {
		m.static = newStaticTable[H, M](cfg.bloomSize, cfg.bloomHashes)
	}
	if cfg.statsEnabled {
		m.stats = newStatCounters()
	}
	return m, nil
}

// MustNew creates a Matcher and panics on invalid options. Configuration
// errors belong to application boot, where failing loud is the point.
func MustNew[H, M any](opts ...Option) *Matcher[H, M] {
	m, err := New[H, M](opts...)
	if err != nil {
		panic(fmt.Sprintf("matcher: %v", err))
	}
	return m
}

// Route is a fluent handle over a registered route, used to attach a
// reverse-routing name and metadata after AddRoute.
type Route[H, M any] struct {
	m     *Matcher[H, M]
	entry *Entry[H, M]
}

// SetName assigns a globally unique name to the route for reverse routing
// and removal-by-name. Panics if the name is already taken; duplicate names
// are a configuration bug best caught at boot. Returns the route for
// chaining.
//
// Example:
//
//	m.MustAddRoute("/user/:id", showUser).SetName("user")
func (r *Route[H, M]) SetName(name string) *Route[H, M] {
	if err := r.m.tree.registerName(name, r.entry); err != nil {
		panic(err.Error())
	}
	r.m.invalidate()
	return r
}

// SetMeta attaches metadata to the route. Returns the route for chaining.
func (r *Route[H, M]) SetMeta(meta M) *Route[H, M] {
	r.entry.Meta = meta
	r.m.invalidate()
	return r
}

// Pattern returns the canonical pattern the route was registered under.
func (r *Route[H, M]) Pattern() string {
	return r.entry.Pattern
}

// Name returns the route name (empty if unnamed).
func (r *Route[H, M]) Name() string {
	return r.entry.Name
}

// AddRoute registers a pattern with its handler and returns a fluent handle
// for naming and metadata. Malformed patterns fail here, never later:
// returns an error wrapping [ErrInvalidPattern] for bad grammar and
// [ErrDuplicatePattern] when the identical pattern is already registered
// (remove it first for replace semantics).
func (m *Matcher[H, M]) AddRoute(pattern string, handler H) (*Route[H, M], error) {
	segments, err := ParseSegments(pattern)
	if err != nil {
		return nil, err
	}

	entry := &Entry[H, M]{
		Pattern:  canonicalPattern(segments),
		Handler:  handler,
		segments: segments,
		isStatic: isStaticPattern(segments),
	}
	if err := m.tree.insert(entry); err != nil {
		return nil, err
	}
	if m.static != nil && entry.isStatic {
		m.static.add(entry.Pattern, entry)
	}
	m.invalidate()
	return &Route[H, M]{m: m, entry: entry}, nil
}

// MustAddRoute is AddRoute panicking on error, for static route tables
// wired up at boot.
func (m *Matcher[H, M]) MustAddRoute(pattern string, handler H) *Route[H, M] {
	r, err := m.AddRoute(pattern, handler)
	if err != nil {
		panic(fmt.Sprintf("matcher: %v", err))
	}
	return r
}

// RemoveRoute removes a route by its pattern or, failing that, by its name.
// Nodes left empty are pruned so churn does not grow the tree. Returns
// whether anything was removed.
func (m *Matcher[H, M]) RemoveRoute(patternOrName string) bool {
	entry := m.lookupForRemoval(patternOrName)
	if entry == nil {
		return false
	}
	if !m.tree.removeEntry(entry) {
		return false
	}
	if m.static != nil && entry.isStatic {
		m.static.remove(entry.Pattern)
	}
	m.invalidate()
	return true
}

func (m *Matcher[H, M]) lookupForRemoval(patternOrName string) *Entry[H, M] {
	if segments, err := ParseSegments(patternOrName); err == nil {
		if e := m.tree.byPattern[canonicalPattern(segments)]; e != nil {
			return e
		}
	}
	return m.tree.findByName(patternOrName)
}

// Match resolves a path to a registered route. Absence is a normal outcome
// reported as Matched == false; Match never fails.
//
// The path is normalized like patterns are, so "/home", "home", "/home/"
// and "//home//" are the same lookup. The cache is probed first; on a miss
// the compiled static table and then the trie resolve the path, and the
// result is cached (not-found results only under WithNegativeCaching).
func (m *Matcher[H, M]) Match(path string) Result[H, M] {
	key := normalizePath(path)

	if m.cache != nil {
		if res, ok := m.cache.get(key); ok {
			if m.stats != nil {
				m.stats.recordHit()
			}
			if m.recorder != nil {
				m.recorder.OnMatch(MatchEvent{Path: key, Pattern: res.Pattern, Matched: res.Matched, CacheHit: true})
			}
			return res
		}
	}

	var start time.Time
	timed := m.stats != nil || m.recorder != nil
	if timed {
		start = time.Now()
	}

	res := m.resolve(key)

	var elapsed time.Duration
	if timed {
		elapsed = time.Since(start)
	}
	if m.stats != nil {
		m.stats.recordMiss(elapsed)
	}
	if m.cache != nil && (res.Matched || m.cfg.cacheNotFound) {
		m.cache.set(key, res)
	}
	if m.recorder != nil {
		m.recorder.OnMatch(MatchEvent{Path: key, Pattern: res.Pattern, Matched: res.Matched, Duration: elapsed})
	}
	return res
}

// resolve performs the uncached lookup: compiled static table, then trie.
func (m *Matcher[H, M]) resolve(key string) Result[H, M] {
	if m.static != nil {
		if e := m.static.lookup(key); e != nil {
			return e.result(nil)
		}
	}
	if e, values, ok := m.tree.lookup(key); ok {
		return e.result(values)
	}
	return notFound[H, M]()
}

// invalidate clears the entire match cache. Route table mutation is rare
// next to matching, and a single change can flip the specificity outcome
// of arbitrarily many paths, so selective invalidation is not attempted.
func (m *Matcher[H, M]) invalidate() {
	if m.cache != nil {
		m.cache.invalidate()
	}
}

// Stats returns a snapshot of match statistics. Zero unless the matcher
// was built with [WithStats].
func (m *Matcher[H, M]) Stats() Stats {
	if m.stats == nil {
		return Stats{}
	}
	return m.stats.snapshot()
}

// TreeStats reports the route tree's shape: node counts by kind, maximum
// depth, and route count.
func (m *Matcher[H, M]) TreeStats() TreeStats {
	return m.tree.stats()
}

// Routes returns the registered routes in registration order.
func (m *Matcher[H, M]) Routes() []RouteInfo {
	return m.tree.routes()
}

// RouteCount returns the number of registered routes.
func (m *Matcher[H, M]) RouteCount() int {
	return m.tree.len()
}

// CacheLen returns the number of cached match results (0 when the cache is
// disabled).
func (m *Matcher[H, M]) CacheLen() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.len()
}

// Clear removes every route, resets the compiled table, and invalidates
// the cache. Statistics are preserved.
func (m *Matcher[H, M]) Clear() {
	m.tree.clear()
	if m.static != nil {
		m.static.clear()
	}
	m.invalidate()
}

// isStaticPattern reports whether every segment is a literal.
func isStaticPattern(segments []Segment) bool {
	for _, seg := range segments {
		if seg.Kind != SegmentStatic {
			return false
		}
	}
	return true
}
