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

import "maps"

// Entry is one registered route. The handler and metadata payloads are
// opaque to the matcher and typed by the caller.
//
// Entries are owned by the trie: created on AddRoute, discarded on
// RemoveRoute or Clear.
type Entry[H, M any] struct {
	Pattern string // normalized pattern string as registered
	Name    string // reverse-routing name, empty if unnamed
	Handler H
	Meta    M

	segments []Segment
	isStatic bool // no param or wildcard segments; eligible for the compiled table
}

// Result is the outcome of a single Match call. It is constructed fresh per
// lookup; the cache stores and returns copies, so mutating a Result never
// affects subsequent matches.
type Result[H, M any] struct {
	Matched bool
	Pattern string
	Name    string
	Handler H
	Meta    M
	Params  map[string]string
}

// clone deep-copies the result so cached values cannot alias live ones.
func (r Result[H, M]) clone() Result[H, M] {
	out := r
	if r.Params != nil {
		out.Params = maps.Clone(r.Params)
	}
	return out
}

// result builds a Result from a matched entry and the capture values
// collected during traversal. Values arrive in traversal order and
// correspond one-to-one with the entry's non-static segments; with trailing
// optional parameters absent, fewer values than segments is expected.
func (e *Entry[H, M]) result(values []string) Result[H, M] {
	params := make(map[string]string, len(values))
	i := 0
	for _, seg := range e.segments {
		if seg.Kind == SegmentStatic {
			continue
		}
		if i >= len(values) {
			break
		}
		params[seg.Value] = values[i]
		i++
	}
	return Result[H, M]{
		Matched: true,
		Pattern: e.Pattern,
		Name:    e.Name,
		Handler: e.Handler,
		Meta:    e.Meta,
		Params:  params,
	}
}

// notFound is the non-exceptional absence result: unknown paths are a
// routine routing outcome, not an error.
func notFound[H, M any]() Result[H, M] {
	return Result[H, M]{Params: map[string]string{}}
}

// RouteInfo describes a registered route for introspection.
type RouteInfo struct {
	Pattern string
	Name    string
}
