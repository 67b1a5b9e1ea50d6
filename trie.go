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
	"slices"
	"strings"
)

// trieEdge is a per-segment static child. Children are kept in a slice and
// scanned linearly: route tables have few siblings per node and the scan
// avoids map hashing on the hot path.
type trieEdge[H, M any] struct {
	label string
	node  *trieNode[H, M]
}

// trieNode represents one path component position. A node holds the entries
// terminating at its depth plus three kinds of continuation: static edges,
// at most one parameter child, and at most one wildcard child.
//
// Match precedence at every node is static > param > wildcard. When a static
// branch exists but fails to complete the remaining path, the lookup
// backtracks and retries the param branch before giving up.
type trieNode[H, M any] struct {
	edges    []trieEdge[H, M]
	param    *paramChild[H, M]
	wildcard *trieNode[H, M]
	entries  []*Entry[H, M] // first registered wins on structural collisions
}

// paramChild captures one dynamic segment. A node has at most one parameter
// continuation; differently named parameters at the same position share it,
// keeping the first registered name for the tree position while each entry
// reports captures under its own names.
type paramChild[H, M any] struct {
	name string
	node *trieNode[H, M]
}

// findChild returns the static child for the given segment, or nil.
func (n *trieNode[H, M]) findChild(segment string) *trieNode[H, M] {
	for i := range n.edges {
		if n.edges[i].label == segment {
			return n.edges[i].node
		}
	}
	return nil
}

// findOrCreateChild returns the static child for the given segment, creating it if needed.
func (n *trieNode[H, M]) findOrCreateChild(segment string) *trieNode[H, M] {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &trieNode[H, M]{}
	n.edges = append(n.edges, trieEdge[H, M]{label: segment, node: child})
	return child
}

// empty reports whether the node holds no entries and no continuations.
func (n *trieNode[H, M]) empty() bool {
	return len(n.entries) == 0 && len(n.edges) == 0 && n.param == nil && n.wildcard == nil
}

func (n *trieNode[H, M]) removeEntry(e *Entry[H, M]) {
	n.entries = slices.DeleteFunc(n.entries, func(x *Entry[H, M]) bool { return x == e })
}

// trie is the route tree plus the pattern and name indexes maintained
// alongside it. It provides no internal locking; callers serialize access.
type trie[H, M any] struct {
	root      *trieNode[H, M]
	byPattern map[string]*Entry[H, M]
	byName    map[string]*Entry[H, M]
	ordered   []*Entry[H, M] // registration order, for introspection
}

func newTrie[H, M any]() *trie[H, M] {
	return &trie[H, M]{
		root:      &trieNode[H, M]{},
		byPattern: make(map[string]*Entry[H, M]),
		byName:    make(map[string]*Entry[H, M]),
	}
}

// canonicalPattern rebuilds the normalized pattern string from parsed
// segments. Equivalent spellings (brace aliases, redundant separators)
// share one canonical form, which is the key for duplicate detection
// and removal.
func canonicalPattern(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		switch seg.Kind {
		case SegmentStatic:
			b.WriteString(seg.Value)
		case SegmentParam:
			b.WriteByte(':')
			b.WriteString(seg.Value)
			if seg.Optional {
				b.WriteByte('?')
			}
		case SegmentWildcard:
			if seg.Value == DefaultWildcardParam {
				b.WriteByte('*')
			} else {
				b.WriteString("{...")
				b.WriteString(seg.Value)
				b.WriteByte('}')
			}
		}
	}
	return b.String()
}

// walk follows the entry's segments from the root, creating nodes when
// create is set. It returns the node at every depth, nodes[0] being the
// root, or nil when a node is missing and create is unset.
func (t *trie[H, M]) walk(segments []Segment, create bool) []*trieNode[H, M] {
	nodes := make([]*trieNode[H, M], 0, len(segments)+1)
	cur := t.root
	nodes = append(nodes, cur)

	for _, seg := range segments {
		switch seg.Kind {
		case SegmentStatic:
			if create {
				cur = cur.findOrCreateChild(seg.Value)
			} else {
				cur = cur.findChild(seg.Value)
			}
		case SegmentParam:
			if cur.param == nil {
				if !create {
					return nil
				}
				cur.param = &paramChild[H, M]{name: seg.Value, node: &trieNode[H, M]{}}
			}
			cur = cur.param.node
		case SegmentWildcard:
			if cur.wildcard == nil {
				if !create {
					return nil
				}
				cur.wildcard = &trieNode[H, M]{}
			}
			cur = cur.wildcard
		}
		if cur == nil {
			return nil
		}
		nodes = append(nodes, cur)
	}
	return nodes
}

// attachDepths returns the node depths an entry terminates at. With a
// trailing run of optional parameters the entry is reachable at every
// prefix length in that run; otherwise only at full depth.
func attachDepths(segments []Segment) (first, last int) {
	first = len(segments)
	for i, seg := range segments {
		if seg.Kind == SegmentParam && seg.Optional {
			first = i
			break
		}
	}
	return first, len(segments)
}

// insert adds an entry to the tree, rejecting a pattern that is already
// registered. Callers needing replace semantics remove the route first.
func (t *trie[H, M]) insert(e *Entry[H, M]) error {
	if _, exists := t.byPattern[e.Pattern]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePattern, e.Pattern)
	}

	nodes := t.walk(e.segments, true)
	first, last := attachDepths(e.segments)
	for d := first; d <= last; d++ {
		nodes[d].entries = append(nodes[d].entries, e)
	}

	t.byPattern[e.Pattern] = e
	t.ordered = append(t.ordered, e)
	return nil
}

// remove deletes the entry registered under the canonical pattern and prunes
// nodes left with no entries and no children, bounding memory growth under
// add/remove churn. Returns whether anything was removed.
func (t *trie[H, M]) remove(pattern string) bool {
	segments, err := ParseSegments(pattern)
	if err != nil {
		return false
	}
	return t.removeEntry(t.byPattern[canonicalPattern(segments)])
}

// removeEntry detaches a known entry from the tree and indexes.
func (t *trie[H, M]) removeEntry(e *Entry[H, M]) bool {
	if e == nil {
		return false
	}

	nodes := t.walk(e.segments, false)
	if nodes == nil {
		return false
	}

	first, last := attachDepths(e.segments)
	for d := first; d <= last; d++ {
		nodes[d].removeEntry(e)
	}

	// Prune bottom-up. nodes[d] was reached via e.segments[d-1].
	for d := len(nodes) - 1; d >= 1; d-- {
		if !nodes[d].empty() {
			break
		}
		parent := nodes[d-1]
		switch seg := e.segments[d-1]; seg.Kind {
		case SegmentStatic:
			parent.edges = slices.DeleteFunc(parent.edges, func(ed trieEdge[H, M]) bool {
				return ed.label == seg.Value
			})
		case SegmentParam:
			parent.param = nil
		case SegmentWildcard:
			parent.wildcard = nil
		}
	}

	delete(t.byPattern, e.Pattern)
	if e.Name != "" {
		delete(t.byName, e.Name)
	}
	t.ordered = slices.DeleteFunc(t.ordered, func(x *Entry[H, M]) bool { return x == e })
	return true
}

// registerName indexes an entry under a globally unique name for reverse
// routing and removal-by-name.
func (t *trie[H, M]) registerName(name string, e *Entry[H, M]) error {
	if name == "" {
		return fmt.Errorf("route name cannot be empty")
	}
	if _, taken := t.byName[name]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateRouteName, name)
	}
	if e.Name != "" {
		delete(t.byName, e.Name)
	}
	e.Name = name
	t.byName[name] = e
	return nil
}

// findByName returns the entry registered under name, or nil.
func (t *trie[H, M]) findByName(name string) *Entry[H, M] {
	return t.byName[name]
}

// lookup resolves a path against the tree. It returns the winning entry and
// the capture values collected in traversal order.
//
// Precedence is static > param > wildcard at every node, with backtracking:
// if the static branch cannot complete the remaining path the param branch
// is retried across the full remainder, so /users/me beats /users/:id while
// /users/42 still resolves dynamically.
func (t *trie[H, M]) lookup(path string) (*Entry[H, M], []string, bool) {
	return lookupNode(t.root, splitPath(path), nil)
}

func lookupNode[H, M any](n *trieNode[H, M], segs, values []string) (*Entry[H, M], []string, bool) {
	if len(segs) == 0 {
		if len(n.entries) > 0 {
			return n.entries[0], values, true
		}
		// A trailing wildcard matches an empty remainder.
		if n.wildcard != nil && len(n.wildcard.entries) > 0 {
			return n.wildcard.entries[0], append(values, ""), true
		}
		return nil, nil, false
	}

	if next := n.findChild(segs[0]); next != nil {
		if e, v, ok := lookupNode(next, segs[1:], values); ok {
			return e, v, ok
		}
	}

	if n.param != nil {
		if e, v, ok := lookupNode(n.param.node, segs[1:], append(values, segs[0])); ok {
			return e, v, ok
		}
	}

	// Wildcard consumes everything that remains as one capture and the
	// walk terminates; nothing may follow a wildcard.
	if n.wildcard != nil && len(n.wildcard.entries) > 0 {
		return n.wildcard.entries[0], append(values, strings.Join(segs, "/")), true
	}

	return nil, nil, false
}

// clear drops every entry and resets the tree to a single empty root.
func (t *trie[H, M]) clear() {
	t.root = &trieNode[H, M]{}
	t.byPattern = make(map[string]*Entry[H, M])
	t.byName = make(map[string]*Entry[H, M])
	t.ordered = nil
}

// len returns the number of registered routes.
func (t *trie[H, M]) len() int {
	return len(t.ordered)
}

// routes returns pattern/name pairs in registration order.
func (t *trie[H, M]) routes() []RouteInfo {
	out := make([]RouteInfo, len(t.ordered))
	for i, e := range t.ordered {
		out[i] = RouteInfo{Pattern: e.Pattern, Name: e.Name}
	}
	return out
}

// TreeStats describes the shape of the route tree: node counts by kind and
// the deepest path position. The root is included in TotalNodes only.
type TreeStats struct {
	TotalNodes    int
	StaticNodes   int
	ParamNodes    int
	WildcardNodes int
	MaxDepth      int
	Routes        int
}

// stats walks the tree and tallies its shape. Introspection only.
func (t *trie[H, M]) stats() TreeStats {
	s := TreeStats{TotalNodes: 1, Routes: len(t.ordered)}
	countNodes(t.root, 0, &s)
	return s
}

func countNodes[H, M any](n *trieNode[H, M], depth int, s *TreeStats) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	for i := range n.edges {
		s.TotalNodes++
		s.StaticNodes++
		countNodes(n.edges[i].node, depth+1, s)
	}
	if n.param != nil {
		s.TotalNodes++
		s.ParamNodes++
		countNodes(n.param.node, depth+1, s)
	}
	if n.wildcard != nil {
		s.TotalNodes++
		s.WildcardNodes++
		countNodes(n.wildcard, depth+1, s)
	}
}
