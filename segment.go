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
	"strings"
)

// SegmentKind classifies one component of a route pattern.
type SegmentKind uint8

const (
	// SegmentStatic matches its literal text exactly (case-sensitive).
	SegmentStatic SegmentKind = iota
	// SegmentParam matches exactly one path component and captures it.
	SegmentParam
	// SegmentWildcard matches the remainder of the path as a single capture.
	SegmentWildcard
)

// String returns a human-readable name for the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentStatic:
		return "static"
	case SegmentParam:
		return "param"
	case SegmentWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// DefaultWildcardParam is the capture name used for wildcard segments
// that do not declare one via the {...name} form.
const DefaultWildcardParam = "filepath"

// Segment is one '/'-delimited component of a route pattern.
// For SegmentStatic, Value is the literal text. For SegmentParam and
// SegmentWildcard, Value is the capture name.
type Segment struct {
	Value    string
	Kind     SegmentKind
	Optional bool // SegmentParam only; permitted as a trailing run
}

// ParseSegments parses a route pattern into an ordered segment sequence.
//
// Grammar per component:
//   - "literal"            static, matched verbatim
//   - ":name" or "{name}"  parameter capture
//   - ":name?" / "{name?}" optional parameter (trailing positions only)
//   - "*" or "{...}"       wildcard, must be the final component
//   - "{...name}"          wildcard with a custom capture name
//
// Separators are normalized first: repeated, leading, and trailing slashes
// collapse, so "/users/:id", "users/:id" and "//users//:id//" parse
// identically. The empty pattern and "/" both produce an empty sequence.
//
// ParseSegments is pure; identical input always yields identical output.
// Malformed patterns return an error wrapping [ErrInvalidPattern].
func ParseSegments(pattern string) ([]Segment, error) {
	parts := splitPath(pattern)
	if len(parts) == 0 {
		return nil, nil
	}

	segments := make([]Segment, 0, len(parts))
	sawOptional := false
	for i, part := range parts {
		seg, err := parseComponent(part)
		if err != nil {
			return nil, err
		}

		if seg.Kind == SegmentWildcard && i != len(parts)-1 {
			return nil, fmt.Errorf("%w: wildcard segment %q must be the final component in %q", ErrInvalidPattern, part, pattern)
		}
		if seg.Kind == SegmentWildcard && sawOptional {
			return nil, fmt.Errorf("%w: wildcard cannot follow an optional parameter in %q", ErrInvalidPattern, pattern)
		}
		if sawOptional && !(seg.Kind == SegmentParam && seg.Optional) {
			return nil, fmt.Errorf("%w: segment %q follows an optional parameter in %q", ErrInvalidPattern, part, pattern)
		}
		if seg.Optional {
			sawOptional = true
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

// parseComponent types a single non-empty path component.
func parseComponent(part string) (Segment, error) {
	switch {
	case part == "*":
		return Segment{Kind: SegmentWildcard, Value: DefaultWildcardParam}, nil

	case strings.HasPrefix(part, ":"):
		return paramSegment(part[1:], part)

	case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
		inner := part[1 : len(part)-1]
		if rest, ok := strings.CutPrefix(inner, "..."); ok {
			name := rest
			if name == "" {
				name = DefaultWildcardParam
			}
			return Segment{Kind: SegmentWildcard, Value: name}, nil
		}
		return paramSegment(inner, part)

	default:
		return Segment{Kind: SegmentStatic, Value: part}, nil
	}
}

// paramSegment builds a parameter segment from its bare name, honoring the
// trailing '?' optional marker.
func paramSegment(name, raw string) (Segment, error) {
	optional := false
	if trimmed, ok := strings.CutSuffix(name, "?"); ok {
		optional = true
		name = trimmed
	}
	if name == "" {
		return Segment{}, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, raw)
	}
	return Segment{Kind: SegmentParam, Value: name, Optional: optional}, nil
}

// splitPath splits a path or pattern into its non-empty components.
// Empty components from duplicate, leading, or trailing separators are
// dropped, which is the normalization contract shared by registration
// and matching.
func splitPath(path string) []string {
	if path == "" || path == "/" {
		return nil
	}

	// Manual scan instead of strings.Split to skip empty components
	// without a second pass.
	var parts []string
	start := 0
	for start < len(path) {
		for start < len(path) && path[start] == '/' {
			start++
		}
		end := start
		for end < len(path) && path[end] != '/' {
			end++
		}
		if end > start {
			parts = append(parts, path[start:end])
		}
		start = end
	}
	return parts
}

// normalizePath returns the canonical form of a lookup path: a single
// leading slash, no trailing slash, no duplicate separators. The canonical
// form of the root (and of the empty path) is "/". Used for cache keys and
// the compiled static table so equivalent spellings share one identity.
func normalizePath(path string) string {
	parts := splitPath(path)
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}
