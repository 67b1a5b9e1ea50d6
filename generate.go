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
	"net/url"
	"strings"
)

// GeneratePath builds a concrete path for the named route, substituting
// each dynamic segment with the corresponding params value — the inverse of
// matching.
//
// A missing value for a required parameter returns an error wrapping
// [ErrMissingParam]. A missing value for an optional parameter ends the
// path there, dropping the segment and its separator (optional parameters
// only occur as a trailing run). A wildcard segment appends its value
// verbatim when present and is dropped otherwise.
//
// Parameter values are path-escaped; wildcard values are not, since they
// legitimately contain separators.
//
// GeneratePath results are never cached: reverse generation is not the hot
// path, and caching it would risk staleness after route removal.
func (m *Matcher[H, M]) GeneratePath(name string, params map[string]string) (string, error) {
	return m.generate(name, params, nil)
}

// GeneratePathWithQuery is GeneratePath with an encoded query string
// appended when query is non-empty.
func (m *Matcher[H, M]) GeneratePathWithQuery(name string, params map[string]string, query url.Values) (string, error) {
	return m.generate(name, params, query)
}

func (m *Matcher[H, M]) generate(name string, params map[string]string, query url.Values) (string, error) {
	entry := m.tree.findByName(name)
	if entry == nil {
		return "", fmt.Errorf("%w: no route named %q", ErrRouteNotFound, name)
	}

	var b strings.Builder
	for _, seg := range entry.segments {
		switch seg.Kind {
		case SegmentStatic:
			b.WriteByte('/')
			b.WriteString(seg.Value)

		case SegmentParam:
			val, ok := params[seg.Value]
			if !ok {
				if seg.Optional {
					// Trailing run; nothing further can be emitted.
					return finishPath(&b, query), nil
				}
				return "", fmt.Errorf("%w: %s (route %q)", ErrMissingParam, seg.Value, name)
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(val))

		case SegmentWildcard:
			val, ok := params[seg.Value]
			if !ok || val == "" {
				return finishPath(&b, query), nil
			}
			b.WriteByte('/')
			b.WriteString(val)
		}
	}
	return finishPath(&b, query), nil
}

func finishPath(b *strings.Builder, query url.Values) string {
	path := b.String()
	if path == "" {
		path = "/"
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path
}
