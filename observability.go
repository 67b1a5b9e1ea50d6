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

import "time"

// MatchEvent describes one completed Match call.
//
// Pattern is the matched route pattern (empty when unmatched). Recorders
// should key metrics on Pattern rather than Path to avoid cardinality
// explosion. Duration is zero for cache hits.
type MatchEvent struct {
	Path     string
	Pattern  string
	Matched  bool
	CacheHit bool
	Duration time.Duration
}

// MatchRecorder receives match events from the matcher. Implementations may
// record metrics, log, or ignore them; the matcher behaves identically
// whether a recorder is attached or not.
//
// See the metrics subpackage for an OpenTelemetry-backed implementation.
type MatchRecorder interface {
	OnMatch(MatchEvent)
}

// MatchRecorderFunc is a function adapter for MatchRecorder.
type MatchRecorderFunc func(MatchEvent)

func (f MatchRecorderFunc) OnMatch(e MatchEvent) {
	f(e)
}
