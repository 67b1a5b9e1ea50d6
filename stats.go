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
	"math"
	"sync/atomic"
	"time"
)

// Stats is a snapshot of match statistics. Timing covers the miss path
// only: cache hits are near-zero-cost and tracked as a count, not timed.
type Stats struct {
	TotalMatches int64
	CacheHits    int64
	CacheMisses  int64
	AvgMatchTime time.Duration
	FastestMatch time.Duration
	SlowestMatch time.Duration
}

// statCounters holds the facade-owned counters. Updates use atomics so a
// caller may scrape Stats concurrently with matches even though the
// matcher itself is externally serialized.
type statCounters struct {
	totalMatches atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	totalTimeNS  atomic.Int64
	fastestNS    atomic.Int64 // math.MaxInt64 until the first timed match
	slowestNS    atomic.Int64
}

func newStatCounters() *statCounters {
	s := &statCounters{}
	s.fastestNS.Store(math.MaxInt64)
	return s
}

func (s *statCounters) recordHit() {
	s.totalMatches.Add(1)
	s.cacheHits.Add(1)
}

func (s *statCounters) recordMiss(d time.Duration) {
	s.totalMatches.Add(1)
	s.cacheMisses.Add(1)
	ns := d.Nanoseconds()
	s.totalTimeNS.Add(ns)

	for {
		fastest := s.fastestNS.Load()
		if ns >= fastest || s.fastestNS.CompareAndSwap(fastest, ns) {
			break
		}
	}
	for {
		slowest := s.slowestNS.Load()
		if ns <= slowest || s.slowestNS.CompareAndSwap(slowest, ns) {
			break
		}
	}
}

func (s *statCounters) snapshot() Stats {
	misses := s.cacheMisses.Load()
	stats := Stats{
		TotalMatches: s.totalMatches.Load(),
		CacheHits:    s.cacheHits.Load(),
		CacheMisses:  misses,
		SlowestMatch: time.Duration(s.slowestNS.Load()),
	}
	if fastest := s.fastestNS.Load(); fastest != math.MaxInt64 {
		stats.FastestMatch = time.Duration(fastest)
	}
	if misses > 0 {
		stats.AvgMatchTime = time.Duration(s.totalTimeNS.Load() / misses)
	}
	return stats
}
