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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MatcherTestSuite exercises the public facade end to end.
type MatcherTestSuite struct {
	suite.Suite

	m *Matcher[string, map[string]string]
}

func (suite *MatcherTestSuite) SetupTest() {
	suite.m = MustNew[string, map[string]string]()
}

func (suite *MatcherTestSuite) TestMatchBasic() {
	suite.m.MustAddRoute("/", "home")
	suite.m.MustAddRoute("/users", "users")
	suite.m.MustAddRoute("/users/:id", "user")
	suite.m.MustAddRoute("/users/:id/posts/:postId", "userPost")
	suite.m.MustAddRoute("/files/*", "files")

	tests := []struct {
		path    string
		matched bool
		handler string
		params  map[string]string
	}{
		{"/", true, "home", map[string]string{}},
		{"/users", true, "users", map[string]string{}},
		{"/users/123", true, "user", map[string]string{"id": "123"}},
		{"/users/123/posts/456", true, "userPost", map[string]string{"id": "123", "postId": "456"}},
		{"/files/docs/readme.md", true, "files", map[string]string{"filepath": "docs/readme.md"}},
		{"/nonexistent", false, "", map[string]string{}},
		{"/users/123/comments", false, "", map[string]string{}},
	}

	for _, tt := range tests {
		suite.Run(tt.path, func() {
			res := suite.m.Match(tt.path)
			suite.Equal(tt.matched, res.Matched)
			suite.Equal(tt.params, res.Params)
			if tt.matched {
				suite.Equal(tt.handler, res.Handler)
			}
		})
	}
}

// Equivalent spellings of a path are one lookup: matching is defined on the
// normalized form.
func (suite *MatcherTestSuite) TestMatchNormalizesPath() {
	suite.m.MustAddRoute("/user/:id", "user")

	for _, path := range []string{"/user/5", "user/5", "/user/5/", "//user//5//"} {
		res := suite.m.Match(path)
		suite.True(res.Matched, "path %s should match", path)
		suite.Equal("5", res.Params["id"])
	}
}

func (suite *MatcherTestSuite) TestSpecificity() {
	suite.m.MustAddRoute("/users/*", "wildcard")
	suite.m.MustAddRoute("/users/:id", "param")
	suite.m.MustAddRoute("/users/me", "static")

	suite.Equal("static", suite.m.Match("/users/me").Handler)
	suite.Equal("param", suite.m.Match("/users/42").Handler)
	suite.Equal("wildcard", suite.m.Match("/users/42/extra").Handler)
}

func (suite *MatcherTestSuite) TestOptionalParams() {
	suite.m.MustAddRoute("/posts/:id?", "posts")

	res := suite.m.Match("/posts")
	suite.Require().True(res.Matched)
	suite.Empty(res.Params)

	res = suite.m.Match("/posts/42")
	suite.Require().True(res.Matched)
	suite.Equal("42", res.Params["id"])
}

func (suite *MatcherTestSuite) TestWildcardCapture() {
	suite.m.MustAddRoute("/static/{...asset}", "static")

	res := suite.m.Match("/static/css/main.css")
	suite.Require().True(res.Matched)
	suite.Equal("css/main.css", res.Params["asset"])

	// Wildcard also covers the empty remainder.
	res = suite.m.Match("/static")
	suite.Require().True(res.Matched)
	suite.Equal("", res.Params["asset"])
}

func (suite *MatcherTestSuite) TestAddRouteErrors() {
	_, err := suite.m.AddRoute("/files/*/meta", "bad")
	suite.Require().Error(err)
	suite.ErrorIs(err, ErrInvalidPattern)

	suite.m.MustAddRoute("/users/:id", "user")

	// The brace spelling is the same canonical pattern.
	_, err = suite.m.AddRoute("/users/{id}", "dup")
	suite.Require().Error(err)
	suite.ErrorIs(err, ErrDuplicatePattern)
}

func (suite *MatcherTestSuite) TestRouteHandle() {
	route := suite.m.MustAddRoute("/users/{id}", "user").
		SetName("user").
		SetMeta(map[string]string{"layout": "default"})

	suite.Equal("/users/:id", route.Pattern())
	suite.Equal("user", route.Name())

	res := suite.m.Match("/users/42")
	suite.Require().True(res.Matched)
	suite.Equal("user", res.Name)
	suite.Equal(map[string]string{"layout": "default"}, res.Meta)
}

func (suite *MatcherTestSuite) TestSetNamePanicsOnDuplicate() {
	suite.m.MustAddRoute("/users/:id", "user").SetName("user")

	suite.Panics(func() {
		suite.m.MustAddRoute("/accounts/:id", "account").SetName("user")
	})
}

func (suite *MatcherTestSuite) TestRemoveRouteByPattern() {
	suite.m.MustAddRoute("/users/:id", "user")

	res := suite.m.Match("/users/42")
	suite.Require().True(res.Matched)

	suite.True(suite.m.RemoveRoute("/users/:id"))
	suite.False(suite.m.Match("/users/42").Matched)
	suite.False(suite.m.RemoveRoute("/users/:id"))
}

func (suite *MatcherTestSuite) TestRemoveRouteByName() {
	suite.m.MustAddRoute("/users/:id", "user").SetName("user")

	suite.True(suite.m.RemoveRoute("user"))
	suite.False(suite.m.Match("/users/42").Matched)
}

func (suite *MatcherTestSuite) TestRemoveStaticRoute() {
	suite.m.MustAddRoute("/about", "about")
	suite.Require().True(suite.m.Match("/about").Matched)

	suite.True(suite.m.RemoveRoute("/about"))
	suite.False(suite.m.Match("/about").Matched, "compiled static entry must go too")
}

// Adding or removing a route must be observable on the very next Match,
// cached answers included.
func (suite *MatcherTestSuite) TestInvalidationOnRouteChange() {
	suite.m.MustAddRoute("/users/:id", "param")

	res := suite.m.Match("/users/me")
	suite.Equal("param", res.Handler)
	res = suite.m.Match("/users/me") // now cached
	suite.Equal("param", res.Handler)

	suite.m.MustAddRoute("/users/me", "static")
	suite.Equal("static", suite.m.Match("/users/me").Handler)

	suite.True(suite.m.RemoveRoute("/users/me"))
	suite.Equal("param", suite.m.Match("/users/me").Handler)

	suite.True(suite.m.RemoveRoute("/users/:id"))
	suite.False(suite.m.Match("/users/me").Matched)
}

// A cached result is a value, not a view: callers may mutate what they get
// back without corrupting later matches.
func (suite *MatcherTestSuite) TestCacheTransparency() {
	suite.m.MustAddRoute("/users/:id", "user")

	first := suite.m.Match("/users/42")
	suite.Require().True(first.Matched)
	first.Params["id"] = "tampered"

	second := suite.m.Match("/users/42")
	suite.Equal("42", second.Params["id"])

	third := suite.m.Match("/users/42")
	suite.Equal(second, third, "cached and recomputed results are indistinguishable")
}

func (suite *MatcherTestSuite) TestRoutesIntrospection() {
	suite.m.MustAddRoute("/", "home").SetName("home")
	suite.m.MustAddRoute("/users/:id", "user")

	suite.Equal(2, suite.m.RouteCount())
	suite.Equal([]RouteInfo{
		{Pattern: "/", Name: "home"},
		{Pattern: "/users/:id"},
	}, suite.m.Routes())
}

func (suite *MatcherTestSuite) TestClear() {
	suite.m.MustAddRoute("/users/:id", "user").SetName("user")
	suite.m.MustAddRoute("/about", "about")
	suite.Require().True(suite.m.Match("/about").Matched)

	suite.m.Clear()

	suite.Equal(0, suite.m.RouteCount())
	suite.False(suite.m.Match("/about").Matched)
	suite.False(suite.m.Match("/users/42").Matched)
	suite.Equal(0, suite.m.CacheLen())

	// Names are released as well.
	suite.m.MustAddRoute("/users/:id", "user").SetName("user")
	suite.True(suite.m.Match("/users/42").Matched)
}

func (suite *MatcherTestSuite) TestTreeStats() {
	suite.m.MustAddRoute("/users/:id", "user")
	suite.m.MustAddRoute("/files/*", "files")

	s := suite.m.TreeStats()
	suite.Equal(2, s.Routes)
	suite.Positive(s.TotalNodes)

	suite.m.RemoveRoute("/files/*")
	after := suite.m.TreeStats()
	suite.Equal(1, after.Routes)
	suite.Less(after.TotalNodes, s.TotalNodes)
}

func TestMatcherTestSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}

func TestStats(t *testing.T) {
	t.Parallel()

	m := MustNew[string, any](WithStats())
	m.MustAddRoute("/users/:id", "user")

	m.Match("/users/1") // miss
	m.Match("/users/1") // hit
	m.Match("/users/2") // miss

	stats := m.Stats()
	assert.Equal(t, int64(3), stats.TotalMatches)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(2), stats.CacheMisses)
	assert.GreaterOrEqual(t, stats.SlowestMatch, stats.FastestMatch)
	assert.GreaterOrEqual(t, stats.AvgMatchTime, stats.FastestMatch)
	assert.LessOrEqual(t, stats.AvgMatchTime, stats.SlowestMatch)
}

func TestStatsDisabledByDefault(t *testing.T) {
	t.Parallel()

	m := MustNew[string, any]()
	m.MustAddRoute("/users/:id", "user")
	m.Match("/users/1")

	assert.Equal(t, Stats{}, m.Stats())
}

func TestStatsSurviveClear(t *testing.T) {
	t.Parallel()

	m := MustNew[string, any](WithStats())
	m.MustAddRoute("/users/:id", "user")
	m.Match("/users/1")

	m.Clear()
	assert.Equal(t, int64(1), m.Stats().TotalMatches)
}

func TestWithoutCache(t *testing.T) {
	t.Parallel()

	m := MustNew[string, any](WithoutCache(), WithStats())
	m.MustAddRoute("/users/:id", "user")

	m.Match("/users/1")
	m.Match("/users/1")

	stats := m.Stats()
	assert.Equal(t, int64(0), stats.CacheHits, "no cache, no hits")
	assert.Equal(t, int64(2), stats.CacheMisses)
	assert.Equal(t, 0, m.CacheLen())
}

func TestNegativeCaching(t *testing.T) {
	t.Parallel()

	t.Run("off by default", func(t *testing.T) {
		t.Parallel()
		m := MustNew[string, any](WithStats())
		m.MustAddRoute("/users", "users")

		m.Match("/unknown")
		m.Match("/unknown")
		assert.Equal(t, int64(0), m.Stats().CacheHits)
		assert.Equal(t, 0, m.CacheLen())
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		m := MustNew[string, any](WithNegativeCaching(), WithStats())
		m.MustAddRoute("/users", "users")

		res := m.Match("/unknown")
		assert.False(t, res.Matched)
		res = m.Match("/unknown")
		assert.False(t, res.Matched)
		assert.Equal(t, int64(1), m.Stats().CacheHits)

		// A cached not-found flips once the route appears.
		m.MustAddRoute("/unknown", "late")
		assert.True(t, m.Match("/unknown").Matched)
	})
}

func TestCacheEvictionAtCapacity(t *testing.T) {
	t.Parallel()

	m := MustNew[string, any](WithCacheSize(2))
	m.MustAddRoute("/users/:id", "user")

	m.Match("/users/1")
	m.Match("/users/2")
	m.Match("/users/3")

	assert.Equal(t, 2, m.CacheLen())
}

func TestWithoutCompilation(t *testing.T) {
	t.Parallel()

	m := MustNew[string, any](WithoutCompilation())
	m.MustAddRoute("/about", "about")
	m.MustAddRoute("/users/:id", "user")

	assert.True(t, m.Match("/about").Matched)
	assert.True(t, m.Match("/users/42").Matched)
}

func TestInvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{"zero cache size", WithCacheSize(0)},
		{"negative cache size", WithCacheSize(-5)},
		{"zero bloom size", WithBloomFilterSize(0)},
		{"zero bloom hashes", WithBloomFilterHashFunctions(0)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New[string, any](tt.opt)
			require.Error(t, err)
			assert.Panics(t, func() { MustNew[string, any](tt.opt) })
		})
	}
}

func TestRecorderEvents(t *testing.T) {
	t.Parallel()

	var events []MatchEvent
	m := MustNew[string, any](WithRecorder(MatchRecorderFunc(func(e MatchEvent) {
		events = append(events, e)
	})))
	m.MustAddRoute("/users/:id", "user")

	m.Match("/users/1")
	m.Match("/users/1")
	m.Match("/unknown")

	require.Len(t, events, 3)

	assert.Equal(t, "/users/1", events[0].Path)
	assert.Equal(t, "/users/:id", events[0].Pattern)
	assert.True(t, events[0].Matched)
	assert.False(t, events[0].CacheHit)

	assert.True(t, events[1].CacheHit)
	assert.True(t, events[1].Matched)

	assert.False(t, events[2].Matched)
	assert.Empty(t, events[2].Pattern)
}

// Handler payloads are opaque: any type goes through untouched.
func TestHandlerPayloadTypes(t *testing.T) {
	t.Parallel()

	type view struct{ template string }

	m := MustNew[*view, int]()
	m.MustAddRoute("/users/:id", &view{template: "user.html"}).SetMeta(7)

	res := m.Match("/users/42")
	require.True(t, res.Matched)
	assert.Equal(t, "user.html", res.Handler.template)
	assert.Equal(t, 7, res.Meta)
}

func TestMatchRootOnly(t *testing.T) {
	t.Parallel()

	m := MustNew[string, any]()
	m.MustAddRoute("/", "home")

	for _, path := range []string{"/", "", "//"} {
		res := m.Match(path)
		require.True(t, res.Matched, "path %q should resolve to the root route", path)
		assert.Equal(t, "home", res.Handler)
	}
	assert.False(t, m.Match("/anything").Matched)
}
