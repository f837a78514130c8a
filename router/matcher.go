// Copyright 2025 The Titon Authors
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

package router

import "titon.dev/framework/router/route"

// Matcher selects a route for a URL.
//
// Implementations receive routes in registration order and must return the
// first route that accepts url under rc. They must not modify the routes.
type Matcher interface {
	Match(url string, rc route.Context, routes []*route.Route) (*route.Match, bool)
}

// MatcherFunc is a function adapter for Matcher.
type MatcherFunc func(url string, rc route.Context, routes []*route.Route) (*route.Match, bool)

// Match calls f.
func (f MatcherFunc) Match(url string, rc route.Context, routes []*route.Route) (*route.Match, bool) {
	return f(url, rc, routes)
}

// LoopMatcher scans every route in order. It is the default matcher.
type LoopMatcher struct{}

// Match returns the first route accepting url.
func (LoopMatcher) Match(url string, rc route.Context, routes []*route.Route) (*route.Match, bool) {
	for _, rt := range routes {
		if m, ok := rt.Match(url, rc); ok {
			return m, true
		}
	}
	return nil, false
}
