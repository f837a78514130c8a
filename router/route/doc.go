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

// Package route provides route definitions, shared constraints and groups
// for the Titon router.
//
// This package contains:
//   - Route: a path template bound to an action, with constraints and defaults
//   - Constraints: prefix, suffix, methods, patterns, conditions, filters and
//     the secure flag, embedded by value in both Route and Group
//   - Group: a bundle of constraints applied to routes at registration time
//   - Action: a callback or a controller reference resolved at dispatch time
//
// # Route Definition
//
//	r := route.New("/users/[id]/{slug?}", route.Func(showUser),
//	    route.WithMethods("get"),
//	)
//
//	if m, ok := r.Match("/users/42", route.Context{Method: "GET"}); ok {
//	    id, _ := m.Params.Int("id") // 42
//	}
//
// Templates are compiled lazily on first use and memoised on the route. Any
// change to prefix, suffix or patterns invalidates the compiled form.
//
// # Matching
//
// A route matches a URL when its compiled expression matches and, in that
// order, the request method is allowed, the transport is secure when the
// route requires it, and every condition returns true. [Route.Match] is free
// of side effects and safe for concurrent use. [Route.IsMatch] additionally
// stores the extracted parameters on the route for [Route.Dispatch].
//
// # Groups
//
// Group constraints are merged into a route when the router registers it.
// Methods, patterns, conditions and filters are unioned. Prefix, suffix and
// secure are taken from the group only when the route did not set them.
//
//	api := route.NewGroup(route.WithPrefix("/api"), route.WithSecure(true))
package route
