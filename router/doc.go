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

// Package router keeps an ordered registry of named routes, matches URLs
// against it and builds URLs back from route names.
//
// Routes are matched in registration order and the first route whose
// template, methods, secure flag and conditions all pass wins. There is no
// specificity scoring: a catch-all registered early hides every route
// registered after it. The router reports such cases through a
// [DiagRouteShadowed] diagnostic when two routes share a template.
//
// # Registration
//
//	r := router.MustNew(router.WithLogger(logger))
//
//	err := r.Map("users.show", route.New("/users/[id]", route.MustParseAction("Users@show"),
//	    route.WithMethods("get"),
//	))
//
//	err = r.Group(route.NewGroup(route.WithPrefix("/admin"), route.WithFilters("auth")), func(r *router.Router) error {
//	    _, err := r.Get("admin.dashboard", "/", route.Controller("Admin", "dashboard"))
//	    return err
//	})
//
// Group constraints are merged into each route when it is mapped; later
// changes to the group have no effect on routes already registered.
//
// # Matching
//
//	m, err := r.Match("/users/42", route.Context{Method: "get"})
//	if errors.Is(err, route.ErrNoMatch) {
//	    // not found
//	}
//	m.Params.Int("id") // 42
//
// Registration is expected to complete before the first match. The first
// call to [Router.Match] freezes the router and further registrations fail
// with [ErrRouterFrozen].
//
// # Reverse Routing
//
//	path, err := r.Build("users.show", map[string]any{"id": 42})        // "/users/42"
//	link, err := r.URLFor("users.show", map[string]any{"id": 42}, query) // "/users/42?tab=posts"
//
// # Manifests
//
// Routes can also be declared in a YAML, TOML or JSON manifest and loaded
// with [LoadFile] or [Router.Load]. See [Manifest].
package router
