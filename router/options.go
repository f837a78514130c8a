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

import "log/slog"

// Option configures a Router.
type Option func(*Router)

// WithMatcher replaces the default [LoopMatcher].
func WithMatcher(m Matcher) Option {
	return func(r *Router) {
		r.matcher = m
	}
}

// WithLogger sets the logger used for registration and match events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithObserver adds an observer notified around every match. Observers are
// called in the order they were added.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		r.observers = append(r.observers, o)
	}
}

// WithFilter registers a named filter at construction time.
// See [Router.Filter].
func WithFilter(name string, f Filter) Option {
	return func(r *Router) {
		r.pending = append(r.pending, namedFilter{name: name, fn: f})
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}
