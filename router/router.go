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

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"

	"titon.dev/framework/logging"
	"titon.dev/framework/router/route"
)

// Filter runs after a route matched. Returning an error aborts the match.
type Filter func(m *route.Match) error

type namedFilter struct {
	name string
	fn   Filter
}

// Router is an ordered registry of named routes.
//
// Registration methods and Match are safe for concurrent use, but routes
// are expected to be registered before the router starts matching.
type Router struct {
	mu      sync.RWMutex
	routes  []*route.Route
	named   map[string]*route.Route
	groups  []*route.Group // effective group per nesting level
	filters map[string]Filter
	pending []namedFilter

	matcher     Matcher
	observers   []Observer
	logger      *slog.Logger
	diagnostics DiagnosticHandler

	frozen atomic.Bool
}

// New creates a router configured by opts.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		named:   make(map[string]*route.Route),
		filters: make(map[string]Filter),
		matcher: LoopMatcher{},
		logger:  logging.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.matcher == nil {
		return nil, errors.New("router configuration validation failed: matcher cannot be nil")
	}
	if r.logger == nil {
		return nil, errors.New("router configuration validation failed: logger cannot be nil")
	}
	for _, o := range r.observers {
		if o == nil {
			return nil, errors.New("router configuration validation failed: observer cannot be nil")
		}
	}
	for _, f := range r.pending {
		if err := r.Filter(f.name, f.fn); err != nil {
			return nil, fmt.Errorf("router configuration validation failed: %w", err)
		}
	}
	r.pending = nil
	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// Map registers rt under name. The constraints of the enclosing groups are
// merged into rt and its template is compiled immediately, so a malformed
// template fails here rather than on the first request.
//
// A name can only be mapped once; a second attempt returns a
// *RouteNameConflictError and leaves the first route in place.
func (r *Router) Map(name string, rt *route.Route) error {
	switch {
	case name == "":
		return ErrEmptyRouteName
	case rt == nil:
		return ErrNilRoute
	case !rt.Action().IsValid():
		return fmt.Errorf("route %q: %w", name, route.ErrInvalidAction)
	case r.frozen.Load():
		return fmt.Errorf("%w: cannot map %q", ErrRouterFrozen, name)
	}

	r.mu.Lock()
	if existing, ok := r.named[name]; ok {
		r.mu.Unlock()
		return &RouteNameConflictError{Name: name, Existing: existing.Template()}
	}

	var group *route.Group
	if n := len(r.groups); n > 0 {
		group = r.groups[n-1]
	}
	compiled, err := rt.Attach(group)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("route %q: %w", name, err)
	}
	rt.SetName(name)

	var shadowedBy *route.Route
	for _, prev := range r.routes {
		if shadows(prev, rt, compiled.Shape()) {
			shadowedBy = prev
			break
		}
	}

	r.routes = append(r.routes, rt)
	r.named[name] = rt
	r.mu.Unlock()

	if shadowedBy != nil {
		r.emit(DiagRouteShadowed, "route can never match, an earlier route has the same template", map[string]any{
			"route":    name,
			"by":       shadowedBy.Name(),
			"template": compiled.Template,
		})
		r.logger.Warn("route shadowed", "route", name, "by", shadowedBy.Name(), "template", compiled.Template)
	}
	r.emit(DiagRouteRegistered, "route registered", map[string]any{
		"route":    name,
		"template": compiled.Template,
		"tokens":   len(compiled.Tokens),
	})
	r.logger.Debug("route registered", "route", name, "pattern", rt.String())
	return nil
}

// shadows reports whether prev accepts every request rt accepts on the path
// level, ignoring conditions.
func shadows(prev, rt *route.Route, shape string) bool {
	c, err := prev.Compile()
	if err != nil || c.Shape() != shape {
		return false
	}
	if len(prev.Conditions()) > 0 || (prev.Secure() && !rt.Secure()) {
		return false
	}
	pm := prev.Methods()
	if len(pm) == 0 {
		return true
	}
	rm := rt.Methods()
	if len(rm) == 0 {
		return false
	}
	for _, m := range rm {
		if !slices.Contains(pm, m) {
			return false
		}
	}
	return true
}

// Group runs fn with g applied to every route mapped inside it. Groups
// nest: the constraints of the enclosing groups are combined with g (see
// route.Group.Nest). The group stays active only for the duration of fn.
func (r *Router) Group(g *route.Group, fn func(*Router) error) error {
	if g == nil {
		g = route.NewGroup()
	}

	r.mu.Lock()
	effective := g
	if n := len(r.groups); n > 0 {
		effective = r.groups[n-1].Nest(g)
	}
	r.groups = append(r.groups, effective)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.groups = r.groups[:len(r.groups)-1]
		r.mu.Unlock()
	}()

	return fn(r)
}

// Filter registers a named filter. Routes reference filters by name with
// route.WithFilters; they run in the order the route lists them, after the
// route matched. Registering a name again replaces the filter.
func (r *Router) Filter(name string, f Filter) error {
	if name == "" {
		return errors.New("filter name cannot be empty")
	}
	if f == nil {
		return fmt.Errorf("%w: %q", ErrNilFilter, name)
	}

	r.mu.Lock()
	_, replaced := r.filters[name]
	r.filters[name] = f
	r.mu.Unlock()

	if replaced {
		r.emit(DiagFilterReplaced, "filter replaced", map[string]any{"filter": name})
	}
	return nil
}

// Match returns the first route accepting url under rc, after running its
// filters. When nothing matches the error is a *NoMatchError wrapping
// route.ErrNoMatch.
//
// The first call freezes the router.
func (r *Router) Match(url string, rc route.Context) (*route.Match, error) {
	r.frozen.Store(true)

	for _, o := range r.observers {
		o.BeforeMatch(url, rc)
	}

	m, err := r.match(url, rc)

	for _, o := range r.observers {
		o.AfterMatch(url, m, err)
	}
	return m, err
}

func (r *Router) match(url string, rc route.Context) (*route.Match, error) {
	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	m, ok := r.matcher.Match(url, rc, routes)
	if !ok {
		r.logger.Debug("no route matched", "url", url, "method", rc.Method)
		return nil, &NoMatchError{URL: url, Method: rc.Method}
	}

	for _, name := range m.Route.Filters() {
		r.mu.RLock()
		f, ok := r.filters[name]
		r.mu.RUnlock()
		if !ok {
			return nil, &MissingFilterError{Route: m.Route.Name(), Filter: name}
		}
		if err := f(m); err != nil {
			r.logger.Debug("filter rejected match", "route", m.Route.Name(), "filter", name, "error", err)
			return nil, &FilterError{Route: m.Route.Name(), Filter: name, Err: err}
		}
	}

	r.logger.Debug("route matched", "route", m.Route.Name(), "url", url)
	return m, nil
}

// MatchRequest matches the escaped request path and query under the
// request method and transport.
func (r *Router) MatchRequest(req *http.Request) (*route.Match, error) {
	return r.Match(req.URL.RequestURI(), route.ContextFromRequest(req))
}

// Build renders the path of the route registered under name. A missing name
// yields a *MissingRouteError; token failures are returned as
// *route.MissingTokenError or *route.InvalidTokenError.
func (r *Router) Build(name string, params map[string]any) (string, error) {
	rt, ok := r.Route(name)
	if !ok {
		return "", &MissingRouteError{Name: name}
	}
	path, err := rt.Build(params)
	if err != nil {
		return "", fmt.Errorf("build route %q: %w", name, err)
	}
	return path, nil
}

// URLFor is like [Router.Build] and appends the encoded query, if any.
func (r *Router) URLFor(name string, params map[string]any, query url.Values) (string, error) {
	path, err := r.Build(name, params)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path, nil
}

// MustURLFor is like [Router.URLFor] but panics on error.
func (r *Router) MustURLFor(name string, params map[string]any, query url.Values) string {
	u, err := r.URLFor(name, params, query)
	if err != nil {
		panic(fmt.Sprintf("MustURLFor failed: %v", err))
	}
	return u
}

// Route returns the route registered under name.
func (r *Router) Route(name string) (*route.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.named[name]
	return rt, ok
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*route.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.routes)
}

// Names returns the registered route names mapped to their description,
// e.g. "GET /users/[id]".
func (r *Router) Names() map[string]string {
	r.mu.RLock()
	named := maps.Clone(r.named)
	r.mu.RUnlock()

	out := make(map[string]string, len(named))
	for name, rt := range named {
		out[name] = rt.String()
	}
	return out
}

// Len returns the number of registered routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Frozen reports whether the router has started matching.
func (r *Router) Frozen() bool { return r.frozen.Load() }
