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

package route

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"titon.dev/framework/router/compiler"
)

// LocalePattern matches language tags such as "en", "en-us" or "pt_BR".
const LocalePattern = `[a-z]{2}(?:[-_][a-zA-Z]{2})?`

// Route binds a path template to an action.
//
// Configuration methods are meant for the registration phase. Once the router
// starts matching, a route is only read, apart from the parameters stored by
// [Route.IsMatch].
type Route struct {
	Constraints

	path     string
	action   Action
	name     string
	defaults map[string]any
	locale   bool

	mu       sync.Mutex
	compiled *compiler.Compiled
	params   Params
	matched  bool
}

// New creates a route for path and action.
func New(path string, action Action, opts ...Option) *Route {
	r := &Route{path: path, action: action}
	for _, opt := range opts {
		opt(&r.Constraints)
	}
	return r
}

// NewLocale creates a route whose template is prefixed by a "<locale>" token.
// The token pattern defaults to [LocalePattern] unless one is registered.
func NewLocale(path string, action Action, opts ...Option) *Route {
	r := New(path, action, opts...)
	r.locale = true
	return r
}

// Path returns the path as given, without prefix or suffix.
func (r *Route) Path() string { return r.path }

// Action returns the route action.
func (r *Route) Action() Action { return r.action }

// Name returns the name the route was registered under.
func (r *Route) Name() string { return r.name }

// SetName sets the route name. Routers call it on registration.
func (r *Route) SetName(name string) { r.name = name }

// IsLocale reports whether the template is prefixed by a locale token.
func (r *Route) IsLocale() bool { return r.locale }

// SetDefault records the value used for an absent optional token, on both
// match and build.
func (r *Route) SetDefault(token string, value any) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaults == nil {
		r.defaults = make(map[string]any)
	}
	r.defaults[token] = value
	return r
}

// Defaults returns a copy of the token defaults.
func (r *Route) Defaults() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.defaults)
}

// AddPattern registers a token pattern and invalidates the compiled template.
func (r *Route) AddPattern(name, pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Constraints.AddPattern(name, pattern)
	r.compiled = nil
}

// AddPatterns registers token patterns and invalidates the compiled template.
func (r *Route) AddPatterns(patterns map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Constraints.AddPatterns(patterns)
	r.compiled = nil
}

// SetPrefix sets the prefix and invalidates the compiled template.
func (r *Route) SetPrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Constraints.SetPrefix(prefix)
	r.compiled = nil
}

// SetSuffix sets the suffix and invalidates the compiled template.
func (r *Route) SetSuffix(suffix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Constraints.SetSuffix(suffix)
	r.compiled = nil
}

// Join merges the group constraints into the route (see [Constraints.Merge])
// and invalidates the compiled template.
func (r *Route) Join(g *Group) {
	if g == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Merge(&g.Constraints)
	r.compiled = nil
}

// Attach merges the constraints of g, when not nil, and compiles the result.
// On a compile error the route is left as it was before the call.
func (r *Route) Attach(g *Group) (*compiler.Compiled, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g == nil {
		return r.compileLocked()
	}

	saved, cached := r.Constraints.Clone(), r.compiled
	r.Merge(&g.Constraints)
	r.compiled = nil

	c, err := r.compileLocked()
	if err != nil {
		r.Constraints, r.compiled = saved, cached
		return nil, err
	}
	return c, nil
}

// Template returns the full template: locale token, prefix, path and suffix.
func (r *Route) Template() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return compiler.Normalize(r.template())
}

func (r *Route) template() string {
	tpl := r.prefix + "/" + r.path + "/" + r.suffix
	if r.locale {
		tpl = "/<locale>/" + tpl
	}
	return tpl
}

// Compile compiles the template, or returns the memoised result.
func (r *Route) Compile() (*compiler.Compiled, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compileLocked()
}

func (r *Route) compileLocked() (*compiler.Compiled, error) {
	if r.compiled != nil {
		return r.compiled, nil
	}

	patterns := r.patterns
	if r.locale {
		if _, ok := patterns["locale"]; !ok {
			patterns = maps.Clone(patterns)
			if patterns == nil {
				patterns = make(map[string]string, 1)
			}
			patterns["locale"] = LocalePattern
		}
	}

	c, err := compiler.Compile(r.template(), patterns)
	if err != nil {
		return nil, err
	}
	r.compiled = c
	return c, nil
}

// IsCompiled reports whether a compiled template is memoised.
func (r *Route) IsCompiled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compiled != nil
}

// Match evaluates the route against url and rc without modifying the route.
// The path is checked first, then the method, the secure flag and every
// condition. A template that fails to compile never matches.
func (r *Route) Match(url string, rc Context) (*Match, bool) {
	r.mu.Lock()
	c, err := r.compileLocked()
	defaults := r.defaults
	r.mu.Unlock()
	if err != nil {
		return nil, false
	}

	caps, ok := c.Match(url)
	if !ok {
		return nil, false
	}
	if !r.AllowsMethod(rc.Method) {
		return nil, false
	}
	if r.secure && !rc.Secure {
		return nil, false
	}
	for _, cond := range r.conditions {
		if !cond(url) {
			return nil, false
		}
	}

	params := make(Params, len(caps))
	for i, cp := range caps {
		params[i].Key = cp.Token.Name
		switch {
		case !cp.Present:
			params[i].Value = defaults[cp.Token.Name]
		case cp.Token.Kind == compiler.KindNumeric:
			params[i].Value = coerceInt(cp.Value)
		default:
			params[i].Value = cp.Value
		}
	}

	return &Match{Route: r, URL: url, Params: params}, true
}

// coerceInt converts digits to an int, keeping the string on overflow.
func coerceInt(s string) any {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return n
}

// IsMatch is like [Route.Match] and, on success, stores the extracted
// parameters on the route for [Route.Dispatch] and [Route.Params].
func (r *Route) IsMatch(url string, rc Context) bool {
	m, ok := r.Match(url, rc)
	if !ok {
		return false
	}
	r.mu.Lock()
	r.params = m.Params
	r.matched = true
	r.mu.Unlock()
	return true
}

// Params returns the parameters stored by the last successful IsMatch.
func (r *Route) Params() Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

// Param returns a single stored parameter.
func (r *Route) Param(key string) (any, bool) {
	return r.Params().Get(key)
}

// Dispatch invokes the action with the parameters stored by the last
// successful IsMatch. It returns [ErrNoMatch] if there was none.
func (r *Route) Dispatch(res Resolver) (any, error) {
	r.mu.Lock()
	matched, params := r.matched, r.params
	r.mu.Unlock()

	if !matched {
		return nil, ErrNoMatch
	}
	return r.action.Invoke(res, params.Args()...)
}

// Build renders the route path from params. Absent optional tokens fall back
// to the route defaults and are otherwise dropped with their separator.
// Wildcard values with empty segments are rejected since matching would not
// give them back.
//
// Example:
//
//	r := route.New("/users/[id]/{slug?}", action)
//	path, err := r.Build(map[string]any{"id": 42}) // "/users/42"
func (r *Route) Build(params map[string]any) (string, error) {
	r.mu.Lock()
	c, err := r.compileLocked()
	defaults := r.defaults
	r.mu.Unlock()
	if err != nil {
		return "", err
	}

	values := make(map[string]string, len(c.Tokens))
	for _, tok := range c.Tokens {
		v, ok := params[tok.Name]
		if !ok || v == nil {
			v, ok = defaults[tok.Name]
		}
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", &InvalidTokenError{
				Template: c.Template,
				Token:    tok.Name,
				Value:    fmt.Sprintf("%v", v),
				Pattern:  tok.Pattern,
			}
		}
		values[tok.Name] = s
	}

	return c.Expand(values)
}

// String returns the allowed methods and the template, e.g. "GET|POST /users".
func (r *Route) String() string {
	methods := "ANY"
	if len(r.methods) > 0 {
		methods = strings.ToUpper(strings.Join(r.methods, "|"))
	}
	return methods + " " + r.Template()
}
