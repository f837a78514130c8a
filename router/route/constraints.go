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
	"maps"
	"slices"
	"strings"
)

// Condition is an extra match predicate evaluated against the request URL.
type Condition func(url string) bool

// scalar fields that were explicitly set and therefore win over a group.
const (
	setPrefix uint8 = 1 << iota
	setSuffix
	setSecure
)

// Constraints holds the predicate and template fields shared by [Route] and
// [Group]. The zero value is ready to use.
type Constraints struct {
	prefix     string
	suffix     string
	methods    []string
	patterns   map[string]string
	conditions []Condition
	filters    []string
	secure     bool

	set uint8
}

// Option configures a [Route] or a [Group].
type Option func(*Constraints)

// WithPrefix sets the path prefix.
func WithPrefix(prefix string) Option {
	return func(c *Constraints) { c.SetPrefix(prefix) }
}

// WithSuffix sets the path suffix.
func WithSuffix(suffix string) Option {
	return func(c *Constraints) { c.SetSuffix(suffix) }
}

// WithMethods restricts matching to the given HTTP methods.
// Methods are compared case-insensitively.
//
// Example:
//
//	route.New("/users", action, route.WithMethods("get", "head"))
func WithMethods(methods ...string) Option {
	return func(c *Constraints) { c.AddMethods(methods...) }
}

// WithPattern registers a regular expression fragment for a token name.
func WithPattern(name, pattern string) Option {
	return func(c *Constraints) { c.AddPattern(name, pattern) }
}

// WithPatterns registers several token patterns at once.
func WithPatterns(patterns map[string]string) Option {
	return func(c *Constraints) { c.AddPatterns(patterns) }
}

// WithCondition adds a match predicate.
func WithCondition(cond Condition) Option {
	return func(c *Constraints) { c.AddCondition(cond) }
}

// WithFilters attaches named filters, run by the router after a match.
func WithFilters(names ...string) Option {
	return func(c *Constraints) { c.AddFilters(names...) }
}

// WithSecure requires (or explicitly does not require) a secure transport.
func WithSecure(secure bool) Option {
	return func(c *Constraints) { c.SetSecure(secure) }
}

// Prefix returns the path prefix.
func (c *Constraints) Prefix() string { return c.prefix }

// SetPrefix sets the path prefix.
func (c *Constraints) SetPrefix(prefix string) {
	c.prefix = prefix
	c.set |= setPrefix
}

// Suffix returns the path suffix.
func (c *Constraints) Suffix() string { return c.suffix }

// SetSuffix sets the path suffix.
func (c *Constraints) SetSuffix(suffix string) {
	c.suffix = suffix
	c.set |= setSuffix
}

// Secure reports whether a secure transport is required.
func (c *Constraints) Secure() bool { return c.secure }

// SetSecure sets the secure requirement.
func (c *Constraints) SetSecure(secure bool) {
	c.secure = secure
	c.set |= setSecure
}

// Methods returns the allowed methods in lowercase. An empty list allows all.
func (c *Constraints) Methods() []string { return slices.Clone(c.methods) }

// AddMethods allows additional methods. Duplicates are ignored.
func (c *Constraints) AddMethods(methods ...string) {
	for _, m := range methods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && !slices.Contains(c.methods, m) {
			c.methods = append(c.methods, m)
		}
	}
}

// AllowsMethod reports whether method is permitted.
func (c *Constraints) AllowsMethod(method string) bool {
	return len(c.methods) == 0 || slices.Contains(c.methods, strings.ToLower(method))
}

// Patterns returns a copy of the token patterns.
func (c *Constraints) Patterns() map[string]string { return maps.Clone(c.patterns) }

// AddPattern registers a pattern for a token name, replacing any previous one.
func (c *Constraints) AddPattern(name, pattern string) {
	if c.patterns == nil {
		c.patterns = make(map[string]string)
	}
	c.patterns[name] = pattern
}

// AddPatterns registers several token patterns.
func (c *Constraints) AddPatterns(patterns map[string]string) {
	for name, p := range patterns {
		c.AddPattern(name, p)
	}
}

// Conditions returns the match predicates in registration order.
func (c *Constraints) Conditions() []Condition { return slices.Clone(c.conditions) }

// AddCondition appends a match predicate. Nil conditions are ignored.
func (c *Constraints) AddCondition(cond Condition) {
	if cond != nil {
		c.conditions = append(c.conditions, cond)
	}
}

// Filters returns the filter names in registration order.
func (c *Constraints) Filters() []string { return slices.Clone(c.filters) }

// AddFilters attaches filter names. Duplicates are ignored.
func (c *Constraints) AddFilters(names ...string) {
	for _, n := range names {
		if n != "" && !slices.Contains(c.filters, n) {
			c.filters = append(c.filters, n)
		}
	}
}

// Clone returns a deep copy of c.
func (c *Constraints) Clone() Constraints {
	return Constraints{
		prefix:     c.prefix,
		suffix:     c.suffix,
		methods:    slices.Clone(c.methods),
		patterns:   maps.Clone(c.patterns),
		conditions: slices.Clone(c.conditions),
		filters:    slices.Clone(c.filters),
		secure:     c.secure,
		set:        c.set,
	}
}

// Merge seeds c with base. Methods, conditions and filters are unioned with
// base entries first. Patterns from base are added unless c already defines
// the token. Prefix, suffix and secure are copied only when c never set them.
func (c *Constraints) Merge(base *Constraints) {
	if base == nil {
		return
	}

	if c.set&setPrefix == 0 && base.set&setPrefix != 0 {
		c.prefix = base.prefix
		c.set |= setPrefix
	}
	if c.set&setSuffix == 0 && base.set&setSuffix != 0 {
		c.suffix = base.suffix
		c.set |= setSuffix
	}
	if c.set&setSecure == 0 && base.set&setSecure != 0 {
		c.secure = base.secure
		c.set |= setSecure
	}

	methods := slices.Clone(base.methods)
	for _, m := range c.methods {
		if !slices.Contains(methods, m) {
			methods = append(methods, m)
		}
	}
	c.methods = methods

	c.conditions = append(slices.Clone(base.conditions), c.conditions...)

	filters := slices.Clone(base.filters)
	for _, f := range c.filters {
		if !slices.Contains(filters, f) {
			filters = append(filters, f)
		}
	}
	c.filters = filters

	for name, p := range base.patterns {
		if _, ok := c.patterns[name]; !ok {
			c.AddPattern(name, p)
		}
	}
}

func (c *Constraints) clone() Constraints {
	out := *c
	out.methods = slices.Clone(c.methods)
	out.patterns = maps.Clone(c.patterns)
	out.conditions = slices.Clone(c.conditions)
	out.filters = slices.Clone(c.filters)
	return out
}
