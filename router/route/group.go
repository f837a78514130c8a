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

// Group bundles constraints shared by the routes registered within it.
//
// Example:
//
//	admin := route.NewGroup(
//	    route.WithPrefix("/admin"),
//	    route.WithSecure(true),
//	    route.WithFilters("auth"),
//	)
type Group struct {
	Constraints
}

// NewGroup creates a group configured by opts.
func NewGroup(opts ...Option) *Group {
	g := &Group{}
	for _, opt := range opts {
		opt(&g.Constraints)
	}
	return g
}

// Nest returns a group combining g with the inner group nested inside it.
// Prefixes concatenate outer first, suffixes inner first. The inner group's
// secure flag overrides the outer one when set; everything else is unioned.
// Neither group is modified.
func (g *Group) Nest(inner *Group) *Group {
	if inner == nil {
		return &Group{Constraints: g.clone()}
	}
	out := &Group{Constraints: inner.clone()}
	out.Merge(&g.Constraints)

	if g.set&setPrefix != 0 || inner.set&setPrefix != 0 {
		out.SetPrefix(g.prefix + inner.prefix)
	}
	if g.set&setSuffix != 0 || inner.set&setSuffix != 0 {
		out.SetSuffix(inner.suffix + g.suffix)
	}
	return out
}
