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

package web

import (
	"context"
	"net/http"

	"titon.dev/framework/router/route"
)

// Request is the kernel input for one HTTP request.
type Request struct {
	req   *http.Request
	match *route.Match
}

// NewRequest wraps req.
func NewRequest(req *http.Request) *Request {
	return &Request{req: req}
}

// HTTP returns the wrapped request.
func (r *Request) HTTP() *http.Request { return r.req }

// Context returns the request context.
func (r *Request) Context() context.Context { return r.req.Context() }

// SetContext replaces the request context. Stages use it to pass values to
// the stages and the application after them.
func (r *Request) SetContext(ctx context.Context) {
	r.req = r.req.WithContext(ctx)
}

// Method returns the request method.
func (r *Request) Method() string { return r.req.Method }

// Path returns the escaped request path.
func (r *Request) Path() string { return r.req.URL.EscapedPath() }

// Header returns the first value of a request header.
func (r *Request) Header(key string) string { return r.req.Header.Get(key) }

// Match returns the route match, or nil before routing or on a miss.
func (r *Request) Match() *route.Match { return r.match }

// SetMatch records the route match.
func (r *Request) SetMatch(m *route.Match) { r.match = m }

// RouteName returns the matched route name, or "" when nothing matched.
func (r *Request) RouteName() string {
	if r.match == nil {
		return ""
	}
	return r.match.Route.Name()
}

// RouteTemplate returns the matched route template, used as a low
// cardinality label. It returns "_unmatched" when nothing matched.
func (r *Request) RouteTemplate() string {
	if r.match == nil {
		return "_unmatched"
	}
	return r.match.Route.Template()
}

// Param returns a matched route parameter.
func (r *Request) Param(key string) (any, bool) {
	if r.match == nil {
		return nil, false
	}
	return r.match.Params.Get(key)
}
