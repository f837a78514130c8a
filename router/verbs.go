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
	"fmt"
	"net/http"
	"strings"

	"titon.dev/framework/router/route"
)

func (r *Router) handle(method, name, path string, action route.Action, opts []route.Option) (*route.Route, error) {
	if method != "" {
		opts = append(opts, route.WithMethods(method))
	}
	rt := route.New(path, action, opts...)
	if err := r.Map(name, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// Get maps a route accepting GET requests.
func (r *Router) Get(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle(http.MethodGet, name, path, action, opts)
}

// Post maps a route accepting POST requests.
func (r *Router) Post(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle(http.MethodPost, name, path, action, opts)
}

// Put maps a route accepting PUT requests.
func (r *Router) Put(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle(http.MethodPut, name, path, action, opts)
}

// Patch maps a route accepting PATCH requests.
func (r *Router) Patch(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle(http.MethodPatch, name, path, action, opts)
}

// Delete maps a route accepting DELETE requests.
func (r *Router) Delete(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle(http.MethodDelete, name, path, action, opts)
}

// Head maps a route accepting HEAD requests.
func (r *Router) Head(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle(http.MethodHead, name, path, action, opts)
}

// Options maps a route accepting OPTIONS requests.
func (r *Router) Options(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle(http.MethodOptions, name, path, action, opts)
}

// Any maps a route accepting every method.
func (r *Router) Any(name, path string, action route.Action, opts ...route.Option) (*route.Route, error) {
	return r.handle("", name, path, action, opts)
}

// Resource actions, in registration order.
const (
	ActionList   = "list"
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var resourceMap = []struct {
	action  string
	suffix  string
	methods []string
}{
	{ActionList, "", []string{http.MethodGet}},
	{ActionCreate, "", []string{http.MethodPost}},
	{ActionRead, "/[id]", []string{http.MethodGet}},
	{ActionUpdate, "/[id]", []string{http.MethodPut, http.MethodPatch}},
	{ActionDelete, "/[id]", []string{http.MethodDelete}},
}

// Resource maps the REST routes of a controller:
//
//	name.list    GET        path
//	name.create  POST       path
//	name.read    GET        path/[id]
//	name.update  PUT|PATCH  path/[id]
//	name.delete  DELETE     path/[id]
//
// Each route dispatches to controller@<action>. opts apply to all five
// routes. Mapping stops at the first failure.
func (r *Router) Resource(name, path, controller string, opts ...route.Option) error {
	if controller == "" || strings.Contains(controller, "@") {
		return fmt.Errorf("%w: resource controller %q", route.ErrInvalidAction, controller)
	}
	for _, res := range resourceMap {
		ro := append([]route.Option{route.WithMethods(res.methods...)}, opts...)
		rt := route.New(path+res.suffix, route.Controller(controller, res.action), ro...)
		if err := r.Map(name+"."+res.action, rt); err != nil {
			return err
		}
	}
	return nil
}
