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
	"net/http"

	"titon.dev/framework/router/route"
)

// Static errors for router operations.
var (
	// ErrEmptyRouteName indicates that a route was mapped without a name.
	ErrEmptyRouteName = errors.New("route name cannot be empty")

	// ErrNilRoute indicates that a nil route was mapped.
	ErrNilRoute = errors.New("route cannot be nil")

	// ErrRouteNameExist indicates that a route name is already registered.
	ErrRouteNameExist = errors.New("route name already registered")

	// ErrMissingRoute indicates that no route is registered under a name.
	ErrMissingRoute = errors.New("route not registered")

	// ErrMissingFilter indicates that a route references an unknown filter.
	ErrMissingFilter = errors.New("filter not registered")

	// ErrRouterFrozen indicates a registration after the router started matching.
	ErrRouterFrozen = errors.New("router is frozen")

	// ErrNilFilter indicates that a nil filter was registered.
	ErrNilFilter = errors.New("filter cannot be nil")

	// ErrInvalidManifest indicates that a route manifest failed validation.
	ErrInvalidManifest = errors.New("invalid route manifest")
)

// RouteNameConflictError is returned when a name is mapped twice.
type RouteNameConflictError struct {
	Name     string
	Existing string // template of the route already registered
}

func (e *RouteNameConflictError) Error() string {
	return fmt.Sprintf("route name %q already registered for %s", e.Name, e.Existing)
}

func (e *RouteNameConflictError) Unwrap() error { return ErrRouteNameExist }

// NoMatchError is returned by [Router.Match] when no route accepts a URL.
// It wraps route.ErrNoMatch and renders as 404 Not Found.
type NoMatchError struct {
	URL    string
	Method string
}

func (e *NoMatchError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("no route matches %q", e.URL)
	}
	return fmt.Sprintf("no route matches %s %q", e.Method, e.URL)
}

func (e *NoMatchError) Unwrap() error { return route.ErrNoMatch }

// HTTPStatus returns 404.
func (e *NoMatchError) HTTPStatus() int { return http.StatusNotFound }

// Code returns a machine-readable error code.
func (e *NoMatchError) Code() string { return "ROUTE_NOT_FOUND" }

// MissingRouteError is returned when building a URL for an unknown name.
type MissingRouteError struct {
	Name string
}

func (e *MissingRouteError) Error() string {
	return fmt.Sprintf("route %q not registered", e.Name)
}

func (e *MissingRouteError) Unwrap() error { return ErrMissingRoute }

// Code returns a machine-readable error code.
func (e *MissingRouteError) Code() string { return "ROUTE_MISSING" }

// MissingFilterError is returned when a matched route references a filter
// that was never registered.
type MissingFilterError struct {
	Route  string
	Filter string
}

func (e *MissingFilterError) Error() string {
	return fmt.Sprintf("filter %q referenced by route %q not registered", e.Filter, e.Route)
}

func (e *MissingFilterError) Unwrap() error { return ErrMissingFilter }

// FilterError wraps an error returned by a filter. The match is aborted.
type FilterError struct {
	Route  string
	Filter string
	Err    error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %q rejected route %q: %v", e.Filter, e.Route, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }
