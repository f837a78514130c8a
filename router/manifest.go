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
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"titon.dev/framework/config"
	"titon.dev/framework/router/route"
)

// Manifest declares routes as data. It is the startup-time alternative to
// calling [Router.Map] from code and is usually read from a file:
//
//	routes:
//	  - name: home
//	    path: /
//	    action: Pages@home
//	groups:
//	  - prefix: /admin
//	    secure: true
//	    filters: [auth]
//	    routes:
//	      - name: admin.users
//	        path: /users/[id?]
//	        action: Admin@users
//	        methods: [get]
//
// Routes are registered in order: top-level routes first, then each group
// with its own routes before its nested groups.
type Manifest struct {
	Routes []RouteSpec `config:"routes" validate:"dive"`
	Groups []GroupSpec `config:"groups" validate:"dive"`
}

// RouteSpec declares a single route. Only controller actions can be
// declared, in "Controller@method" form.
type RouteSpec struct {
	Name     string            `config:"name" validate:"required"`
	Path     string            `config:"path" validate:"required"`
	Action   string            `config:"action" validate:"required,action"`
	Methods  []string          `config:"methods" validate:"dive,http_method"`
	Patterns map[string]string `config:"patterns" validate:"dive,keys,required,endkeys,required"`
	Filters  []string          `config:"filters" validate:"dive,required"`
	Defaults map[string]any    `config:"defaults"`
	Secure   bool              `config:"secure"`
	Locale   bool              `config:"locale"`
}

// GroupSpec declares a group and the routes and groups nested in it.
type GroupSpec struct {
	Prefix   string            `config:"prefix"`
	Suffix   string            `config:"suffix"`
	Methods  []string          `config:"methods" validate:"dive,http_method"`
	Patterns map[string]string `config:"patterns" validate:"dive,keys,required,endkeys,required"`
	Filters  []string          `config:"filters" validate:"dive,required"`
	Secure   bool              `config:"secure"`
	Routes   []RouteSpec       `config:"routes" validate:"dive"`
	Groups   []GroupSpec       `config:"groups" validate:"dive"`
}

// ManifestError lists every problem found in a manifest.
type ManifestError struct {
	Problems []string
}

func (e *ManifestError) Error() string {
	return "invalid route manifest: " + strings.Join(e.Problems, "; ")
}

func (e *ManifestError) Unwrap() error { return ErrInvalidManifest }

var manifestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("config"); name != "" && name != "-" {
			return name
		}
		return fld.Name
	})
	// registration only fails for empty tags or nil functions
	_ = v.RegisterValidation("action", func(fl validator.FieldLevel) bool {
		_, err := route.ParseAction(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("http_method", func(fl validator.FieldLevel) bool {
		return slices.Contains(httpMethods, strings.ToUpper(fl.Field().String()))
	})
	return v
})

var httpMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
}

// Validate checks the manifest and reports every problem at once. Route
// names must be unique across the manifest.
func (m *Manifest) Validate() error {
	var problems []string

	err := manifestValidator().Struct(m)
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s: %s", strings.TrimPrefix(fe.Namespace(), "Manifest."), fieldMessage(fe)))
		}
	case err != nil:
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	seen := make(map[string]struct{})
	m.walk(func(rs RouteSpec) {
		if rs.Name == "" {
			return
		}
		if _, dup := seen[rs.Name]; dup {
			problems = append(problems, fmt.Sprintf("route %q declared more than once", rs.Name))
		}
		seen[rs.Name] = struct{}{}
	})

	if len(problems) > 0 {
		return &ManifestError{Problems: problems}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "action":
		return fmt.Sprintf("%q is not in Controller@method form", fe.Value())
	case "http_method":
		return fmt.Sprintf("%q is not an HTTP method", fe.Value())
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}

func (m *Manifest) walk(fn func(RouteSpec)) {
	for _, rs := range m.Routes {
		fn(rs)
	}
	var walkGroups func([]GroupSpec)
	walkGroups = func(groups []GroupSpec) {
		for _, g := range groups {
			for _, rs := range g.Routes {
				fn(rs)
			}
			walkGroups(g.Groups)
		}
	}
	walkGroups(m.Groups)
}

// Len returns the number of routes declared in the manifest.
func (m *Manifest) Len() int {
	n := 0
	m.walk(func(RouteSpec) { n++ })
	return n
}

// Route builds the route declared by rs.
func (rs RouteSpec) Route() (*route.Route, error) {
	action, err := route.ParseAction(rs.Action)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", rs.Name, err)
	}

	opts := []route.Option{
		route.WithMethods(rs.Methods...),
		route.WithPatterns(rs.Patterns),
		route.WithFilters(rs.Filters...),
	}
	if rs.Secure {
		opts = append(opts, route.WithSecure(true))
	}

	var rt *route.Route
	if rs.Locale {
		rt = route.NewLocale(rs.Path, action, opts...)
	} else {
		rt = route.New(rs.Path, action, opts...)
	}
	for token, v := range rs.Defaults {
		rt.SetDefault(token, v)
	}
	return rt, nil
}

// Group builds the group declared by gs, without its routes.
func (gs GroupSpec) Group() *route.Group {
	opts := []route.Option{
		route.WithMethods(gs.Methods...),
		route.WithPatterns(gs.Patterns),
		route.WithFilters(gs.Filters...),
	}
	if gs.Prefix != "" {
		opts = append(opts, route.WithPrefix(gs.Prefix))
	}
	if gs.Suffix != "" {
		opts = append(opts, route.WithSuffix(gs.Suffix))
	}
	if gs.Secure {
		opts = append(opts, route.WithSecure(true))
	}
	return route.NewGroup(opts...)
}

// Load validates m and maps every route it declares. Routes mapped before a
// failure stay registered.
func (r *Router) Load(m *Manifest) error {
	if m == nil {
		return fmt.Errorf("%w: manifest cannot be nil", ErrInvalidManifest)
	}
	if err := m.Validate(); err != nil {
		return err
	}

	if err := r.mapSpecs(m.Routes); err != nil {
		return err
	}
	return r.loadGroups(m.Groups)
}

func (r *Router) mapSpecs(specs []RouteSpec) error {
	for _, rs := range specs {
		rt, err := rs.Route()
		if err != nil {
			return err
		}
		if err = r.Map(rs.Name, rt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) loadGroups(groups []GroupSpec) error {
	for _, gs := range groups {
		err := r.Group(gs.Group(), func(r *Router) error {
			if err := r.mapSpecs(gs.Routes); err != nil {
				return err
			}
			return r.loadGroups(gs.Groups)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads a manifest from path; the format follows the file
// extension. opts add further configuration sources, merged over the file,
// such as config.WithEnv or config.WithConsul.
func LoadFile(ctx context.Context, path string, opts ...config.Option) (*Manifest, error) {
	var m Manifest
	all := append([]config.Option{config.WithFile(path)}, opts...)
	all = append(all, config.WithBinding(&m))

	cfg, err := config.New(all...)
	if err != nil {
		return nil, fmt.Errorf("route manifest %s: %w", path, err)
	}
	if err = cfg.Load(ctx); err != nil {
		return nil, fmt.Errorf("route manifest %s: %w", path, err)
	}
	return &m, nil
}
