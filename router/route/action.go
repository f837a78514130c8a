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
	"strings"
)

// Callback is the function form of a route action. Arguments are the matched
// parameter values in token order.
type Callback func(args ...any) (any, error)

// Resolver turns a controller reference into a callable at dispatch time.
type Resolver interface {
	Resolve(controller, method string) (Callback, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(controller, method string) (Callback, error)

// Resolve implements [Resolver].
func (f ResolverFunc) Resolve(controller, method string) (Callback, error) {
	return f(controller, method)
}

// Action is either a [Callback] or a controller/method reference.
// The zero value is invalid.
type Action struct {
	fn         Callback
	controller string
	method     string
}

// Func returns an action invoking fn directly.
func Func(fn Callback) Action {
	return Action{fn: fn}
}

// Controller returns an action that is resolved through a [Resolver] on dispatch.
func Controller(controller, method string) Action {
	return Action{controller: controller, method: method}
}

// ParseAction parses the "Controller@method" notation.
func ParseAction(s string) (Action, error) {
	controller, method, ok := strings.Cut(s, "@")
	if !ok || controller == "" || method == "" || strings.Contains(method, "@") {
		return Action{}, fmt.Errorf("%w: %q is not in Controller@method form", ErrInvalidAction, s)
	}
	return Controller(controller, method), nil
}

// MustParseAction is like [ParseAction] but panics on error.
func MustParseAction(s string) Action {
	a, err := ParseAction(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsValid reports whether the action has a target.
func (a Action) IsValid() bool {
	return a.fn != nil || (a.controller != "" && a.method != "")
}

// IsCallback reports whether the action is a direct callback.
func (a Action) IsCallback() bool { return a.fn != nil }

// Target returns the controller and method of a controller action.
func (a Action) Target() (controller, method string) {
	return a.controller, a.method
}

func (a Action) String() string {
	switch {
	case a.fn != nil:
		return "func"
	case a.controller != "":
		return a.controller + "@" + a.method
	default:
		return "<none>"
	}
}

// Invoke calls the action with args. Controller actions need res.
func (a Action) Invoke(res Resolver, args ...any) (any, error) {
	if a.fn != nil {
		return a.fn(args...)
	}
	if !a.IsValid() {
		return nil, ErrInvalidAction
	}
	if res == nil {
		return nil, &ActionError{Action: a}
	}

	fn, err := res.Resolve(a.controller, a.method)
	if err != nil {
		return nil, &ActionError{Action: a, Err: err}
	}
	if fn == nil {
		return nil, &ActionError{Action: a}
	}
	return fn(args...)
}
