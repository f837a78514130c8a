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
	"errors"
	"fmt"

	"titon.dev/framework/router/compiler"
)

// Static errors for route operations.
var (
	// ErrInvalidRoute indicates that a route template failed to compile.
	ErrInvalidRoute = compiler.ErrInvalidTemplate

	// ErrMissingToken indicates that a required token had no value during Build.
	ErrMissingToken = compiler.ErrMissingToken

	// ErrInvalidToken indicates that a Build value does not satisfy its token pattern.
	ErrInvalidToken = compiler.ErrInvalidToken

	// ErrNoMatch indicates that a route was dispatched before it matched.
	ErrNoMatch = errors.New("route has not been matched")

	// ErrInvalidAction indicates a missing or malformed route action.
	ErrInvalidAction = errors.New("invalid route action")

	// ErrUnresolvedAction indicates that a controller action could not be resolved.
	ErrUnresolvedAction = errors.New("unresolved route action")
)

type (
	// CompileError describes a malformed template.
	CompileError = compiler.CompileError

	// MissingTokenError is returned by Build when a required token has no value.
	MissingTokenError = compiler.MissingTokenError

	// InvalidTokenError is returned by Build when a value does not fit its token.
	InvalidTokenError = compiler.InvalidTokenError
)

// ActionError wraps a failure to resolve a controller action.
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unresolved route action %s", e.Action)
	}
	return fmt.Sprintf("unresolved route action %s: %v", e.Action, e.Err)
}

// Unwrap returns [ErrUnresolvedAction] and the resolver error, if any.
func (e *ActionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnresolvedAction, e.Err}
	}
	return []error{ErrUnresolvedAction}
}
