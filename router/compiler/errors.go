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

package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTemplate indicates that a template could not be compiled.
	ErrInvalidTemplate = errors.New("invalid route template")

	// ErrMissingToken indicates that a required token had no value while building a path.
	ErrMissingToken = errors.New("missing route token")

	// ErrInvalidToken indicates that a value does not satisfy the token pattern.
	ErrInvalidToken = errors.New("invalid route token value")
)

// CompileError describes why a template failed to compile.
type CompileError struct {
	Template string
	Offset   int
	Reason   string
	Err      error // underlying regexp error, if any
}

func newCompileError(tpl string, offset int, format string, args ...any) *CompileError {
	return &CompileError{Template: tpl, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func wrapCompileError(tpl string, offset int, err error, format string, args ...any) *CompileError {
	e := newCompileError(tpl, offset, format, args...)
	e.Err = err
	return e
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("invalid route template %q at offset %d: %s", e.Template, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns [ErrInvalidTemplate] and the underlying error, if any.
func (e *CompileError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidTemplate, e.Err}
	}
	return []error{ErrInvalidTemplate}
}

// MissingTokenError is returned when a required token has no value.
type MissingTokenError struct {
	Template string
	Token    string
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("missing route token %q for %s", e.Token, e.Template)
}

func (e *MissingTokenError) Unwrap() error {
	return ErrMissingToken
}

// InvalidTokenError is returned when a value does not satisfy the token pattern.
type InvalidTokenError struct {
	Template string
	Token    string
	Value    string
	Pattern  string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("value %q for route token %q does not match %s in %s", e.Value, e.Token, e.Pattern, e.Template)
}

func (e *InvalidTokenError) Unwrap() error {
	return ErrInvalidToken
}
