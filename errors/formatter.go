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

package errors

import (
	"encoding/json"
	"net/http"
)

// Formatter converts an error into response components.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// FormatterFunc adapts a function to [Formatter].
type FormatterFunc func(req *http.Request, err error) Response

// Format implements [Formatter].
func (f FormatterFunc) Format(req *http.Request, err error) Response { return f(req, err) }

// Response is a formatted error response.
type Response struct {
	Status      int
	ContentType string
	Body        any
	Headers     http.Header // optional
}

// ErrorType is implemented by errors that declare their HTTP status.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails is implemented by errors exposing structured details.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode is implemented by errors exposing a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// WithStatus wraps err with an explicit HTTP status. A nil err renders as
// the status text.
//
//	return errors.WithStatus(err, http.StatusConflict)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }

// Write sends resp to w as JSON.
func Write(w http.ResponseWriter, resp Response) error {
	for k, vs := range resp.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(resp.Status)
	if resp.Body == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(resp.Body)
}

// statusOf resolves the status with resolver, then [ErrorType], then 500.
func statusOf(err error, resolver func(error) int) int {
	if resolver != nil {
		return resolver(err)
	}
	if typed, ok := asType[ErrorType](err); ok {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}
