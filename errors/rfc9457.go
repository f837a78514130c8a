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

	"github.com/google/uuid"
)

// RFC9457 renders RFC 9457 problem details ("application/problem+json").
type RFC9457 struct {
	// BaseURL prefixes error codes to form the problem type URI.
	BaseURL string

	// TypeResolver overrides problem type detection when set.
	TypeResolver func(err error) string

	// StatusResolver overrides status detection when set.
	StatusResolver func(err error) int

	// ErrorIDGenerator overrides the default UUIDv7 error ids.
	ErrorIDGenerator func() string

	// DisableErrorID omits the error_id extension.
	DisableErrorID bool
}

// NewRFC9457 creates an RFC9457 formatter.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// ProblemDetail is an RFC 9457 problem document. Extensions are marshaled
// inline and cannot shadow the standard members.
type ProblemDetail struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

// MarshalJSON implements json.Marshaler.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		m[k] = v
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	} else {
		delete(m, "detail")
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	} else {
		delete(m, "instance")
	}
	return json.Marshal(m)
}

// Format implements [Formatter].
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := statusOf(err, f.StatusResolver)

	p := ProblemDetail{
		Type:       f.problemType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: make(map[string]any),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.Path
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			p.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			p.Extensions["error_id"] = newErrorID()
		}
	}
	if d, ok := asType[ErrorDetails](err); ok {
		p.Extensions["errors"] = d.Details()
	}
	if c, ok := asType[ErrorCode](err); ok {
		p.Extensions["code"] = c.Code()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}
	if c, ok := asType[ErrorCode](err); ok {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + c.Code()
		}
		return c.Code()
	}
	return "about:blank"
}

func newErrorID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "err-" + uuid.NewString()
	}
	return "err-" + id.String()
}
