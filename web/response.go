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
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"sync"
)

// ErrAlreadyFlushed indicates a second Flush of the same response.
var ErrAlreadyFlushed = errors.New("response already flushed")

// Response buffers the kernel output for one HTTP request. It is safe for
// concurrent use.
type Response struct {
	mu      sync.Mutex
	status  int
	header  http.Header
	body    bytes.Buffer
	stash   map[string]any
	halted  bool
	flushed bool
	finish  []func(*Response)
}

// NewResponse creates an empty 200 OK response.
func NewResponse() *Response {
	return &Response{status: http.StatusOK, header: make(http.Header)}
}

// Status returns the status code.
func (r *Response) Status() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// SetStatus sets the status code.
func (r *Response) SetStatus(code int) {
	r.mu.Lock()
	r.status = code
	r.mu.Unlock()
}

// Header returns the response headers. The map is shared; callers must not
// use it concurrently with Flush.
func (r *Response) Header() http.Header { return r.header }

// Write appends p to the body.
func (r *Response) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(p)
}

// WriteString appends s to the body.
func (r *Response) WriteString(s string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.WriteString(s)
}

// Reset discards the body, keeping status and headers.
func (r *Response) Reset() {
	r.mu.Lock()
	r.body.Reset()
	r.mu.Unlock()
}

// Body returns a copy of the buffered body.
func (r *Response) Body() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return bytes.Clone(r.body.Bytes())
}

// Len returns the body size in bytes.
func (r *Response) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Len()
}

// Text replaces the body with s as text/plain.
func (r *Response) Text(status int, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	r.body.Reset()
	r.body.WriteString(s)
}

// JSON replaces the body with v encoded as JSON.
func (r *Response) JSON(status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.header.Set("Content-Type", "application/json; charset=utf-8")
	r.body.Reset()
	r.body.Write(data)
	return nil
}

// Stash stores a value for the stages and the application handling the
// same request.
func (r *Response) Stash(key string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stash == nil {
		r.stash = make(map[string]any)
	}
	r.stash[key] = v
}

// Stashed returns a stashed value.
func (r *Response) Stashed(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.stash[key]
	return v, ok
}

// StashValues returns a copy of the stash.
func (r *Response) StashValues() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.stash)
}

// Halt marks the response as complete. The application skips routing for a
// halted response; after-pass stages still run.
func (r *Response) Halt() {
	r.mu.Lock()
	r.halted = true
	r.mu.Unlock()
}

// Halted reports whether Halt was called.
func (r *Response) Halted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halted
}

// OnFinish registers fn to run once the request is complete, whether the
// after pass ran or not. Hooks run in reverse registration order.
func (r *Response) OnFinish(fn func(*Response)) {
	r.mu.Lock()
	r.finish = append(r.finish, fn)
	r.mu.Unlock()
}

// Finish runs and clears the hooks registered with OnFinish, passing final
// or r when final is nil. Later calls are no-ops.
func (r *Response) Finish(final *Response) {
	r.mu.Lock()
	hooks := r.finish
	r.finish = nil
	r.mu.Unlock()

	if final == nil {
		final = r
	}
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i](final)
	}
}

// Discard drops status, headers, body and the halt mark so an error can be
// rendered in their place. Stash values and finish hooks are kept.
func (r *Response) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = http.StatusOK
	clear(r.header)
	r.body.Reset()
	r.halted = false
}

// Flushed reports whether Flush was called.
func (r *Response) Flushed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushed
}

// Flush writes headers, status and body to w. HEAD responses keep their
// Content-Length but send no body; 1xx, 204 and 304 responses never carry one.
func (r *Response) Flush(w http.ResponseWriter, method string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.flushed {
		return ErrAlreadyFlushed
	}
	r.flushed = true

	dst := w.Header()
	for k, vs := range r.header {
		dst[k] = append([]string(nil), vs...)
	}

	if !bodyAllowed(r.status) {
		w.WriteHeader(r.status)
		return nil
	}
	if r.body.Len() > 0 && dst.Get("Content-Type") == "" {
		dst.Set("Content-Type", http.DetectContentType(r.body.Bytes()))
	}
	dst.Set("Content-Length", strconv.Itoa(r.body.Len()))

	w.WriteHeader(r.status)
	if method == http.MethodHead || r.body.Len() == 0 {
		return nil
	}
	_, err := w.Write(r.body.Bytes())
	return err
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
