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

package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titon.dev/framework/kernel"
	"titon.dev/framework/web"
)

func run(t *testing.T, stage web.Stage, req *http.Request) (*web.Request, *web.Response) {
	t.Helper()

	in := web.NewRequest(req)
	var seen string
	capture := web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		seen = Get(in)
		return next.Handle(in, out)
	})

	p := kernel.NewPipeline(stage, capture)
	out, err := p.RunBefore(in, web.NewResponse())
	require.NoError(t, err)
	assert.Equal(t, Get(in), seen, "later stages see the id")
	return in, out
}

func TestNew_GeneratesUUIDv7(t *testing.T) {
	t.Parallel()

	in, out := run(t, New(), httptest.NewRequest(http.MethodGet, "/", nil))

	id := out.Header().Get("X-Request-ID")
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, id, Get(in))

	stashed, ok := out.Stashed(StashKey)
	require.True(t, ok)
	assert.Equal(t, id, stashed)
}

func TestNew_ULID(t *testing.T) {
	t.Parallel()

	_, out := run(t, New(WithULID()), httptest.NewRequest(http.MethodGet, "/", nil))

	id := out.Header().Get("X-Request-ID")
	assert.Len(t, id, 26)
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)
}

func TestNew_ClientID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   []Option
		header string
		sent   string
		reused bool
	}{
		{"reused", nil, "X-Request-ID", "client-123", true},
		{"custom header", []Option{WithHeader("X-Correlation-ID")}, "X-Correlation-ID", "corr-1", true},
		{"disallowed", []Option{WithAllowClientID(false)}, "X-Request-ID", "client-123", false},
		{"too long", nil, "X-Request-ID", strings.Repeat("a", maxClientIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, tt.sent)

			_, out := run(t, New(tt.opts...), req)
			got := out.Header().Get(tt.header)
			if tt.reused {
				assert.Equal(t, tt.sent, got)
			} else {
				assert.NotEqual(t, tt.sent, got)
				assert.NotEmpty(t, got)
			}
		})
	}
}

func TestNew_Generator(t *testing.T) {
	t.Parallel()

	_, out := run(t, New(WithGenerator(func() string { return "fixed" }), WithGenerator(nil)),
		httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "fixed", out.Header().Get("X-Request-ID"))
}

func TestNew_AfterPassIsPassive(t *testing.T) {
	t.Parallel()

	p := kernel.NewPipeline(New())
	out, err := p.RunAfter(web.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil)), web.NewResponse())
	require.NoError(t, err)
	assert.Empty(t, out.Header().Get("X-Request-ID"))
}
