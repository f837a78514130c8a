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

package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titon.dev/framework/kernel"
	"titon.dev/framework/web"
)

func serve(t *testing.T, stage web.Stage, req *http.Request, action func(*web.Response)) http.Header {
	t.Helper()

	app := kernel.ApplicationFunc[*web.Request, *web.Response](func(in *web.Request, out *web.Response) (*web.Response, int, error) {
		if action != nil {
			action(out)
		}
		return out, kernel.ExitSuccess, nil
	})
	out, err := kernel.MustNew[*web.Request, *web.Response](app).Pipe(stage).Run(web.NewRequest(req), web.NewResponse())
	require.NoError(t, err)
	return out.Header()
}

func TestSecurity_Defaults(t *testing.T) {
	t.Parallel()

	h := serve(t, New(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'self'", h.Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Empty(t, h.Get("Permissions-Policy"))
	assert.Empty(t, h.Get("Strict-Transport-Security"), "HSTS is only sent over TLS")
}

func TestSecurity_HSTS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"default", nil, "max-age=31536000; includeSubDomains"},
		{"production", []Option{ProductionPreset()}, "max-age=31536000; includeSubDomains; preload"},
		{"custom", []Option{WithHSTS(600, false, false)}, "max-age=600"},
		{"disabled", []Option{WithHSTS(0, true, true)}, ""},
		{"development", []Option{DevelopmentPreset()}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
			req.TLS = &tls.ConnectionState{}
			h := serve(t, New(tt.opts...), req, nil)
			assert.Equal(t, tt.want, h.Get("Strict-Transport-Security"))
		})
	}
}

func TestSecurity_ActionHeadersWin(t *testing.T) {
	t.Parallel()

	h := serve(t, New(WithHeader("x-powered-by", "titon")), httptest.NewRequest(http.MethodGet, "/embed", nil), func(out *web.Response) {
		out.Header().Set("X-Frame-Options", "SAMEORIGIN")
	})

	assert.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"))
	assert.Equal(t, "titon", h.Get("X-Powered-By"))
}

func TestSecurity_Options(t *testing.T) {
	t.Parallel()

	h := serve(t, New(
		WithFrameOptions(""),
		WithContentTypeNosniff(false),
		WithContentSecurityPolicy("default-src 'none'"),
		WithReferrerPolicy("no-referrer"),
		WithPermissionsPolicy("camera=()"),
	), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Empty(t, h.Get("X-Frame-Options"))
	assert.Empty(t, h.Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'", h.Get("Content-Security-Policy"))
	assert.Equal(t, "no-referrer", h.Get("Referrer-Policy"))
	assert.Equal(t, "camera=()", h.Get("Permissions-Policy"))
}
