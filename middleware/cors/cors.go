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

package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"titon.dev/framework/kernel"
	"titon.dev/framework/web"
)

// New returns the CORS stage.
func New(opts ...Option) web.Stage {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	methods := strings.Join(cfg.allowedMethods, ", ")
	headers := strings.Join(cfg.allowedHeaders, ", ")
	exposed := strings.Join(cfg.exposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.maxAge)

	return web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		origin := in.Header("Origin")
		if origin == "" {
			return next.Handle(in, out)
		}
		allowed := cfg.allow(origin)
		if allowed == "" {
			return next.Handle(in, out)
		}

		if next.Pass() == kernel.PassBefore {
			if !isPreflight(in) {
				return next.Handle(in, out)
			}
			cfg.setOrigin(out.Header(), origin, allowed)
			h := out.Header()
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Max-Age", maxAge)
			out.SetStatus(http.StatusNoContent)
			out.Halt()
			return out, nil
		}

		if isPreflight(in) {
			return next.Handle(in, out)
		}
		cfg.setOrigin(out.Header(), origin, allowed)
		if exposed != "" {
			out.Header().Set("Access-Control-Expose-Headers", exposed)
		}
		return next.Handle(in, out)
	})
}

// allow returns the Access-Control-Allow-Origin value for origin, or "" when
// the origin is rejected.
func (c *config) allow(origin string) string {
	switch {
	case c.allowAllOrigins:
		return "*"
	case c.allowOriginFunc != nil:
		if c.allowOriginFunc(origin) {
			return origin
		}
	case slices.Contains(c.allowedOrigins, origin):
		return origin
	}
	return ""
}

func (c *config) setOrigin(h http.Header, origin, allowed string) {
	if c.allowCredentials && allowed == "*" {
		allowed = origin
	}
	h.Set("Access-Control-Allow-Origin", allowed)
	if allowed != "*" {
		h.Add("Vary", "Origin")
	}
	if c.allowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

func isPreflight(in *web.Request) bool {
	return in.Method() == http.MethodOptions && in.Header("Access-Control-Request-Method") != ""
}
