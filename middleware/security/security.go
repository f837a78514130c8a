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
	"net/http"
	"strconv"

	"titon.dev/framework/kernel"
	"titon.dev/framework/web"
)

// New returns the security headers stage.
func New(opts ...Option) web.Stage {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	headers := cfg.headers()
	hsts := cfg.hsts()

	return web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		if next.Pass() == kernel.PassBefore {
			return next.Handle(in, out)
		}

		h := out.Header()
		for name, value := range headers {
			if h.Get(name) == "" {
				h.Set(name, value)
			}
		}
		if hsts != "" && in.HTTP().TLS != nil && h.Get("Strict-Transport-Security") == "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		return next.Handle(in, out)
	})
}

func (c *config) headers() map[string]string {
	m := make(map[string]string, len(c.custom)+5)
	set := func(name, value string) {
		if value != "" {
			m[http.CanonicalHeaderKey(name)] = value
		}
	}
	set("X-Frame-Options", c.frameOptions)
	if c.nosniff {
		set("X-Content-Type-Options", "nosniff")
	}
	set("Content-Security-Policy", c.contentSecurityPolicy)
	set("Referrer-Policy", c.referrerPolicy)
	set("Permissions-Policy", c.permissionsPolicy)
	for name, value := range c.custom {
		set(name, value)
	}
	return m
}

func (c *config) hsts() string {
	if c.hstsMaxAge <= 0 {
		return ""
	}
	v := "max-age=" + strconv.Itoa(c.hstsMaxAge)
	if c.hstsSubdomains {
		v += "; includeSubDomains"
	}
	if c.hstsPreload {
		v += "; preload"
	}
	return v
}
