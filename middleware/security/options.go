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

// Option configures the security stage.
type Option func(*config)

type config struct {
	frameOptions          string
	nosniff               bool
	contentSecurityPolicy string
	referrerPolicy        string
	permissionsPolicy     string
	hstsMaxAge            int
	hstsSubdomains        bool
	hstsPreload           bool
	custom                map[string]string
}

func defaultConfig() *config {
	return &config{
		frameOptions:          "DENY",
		nosniff:               true,
		contentSecurityPolicy: "default-src 'self'",
		referrerPolicy:        "strict-origin-when-cross-origin",
		hstsMaxAge:            31536000,
		hstsSubdomains:        true,
		custom:                make(map[string]string),
	}
}

// WithFrameOptions sets X-Frame-Options. An empty value omits the header.
func WithFrameOptions(value string) Option {
	return func(c *config) { c.frameOptions = value }
}

// WithContentTypeNosniff toggles X-Content-Type-Options: nosniff.
func WithContentTypeNosniff(enabled bool) Option {
	return func(c *config) { c.nosniff = enabled }
}

// WithContentSecurityPolicy sets Content-Security-Policy.
func WithContentSecurityPolicy(policy string) Option {
	return func(c *config) { c.contentSecurityPolicy = policy }
}

// WithReferrerPolicy sets Referrer-Policy.
func WithReferrerPolicy(policy string) Option {
	return func(c *config) { c.referrerPolicy = policy }
}

// WithPermissionsPolicy sets Permissions-Policy.
func WithPermissionsPolicy(policy string) Option {
	return func(c *config) { c.permissionsPolicy = policy }
}

// WithHSTS configures Strict-Transport-Security, sent on TLS requests only.
// A maxAge of 0 disables it.
func WithHSTS(maxAge int, includeSubdomains, preload bool) Option {
	return func(c *config) {
		c.hstsMaxAge = maxAge
		c.hstsSubdomains = includeSubdomains
		c.hstsPreload = preload
	}
}

// WithHeader adds a custom header.
func WithHeader(name, value string) Option {
	return func(c *config) { c.custom[name] = value }
}

// DevelopmentPreset relaxes the policy for local work: framing from the same
// origin, inline scripts and no HSTS.
func DevelopmentPreset() Option {
	return func(c *config) {
		c.frameOptions = "SAMEORIGIN"
		c.contentSecurityPolicy = "default-src 'self' 'unsafe-inline' 'unsafe-eval'; img-src 'self' data:"
		c.referrerPolicy = "no-referrer-when-downgrade"
		c.hstsMaxAge = 0
	}
}

// ProductionPreset enables every header with strict values, HSTS preload
// included.
func ProductionPreset() Option {
	return func(c *config) {
		c.frameOptions = "DENY"
		c.nosniff = true
		c.contentSecurityPolicy = "default-src 'self'"
		c.referrerPolicy = "strict-origin-when-cross-origin"
		c.permissionsPolicy = "geolocation=(), microphone=(), camera=()"
		c.hstsMaxAge = 31536000
		c.hstsSubdomains = true
		c.hstsPreload = true
	}
}
