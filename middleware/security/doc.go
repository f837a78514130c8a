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

// Package security provides a kernel stage that adds security headers to
// every response.
//
// Defaults:
//
//	X-Frame-Options: DENY
//	X-Content-Type-Options: nosniff
//	Content-Security-Policy: default-src 'self'
//	Referrer-Policy: strict-origin-when-cross-origin
//	Strict-Transport-Security: max-age=31536000; includeSubDomains  (TLS only)
//
// Headers are applied in the after pass and never replace a value the
// action already set, so a single action can relax its own policy.
//
//	a.Use(security.New(security.ProductionPreset()))
package security
