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

// Package cors provides a kernel stage for Cross-Origin Resource Sharing.
//
// No origin is allowed by default. Preflight requests (OPTIONS with an
// Access-Control-Request-Method header) from an allowed origin are answered
// with 204 and never reach the router. Other requests from an allowed origin
// get their CORS headers in the after pass, so error responses carry them
// too.
//
//	a.Use(cors.New(
//	    cors.WithAllowedOrigins("https://app.example.com"),
//	    cors.WithAllowCredentials(true),
//	))
//
// Wildcard origins and credentials do not mix: with both set, the request
// origin is echoed instead of "*".
package cors
