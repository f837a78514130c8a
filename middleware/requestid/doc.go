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

// Package requestid provides a kernel stage that gives every request an
// identifier for log correlation.
//
// The stage reuses the X-Request-ID header sent by the client, unless told
// not to, and otherwise generates a UUID v7. The identifier is echoed in
// the response header, stored in the request context and stashed on the
// response under [StashKey].
//
//	a.Use(requestid.New())
//	a.Use(requestid.New(requestid.WithULID(), requestid.WithHeader("X-Correlation-ID")))
//
// UUID v7 and ULID values are both time-ordered:
//
//   - UUID v7 (default): 018f3e9a-1b2c-7def-8000-abcdef123456 (36 chars)
//   - ULID: 01ARZ3NDEKTSV4RRFFQ69G5FAV (26 chars)
//
// Handlers read the identifier with [FromContext] or [Get].
package requestid
