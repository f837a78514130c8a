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

// Package accesslog provides a kernel stage that writes one structured log
// record per request.
//
// The stage notes the start time in the before pass and logs in the after
// pass, once the application has produced the response:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	a.Use(requestid.New())
//	a.Use(accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health", "/metrics"),
//	    accesslog.WithSlowThreshold(500*time.Millisecond),
//	))
//
// Records carry method, path, status, duration_ms, bytes_sent, user_agent,
// the matched route template and the request id set by the requestid stage.
// Server errors are logged at error level, client errors and slow requests
// at warn level, everything else at info level.
//
// Sampling is deterministic on the request id, so every replica makes the
// same decision for a request. Errors and slow requests are always logged.
package accesslog
