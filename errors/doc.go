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

// Package errors formats Go errors as HTTP error responses.
//
// Errors control their rendering by implementing optional interfaces:
// [ErrorType] for the status code, [ErrorCode] for a machine-readable code
// and [ErrorDetails] for structured details. Wrapped errors are inspected with
// errors.As, so a router miss wrapped several times still renders as 404.
//
//	f := errors.NewRFC9457("https://titon.dev/problems")
//	errors.Write(w, f.Format(req, err))
package errors
