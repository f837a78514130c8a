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

// Package compression provides a kernel stage compressing response bodies
// with brotli or gzip, chosen from the request Accept-Encoding header.
//
// The stage works in the after pass on the buffered body, so the whole
// response is known before deciding: bodies below [WithMinSize], statuses
// without a body, already encoded responses and binary or streaming content
// types are left alone. Brotli wins over gzip at equal quality.
//
// Register it before the other stages so its after pass runs last and sees
// the final body:
//
//	a.Use(compression.New(compression.WithMinSize(512)))
//	a.Use(security.New(), requestid.New())
package compression
