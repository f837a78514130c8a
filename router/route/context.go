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

package route

import (
	"net/http"
	"strings"
)

// Context carries the request facts a route checks besides the path.
type Context struct {
	Method string
	Secure bool
}

// ContextFromRequest derives a Context from req. The transport is secure when
// the connection uses TLS or a proxy reports X-Forwarded-Proto: https.
func ContextFromRequest(req *http.Request) Context {
	secure := req.TLS != nil
	if !secure {
		proto := req.Header.Get("X-Forwarded-Proto")
		if i := strings.IndexByte(proto, ','); i >= 0 {
			proto = proto[:i]
		}
		secure = strings.EqualFold(strings.TrimSpace(proto), "https")
	}
	return Context{Method: req.Method, Secure: secure}
}
