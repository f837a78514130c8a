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

// Package web defines the input and output values an HTTP kernel runs on.
//
// A [Request] wraps the incoming *http.Request and carries the route match
// once the router found one. A [Response] buffers status, headers and body
// so that after-pass stages can still change them; the application writes
// it to the connection with [Response.Flush] once the kernel run ended.
//
// Both values carry a stash shared by every stage and the application for
// the duration of one request:
//
//	start := web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
//	    if next.Pass() == kernel.PassBefore {
//	        out.Stash("start", time.Now())
//	    }
//	    return next.Handle(in, out)
//	})
package web

import "titon.dev/framework/kernel"

type (
	// Stage is a pipeline stage of an HTTP kernel.
	Stage = kernel.Middleware[*Request, *Response]

	// StageFunc is a function adapter for Stage.
	StageFunc = kernel.MiddlewareFunc[*Request, *Response]

	// Next is the continuation handed to a Stage.
	Next = kernel.Next[*Request, *Response]

	// Kernel runs HTTP stages around an application.
	Kernel = kernel.Kernel[*Request, *Response]
)
