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

// Package kernel drives a single unit of work through a middleware pipeline
// and an application.
//
// A [Pipeline] holds an ordered list of [Middleware] stages and runs them in
// two passes over the same input and output values: the before pass in
// registration order and the after pass in reverse order. Each stage
// receives a [Next] continuation and decides whether to call it:
//
//	logStage := kernel.MiddlewareFunc[*Request, *Response](
//	    func(in *Request, out *Response, next *kernel.Next[*Request, *Response]) (*Response, error) {
//	        if next.Pass() == kernel.PassBefore {
//	            out.Stash("start", time.Now())
//	        }
//	        return next.Handle(in, out)
//	    })
//
// A stage that returns without calling next ends the pass; the stages after
// it do not run in that pass. Nothing records the short circuit, so the
// after pass still visits every stage unless one of them stops it again.
//
// A [Kernel] wraps a pipeline and an [Application]:
//
//	k := kernel.MustNew[*Request, *Response](app)
//	k.Pipe(logStage, authStage)
//	out, err := k.Run(in, out)
//	k.Terminate()
//
// Run executes the before pass, the application and the after pass, in
// that order, and moves the kernel through [StateIdle], [StateBeforeRunning],
// [StateDispatching], [StateAfterRunning] and finally [StateTerminated] on
// Terminate. A kernel runs once; [Kernel.Fork] creates an idle copy sharing
// the application and the pipeline.
//
// Everything runs synchronously on the calling goroutine. Errors returned by
// stages or the application end the run and are returned as is; the kernel
// does not recover panics.
package kernel
