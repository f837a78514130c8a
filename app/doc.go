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

// Package app composes the router, the kernel and the error formatter into
// an HTTP application.
//
// Every request runs on a fork of the root kernel: the before pass of the
// stages registered with [App.Use], then the dispatcher, which matches the
// request against the router and invokes the route action, then the after
// pass. The buffered [web.Response] is flushed to the client last.
//
//	a := app.MustNew(app.WithServiceName("orders"))
//	a.Use(requestid.New(), accesslog.New(accesslog.WithLogger(logger)))
//
//	r := a.Router()
//	r.Get("home", "/", route.Func(func(...any) (any, error) {
//	    return "hello", nil
//	}))
//	r.Get("orders.show", "/orders/[id]", route.MustParseAction("Orders@show"))
//
//	a.Controller("Orders", app.Methods{
//	    "show": func(in *web.Request, out *web.Response, args ...any) (any, error) {
//	        return map[string]any{"id": args[0]}, nil
//	    },
//	})
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := a.Start(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Results
//
// Action results are written to the response unless the action already
// wrote a body: strings as text, byte slices as they are, nil as an empty
// body and any other value as JSON. A stage that halts the response in its
// before pass (see [web.Response.Halt]) skips routing altogether.
//
// # Errors
//
// Routing misses and action failures are rendered with the configured
// [errors.Formatter]. A miss is a 404; an action error uses the status it
// declares through [errors.ErrorType] and 500 otherwise.
//
// Panics and stage errors are rendered as 500 responses (or the declared
// status) and skip the remaining after pass. Hooks registered with
// [web.Response.OnFinish] still run once the error response is in place.
//
// # Lifecycle
//
// OnStart hooks run in order before listening and abort the start on the
// first error. Once the context passed to [App.Start] is done, OnShutdown
// hooks run in reverse order with the shutdown timeout, the server drains,
// tracing and metrics are flushed and OnStop hooks run last.
package app
