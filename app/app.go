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

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime/debug"
	"sync"
	"time"

	"titon.dev/framework/errors"
	"titon.dev/framework/kernel"
	"titon.dev/framework/logging"
	"titon.dev/framework/metrics"
	"titon.dev/framework/router"
	"titon.dev/framework/router/route"
	"titon.dev/framework/tracing"
	"titon.dev/framework/web"
)

// App is an HTTP application. It is safe for concurrent use once serving.
type App struct {
	serviceName       string
	serviceVersion    string
	address           string
	shutdownTimeout   time.Duration
	readHeaderTimeout time.Duration
	logger            *slog.Logger
	routerOpts        []router.Option
	kernelOpts        []kernel.Option
	formatter         errors.Formatter
	resolver          route.Resolver
	tracer            *tracing.Tracer
	metrics           *metrics.Recorder
	manifest          *router.Manifest

	router *router.Router
	root   *web.Kernel
	hooks  hooks

	mu          sync.RWMutex
	controllers map[string]Controller
}

// New creates an App.
func New(opts ...Option) (*App, error) {
	a := &App{
		serviceName:       "titon-service",
		serviceVersion:    "0.0.0",
		address:           ":8080",
		shutdownTimeout:   DefaultShutdownTimeout,
		readHeaderTimeout: 10 * time.Second,
		logger:            logging.Noop(),
		formatter:         errors.NewSimple(),
		controllers:       make(map[string]Controller),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		return nil, fmt.Errorf("app configuration validation failed: logger cannot be nil")
	}
	if a.formatter == nil {
		return nil, fmt.Errorf("app configuration validation failed: formatter cannot be nil")
	}
	a.logger = a.logger.With("service", a.serviceName, "version", a.serviceVersion)

	routerOpts := []router.Option{router.WithLogger(a.logger)}
	if a.metrics != nil {
		routerOpts = append(routerOpts, router.WithObserver(a.metrics.Observer()))
	}
	r, err := router.New(append(routerOpts, a.routerOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("app router: %w", err)
	}
	a.router = r

	kernelOpts := append([]kernel.Option{kernel.WithLogger(a.logger)}, a.kernelOpts...)
	root, err := kernel.New[*web.Request, *web.Response](kernel.ApplicationFunc[*web.Request, *web.Response](a.dispatch), kernelOpts...)
	if err != nil {
		return nil, fmt.Errorf("app kernel: %w", err)
	}
	a.root = root

	if a.tracer != nil {
		a.root.Pipe(a.tracer.Stage())
	}
	if a.metrics != nil {
		a.root.Pipe(a.metrics.Stage())
	}

	if a.manifest != nil {
		if err = a.router.Load(a.manifest); err != nil {
			return nil, fmt.Errorf("app routes: %w", err)
		}
	}
	return a, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("app.MustNew: %v", err))
	}
	return a
}

// Router returns the application router.
func (a *App) Router() *router.Router { return a.router }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Address returns the configured listen address.
func (a *App) Address() string { return a.address }

// Use appends stages to the request pipeline. Stages run in order in the
// before pass and in reverse order in the after pass.
func (a *App) Use(stages ...web.Stage) {
	a.root.Pipe(stages...)
}

// Controller registers the controller handling actions named
// "name@method".
func (a *App) Controller(name string, c Controller) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.controllers[name] = c
}

// ServeHTTP runs the request through a fork of the root kernel and flushes
// the response. Finish hooks registered on the response run after error
// rendering, so stages still see requests whose after pass never ran.
func (a *App) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	in := web.NewRequest(req)
	out := web.NewResponse()
	first := out

	k := a.root.Fork()
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("panic while handling request",
				"method", req.Method, "path", req.URL.Path, "panic", rec, "stack", string(debug.Stack()))
			out.Discard()
			a.renderError(in, out, fmt.Errorf("panic: %v", rec))
		}
		_ = k.Terminate()
		a.finish(req, first, out)
		if err := out.Flush(w, req.Method); err != nil {
			a.logger.Debug("response flush failed", "error", err)
		}
	}()

	res, err := k.Run(in, out)
	if res != nil {
		out = res
	}
	if err != nil {
		a.logger.Error("request pipeline failed", "method", req.Method, "path", req.URL.Path, "error", err)
		out.Discard()
		a.renderError(in, out, err)
	}
}

// finish runs the finish hooks of the response the pipeline started with
// and of the one it returned, if a stage replaced it.
func (a *App) finish(req *http.Request, first, final *web.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("panic in response finish hook",
				"method", req.Method, "path", req.URL.Path, "panic", rec)
		}
	}()
	first.Finish(final)
	if final != first {
		final.Finish(nil)
	}
}

// Test serves req in memory and returns the recorded response.
func (a *App) Test(req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec.Result()
}

// requestResolver resolves controllers registered on a, falling back to
// the configured resolver.
func (a *App) requestResolver(in *web.Request, out *web.Response) route.Resolver {
	return route.ResolverFunc(func(controller, method string) (route.Callback, error) {
		a.mu.RLock()
		c, ok := a.controllers[controller]
		a.mu.RUnlock()
		if ok {
			return c.Action(method, in, out)
		}
		if a.resolver != nil {
			return a.resolver.Resolve(controller, method)
		}
		return nil, fmt.Errorf("%w: no controller %q", ErrUnknownController, controller)
	})
}

func (a *App) shutdownObservability(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("tracing shutdown failed", "error", err)
		}
	}
	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
}
