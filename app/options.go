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
	"log/slog"
	"time"

	"titon.dev/framework/errors"
	"titon.dev/framework/kernel"
	"titon.dev/framework/metrics"
	"titon.dev/framework/router"
	"titon.dev/framework/router/route"
	"titon.dev/framework/tracing"
)

// DefaultShutdownTimeout bounds graceful shutdown unless configured.
const DefaultShutdownTimeout = 30 * time.Second

// Option configures an App.
type Option func(*App)

// WithServiceName sets the service name used in logs.
func WithServiceName(name string) Option {
	return func(a *App) { a.serviceName = name }
}

// WithServiceVersion sets the service version used in logs.
func WithServiceVersion(version string) Option {
	return func(a *App) { a.serviceVersion = version }
}

// WithLogger sets the application logger. It is handed to the router and
// the kernel unless they are configured otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithRouterOptions configures the router built by New.
func WithRouterOptions(opts ...router.Option) Option {
	return func(a *App) { a.routerOpts = append(a.routerOpts, opts...) }
}

// WithKernelOptions configures the root kernel.
func WithKernelOptions(opts ...kernel.Option) Option {
	return func(a *App) { a.kernelOpts = append(a.kernelOpts, opts...) }
}

// WithFormatter sets the error formatter. The default is [errors.Simple].
func WithFormatter(f errors.Formatter) Option {
	return func(a *App) { a.formatter = f }
}

// WithResolver sets the resolver used for controllers not registered with
// [App.Controller].
func WithResolver(res route.Resolver) Option {
	return func(a *App) { a.resolver = res }
}

// WithTracing traces every request with t. The tracer is shut down with
// the server.
func WithTracing(t *tracing.Tracer) Option {
	return func(a *App) { a.tracer = t }
}

// WithMetrics records request and routing metrics with rec. The recorder
// is shut down with the server.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(a *App) { a.metrics = rec }
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) { a.shutdownTimeout = d }
}

// WithReadHeaderTimeout sets the server read header timeout.
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(a *App) { a.readHeaderTimeout = d }
}

// WithManifest registers the routes of m when the app is built.
func WithManifest(m *router.Manifest) Option {
	return func(a *App) { a.manifest = m }
}

// WithConfig applies loaded settings. Options after it take precedence.
func WithConfig(cfg *Config) Option {
	return func(a *App) {
		if cfg == nil {
			return
		}
		a.serviceName = cfg.Service.Name
		a.serviceVersion = cfg.Service.Version
		a.address = cfg.Server.Address
		a.shutdownTimeout = cfg.Server.Shutdown
		a.readHeaderTimeout = cfg.Server.ReadHeader
		if cfg.manifest != nil {
			a.manifest = cfg.manifest
		}
	}
}
