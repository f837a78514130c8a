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

package tracing

import (
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Tracer.
type Option func(*Tracer)

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) { t.serviceName = name }
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) { t.serviceVersion = version }
}

// WithStdout exports spans as pretty-printed JSON to w, or to standard
// output when w is nil.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		if w == nil {
			w = os.Stdout
		}
		t.provider = StdoutProvider
		t.writer = w
	}
}

// WithOTLP exports spans over gRPC to the collector at endpoint, for
// example "localhost:4317". An "http://" prefix selects a plaintext
// connection.
func WithOTLP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.endpoint = endpoint
	}
}

// WithOTLPHTTP exports spans over HTTP to the collector at endpoint, for
// example "http://localhost:4318".
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.endpoint = endpoint
	}
}

// WithTracerProvider uses an existing provider. The Tracer does not shut it
// down, and sampling options are ignored.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracer) {
		if tp == nil {
			t.errs = append(t.errs, ErrNilProvider)
			return
		}
		t.custom = tp
	}
}

// WithPropagator replaces the W3C trace context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) { t.propagator = p }
}

// WithSampleRate samples the given share of new traces, clamped to [0, 1].
// Requests continuing a trace follow the parent decision.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) { t.sampleRate = max(0.0, min(rate, 1.0)) }
}

// WithExcludePaths skips tracing for exact paths.
func WithExcludePaths(paths ...string) Option {
	return func(t *Tracer) { t.exclude.AddPaths(paths...) }
}

// WithExcludePrefixes skips tracing for paths starting with any prefix.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(t *Tracer) { t.exclude.AddPrefixes(prefixes...) }
}

// WithExcludePatterns skips tracing for paths matching any expression.
// Invalid expressions make New fail.
func WithExcludePatterns(patterns ...string) Option {
	return func(t *Tracer) {
		if err := t.exclude.AddPatterns(patterns...); err != nil {
			t.errs = append(t.errs, err)
		}
	}
}

// WithHeaders records the given request headers as span attributes.
func WithHeaders(names ...string) Option {
	return func(t *Tracer) { t.headers = append(t.headers, names...) }
}

// WithParams controls whether matched route parameters are recorded.
// Enabled by default.
func WithParams(enabled bool) Option {
	return func(t *Tracer) { t.recordParams = enabled }
}

// WithLogger sets the logger for tracer lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) { t.logger = logger }
}

// WithGlobalTracerProvider registers the provider and propagator globally.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) { t.registerGlobal = true }
}
