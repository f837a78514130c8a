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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"titon.dev/framework/internal/otlpendpoint"
	"titon.dev/framework/internal/pathfilter"
	"titon.dev/framework/logging"
)

const (
	// DefaultServiceName is used when no service name is configured.
	DefaultServiceName = "titon-service"

	// DefaultServiceVersion is used when no service version is configured.
	DefaultServiceVersion = "0.0.0"

	instrumentationName = "titon.dev/framework/tracing"
)

// Provider names the span exporter.
type Provider string

const (
	// NoopProvider records spans without exporting them.
	NoopProvider Provider = "noop"

	// StdoutProvider writes spans as JSON.
	StdoutProvider Provider = "stdout"

	// OTLPProvider exports spans to a collector over gRPC.
	OTLPProvider Provider = "otlp"

	// OTLPHTTPProvider exports spans to a collector over HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

// ErrNilProvider is returned when WithTracerProvider is given nil.
var ErrNilProvider = errors.New("tracing: tracer provider cannot be nil")

// Tracer creates request spans. It is safe for concurrent use.
type Tracer struct {
	serviceName    string
	serviceVersion string
	provider       Provider
	writer         io.Writer
	endpoint       string
	custom         trace.TracerProvider
	propagator     propagation.TextMapPropagator
	sampleRate     float64
	exclude        *pathfilter.Filter
	headers        []string
	recordParams   bool
	logger         *slog.Logger
	registerGlobal bool
	errs           []error

	tracer      trace.Tracer
	sdkProvider *sdktrace.TracerProvider
	closed      atomic.Bool
}

// New creates a Tracer.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:    DefaultServiceName,
		serviceVersion: DefaultServiceVersion,
		provider:       NoopProvider,
		propagator:     propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		sampleRate:     1.0,
		exclude:        pathfilter.New(),
		recordParams:   true,
		logger:         logging.Noop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := errors.Join(t.errs...); err != nil {
		return nil, fmt.Errorf("tracing configuration validation failed: %w", err)
	}
	if t.logger == nil {
		t.logger = logging.Noop()
	}

	tp, err := t.tracerProvider()
	if err != nil {
		return nil, err
	}
	t.tracer = tp.Tracer(instrumentationName)

	if t.registerGlobal {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(t.propagator)
	}
	t.logger.Debug("tracing initialized", "provider", string(t.provider), "endpoint", t.endpoint, "service", t.serviceName)
	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing.MustNew: %v", err))
	}
	return t
}

func (t *Tracer) tracerProvider() (trace.TracerProvider, error) {
	if t.custom != nil {
		return t.custom, nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(t.serviceName),
			semconv.ServiceVersion(t.serviceVersion),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}

	switch t.provider {
	case NoopProvider:
	case StdoutProvider:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(t.writer), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	case OTLPProvider, OTLPHTTPProvider:
		exp, err := t.otlpExporter()
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}

	t.sdkProvider = sdktrace.NewTracerProvider(opts...)
	return t.sdkProvider, nil
}

// otlpExporter builds the collector exporter. Neither transport connects
// before the first export.
func (t *Tracer) otlpExporter() (sdktrace.SpanExporter, error) {
	host, insecure, err := otlpendpoint.Parse(t.endpoint)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if t.provider == OTLPProvider {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
		}
		return exp, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}
	return exp, nil
}

// Propagator returns the text map propagator used for requests.
func (t *Tracer) Propagator() propagation.TextMapPropagator { return t.propagator }

// Start opens a span named name as a child of the span in ctx.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes and stops an owned provider. It is a no-op for borrowed
// providers and on repeated calls.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdkProvider == nil || !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	t.logger.Debug("tracing shut down")
	return nil
}

// TraceID returns the hex trace id of the span in ctx, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanID returns the hex span id of the span in ctx, or "".
func SpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasSpanID() {
		return ""
	}
	return sc.SpanID().String()
}
