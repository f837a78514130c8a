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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"titon.dev/framework/internal/otlpendpoint"
	"titon.dev/framework/internal/pathfilter"
	"titon.dev/framework/logging"
)

const (
	// DefaultServiceName is used when no service name is configured.
	DefaultServiceName = "titon-service"

	// DefaultServiceVersion is used when no service version is configured.
	DefaultServiceVersion = "0.0.0"

	// DefaultExportInterval is the push interval of the stdout and OTLP
	// exporters.
	DefaultExportInterval = 30 * time.Second

	// DefaultMaxCustomMetrics caps custom instruments unless overridden.
	DefaultMaxCustomMetrics = 1000

	instrumentationName = "titon.dev/framework/metrics"
)

var (
	defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	defaultSizeBuckets     = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
)

// ErrNoHandler is returned by Handler when the recorder does not own a
// Prometheus registry.
var ErrNoHandler = errors.New("metrics: handler only available with the built-in Prometheus exporter")

// Recorder owns the metric instruments. It is safe for concurrent use.
type Recorder struct {
	serviceName      string
	serviceVersion   string
	custom           metric.MeterProvider
	stdout           io.Writer
	otlpEndpoint     string
	exportInterval   time.Duration
	registerGlobal   bool
	durationBuckets  []float64
	sizeBuckets      []float64
	maxCustomMetrics int
	exclude          *pathfilter.Filter
	logger           *slog.Logger
	errs             []error

	meter       metric.Meter
	sdkProvider *sdkmetric.MeterProvider
	registry    *promclient.Registry
	handler     http.Handler
	closed      atomic.Bool
	baseAttrs   []attribute.KeyValue

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	responseSize    metric.Int64Histogram
	errorCount      metric.Int64Counter
	routeMatches    metric.Int64Counter
	routeMisses     metric.Int64Counter
	customFailures  metric.Int64Counter

	customMu         sync.RWMutex
	customCounters   map[string]metric.Int64Counter
	customHistograms map[string]metric.Float64Histogram
	customGauges     map[string]metric.Float64Gauge
	customCount      int
}

// New creates a Recorder.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName:      DefaultServiceName,
		serviceVersion:   DefaultServiceVersion,
		durationBuckets:  defaultDurationBuckets,
		sizeBuckets:      defaultSizeBuckets,
		maxCustomMetrics: DefaultMaxCustomMetrics,
		exportInterval:   DefaultExportInterval,
		exclude:          pathfilter.New(),
		logger:           logging.Noop(),
		customCounters:   make(map[string]metric.Int64Counter),
		customHistograms: make(map[string]metric.Float64Histogram),
		customGauges:     make(map[string]metric.Float64Gauge),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exportInterval <= 0 {
		r.errs = append(r.errs, fmt.Errorf("export interval must be positive, got %s", r.exportInterval))
	}
	if r.maxCustomMetrics < 1 {
		r.errs = append(r.errs, fmt.Errorf("max custom metrics must be at least 1, got %d", r.maxCustomMetrics))
	}
	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("metrics configuration validation failed: %w", err)
	}
	if r.logger == nil {
		r.logger = logging.Noop()
	}

	provider := r.custom
	if provider == nil {
		r.registry = promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(r.registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		readers, err := r.pushReaders()
		if err != nil {
			return nil, err
		}
		mpOpts := []sdkmetric.Option{sdkmetric.WithReader(exporter)}
		for _, reader := range readers {
			mpOpts = append(mpOpts, sdkmetric.WithReader(reader))
		}
		r.sdkProvider = sdkmetric.NewMeterProvider(mpOpts...)
		r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
		provider = r.sdkProvider
	}
	if r.registerGlobal {
		otel.SetMeterProvider(provider)
	}

	r.meter = provider.Meter(instrumentationName)
	r.baseAttrs = []attribute.KeyValue{
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	}
	if err := r.initInstruments(); err != nil {
		return nil, err
	}

	r.logger.Debug("metrics initialized",
		"service", r.serviceName,
		"prometheus", r.registry != nil,
		"stdout", r.stdout != nil,
		"otlp", r.otlpEndpoint,
	)
	return r, nil
}

// pushReaders builds the periodic readers for the stdout and OTLP exporters
// that sit next to the Prometheus reader.
func (r *Recorder) pushReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	interval := sdkmetric.WithInterval(r.exportInterval)

	if r.stdout != nil {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(r.stdout), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp, interval))
	}

	if r.otlpEndpoint != "" {
		host, insecure, err := otlpendpoint.Parse(r.otlpEndpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp, interval))
	}
	return readers, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics.MustNew: %v", err))
	}
	return r
}

func (r *Recorder) initInstruments() error {
	var err error
	if r.requestDuration, err = r.meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	); err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}
	if r.requestCount, err = r.meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}
	if r.activeRequests, err = r.meter.Int64UpDownCounter("http_requests_active",
		metric.WithDescription("Number of in-flight HTTP requests"),
	); err != nil {
		return fmt.Errorf("failed to create active requests counter: %w", err)
	}
	if r.responseSize, err = r.meter.Int64Histogram("http_response_size_bytes",
		metric.WithDescription("Size of HTTP response bodies in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	); err != nil {
		return fmt.Errorf("failed to create response size histogram: %w", err)
	}
	if r.errorCount, err = r.meter.Int64Counter("http_errors_total",
		metric.WithDescription("Total number of HTTP responses with status >= 400"),
	); err != nil {
		return fmt.Errorf("failed to create error counter: %w", err)
	}
	if r.routeMatches, err = r.meter.Int64Counter("router_matches_total",
		metric.WithDescription("Total number of successful route matches"),
	); err != nil {
		return fmt.Errorf("failed to create route match counter: %w", err)
	}
	if r.routeMisses, err = r.meter.Int64Counter("router_misses_total",
		metric.WithDescription("Total number of URLs no route matched"),
	); err != nil {
		return fmt.Errorf("failed to create route miss counter: %w", err)
	}
	if r.customFailures, err = r.meter.Int64Counter("custom_metric_failures_total",
		metric.WithDescription("Total number of rejected custom metric operations"),
	); err != nil {
		return fmt.Errorf("failed to create custom failure counter: %w", err)
	}
	return nil
}

// Handler returns the Prometheus scrape handler.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.handler == nil {
		return nil, ErrNoHandler
	}
	return r.handler, nil
}

// Registry returns the private Prometheus registry, or nil with a custom
// meter provider.
func (r *Recorder) Registry() *promclient.Registry { return r.registry }

// ServiceName returns the configured service name.
func (r *Recorder) ServiceName() string { return r.serviceName }

// Shutdown flushes and stops an owned meter provider. It is a no-op for
// custom providers and on repeated calls.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil || !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	r.logger.Debug("metrics shut down")
	return nil
}
