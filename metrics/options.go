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
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithServiceName sets the service.name attribute on HTTP metrics.
func WithServiceName(name string) Option {
	return func(r *Recorder) { r.serviceName = name }
}

// WithServiceVersion sets the service.version attribute on HTTP metrics.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) { r.serviceVersion = version }
}

// WithMeterProvider records into provider instead of the built-in
// Prometheus exporter. The Recorder does not shut it down and
// [Recorder.Handler] is unavailable.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) { r.custom = provider }
}

// WithStdout also pushes metrics as JSON to w, or to standard output when
// w is nil. The Prometheus handler stays available.
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		if w == nil {
			w = os.Stdout
		}
		r.stdout = w
	}
}

// WithOTLP also pushes metrics over HTTP to the collector at endpoint, for
// example "http://localhost:4318".
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) { r.otlpEndpoint = endpoint }
}

// WithExportInterval sets the push interval of the stdout and OTLP
// exporters. Default: 30s.
func WithExportInterval(d time.Duration) Option {
	return func(r *Recorder) { r.exportInterval = d }
}

// WithGlobalMeterProvider registers the meter provider globally.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) { r.registerGlobal = true }
}

// WithDurationBuckets sets the request duration histogram boundaries, in
// seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) { r.durationBuckets = buckets }
}

// WithSizeBuckets sets the response size histogram boundaries, in bytes.
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) { r.sizeBuckets = buckets }
}

// WithMaxCustomMetrics caps the number of custom instruments.
func WithMaxCustomMetrics(n int) Option {
	return func(r *Recorder) { r.maxCustomMetrics = n }
}

// WithExcludePaths skips exact paths.
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) { r.exclude.AddPaths(paths...) }
}

// WithExcludePrefixes skips paths starting with any prefix.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(r *Recorder) { r.exclude.AddPrefixes(prefixes...) }
}

// WithExcludePatterns skips paths matching any expression. Invalid
// expressions make New fail.
func WithExcludePatterns(patterns ...string) Option {
	return func(r *Recorder) {
		if err := r.exclude.AddPatterns(patterns...); err != nil {
			r.errs = append(r.errs, err)
		}
	}
}

// WithLogger sets the logger for recorder lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}
