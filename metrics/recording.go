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
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var metricNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]*$`)

const maxMetricNameLength = 255

// Prefixes reserved for Prometheus internals and the built-in instruments.
var reservedPrefixes = []string{"__", "http_", "router_"}

// LimitError is returned when a new custom instrument would exceed the cap.
type LimitError struct {
	Name  string
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("metrics limit reached: cannot create %q (limit %d)", e.Name, e.Limit)
}

func validateMetricName(name string) error {
	if name == "" {
		return fmt.Errorf("metric name cannot be empty")
	}
	if len(name) > maxMetricNameLength {
		return fmt.Errorf("metric name too long: %d characters (max %d)", len(name), maxMetricNameLength)
	}
	if !metricNameRegex.MatchString(name) {
		return fmt.Errorf("invalid metric name %q: must start with a letter and contain only letters, digits, '_', '.' or '-'", name)
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return fmt.Errorf("metric name %q uses reserved prefix %q", name, prefix)
		}
	}
	return nil
}

// RequestMetrics tracks one in-flight request.
type RequestMetrics struct {
	StartTime  time.Time
	Attributes []attribute.KeyValue

	done atomic.Bool
}

// AddAttributes adds attributes recorded by Finish.
func (m *RequestMetrics) AddAttributes(attrs ...attribute.KeyValue) {
	if m == nil {
		return
	}
	m.Attributes = append(m.Attributes, attrs...)
}

// Begin starts timing a request and counts it as active.
func (r *Recorder) Begin(ctx context.Context) *RequestMetrics {
	m := &RequestMetrics{
		StartTime:  time.Now(),
		Attributes: append(make([]attribute.KeyValue, 0, 8), r.baseAttrs...),
	}
	r.activeRequests.Add(ctx, 1, metric.WithAttributes(r.baseAttrs...))
	return m
}

// Abort releases an active request that produced no response. Only the
// first Abort or Finish of a request has an effect.
func (r *Recorder) Abort(ctx context.Context, m *RequestMetrics) {
	if m == nil || !m.done.CompareAndSwap(false, true) {
		return
	}
	r.activeRequests.Add(ctx, -1, metric.WithAttributes(r.baseAttrs...))
}

// Finish records a completed request. route should be a template, not a raw
// path. Only the first Abort or Finish of a request has an effect.
func (r *Recorder) Finish(ctx context.Context, m *RequestMetrics, status int, size int64, route string) {
	if m == nil || !m.done.CompareAndSwap(false, true) {
		return
	}
	r.activeRequests.Add(ctx, -1, metric.WithAttributes(r.baseAttrs...))

	attrs := metric.WithAttributes(append(m.Attributes,
		attribute.Int("http.status_code", status),
		attribute.String("http.status_class", statusClass(status)),
		attribute.String("http.route", route),
	)...)

	r.requestDuration.Record(ctx, time.Since(m.StartTime).Seconds(), attrs)
	r.requestCount.Add(ctx, 1, attrs)
	if status >= 400 {
		r.errorCount.Add(ctx, 1, attrs)
	}
	if size > 0 {
		r.responseSize.Record(ctx, size, attrs)
	}
}

func statusClass(status int) string {
	switch status / 100 {
	case 1:
		return "1xx"
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}

// IncrementCounter adds one to a custom counter.
func (r *Recorder) IncrementCounter(ctx context.Context, name string, attrs ...attribute.KeyValue) error {
	return r.AddCounter(ctx, name, 1, attrs...)
}

// AddCounter adds value to a custom counter.
func (r *Recorder) AddCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue) error {
	c, err := getOrCreate(r, r.customCounters, name, func() (metric.Int64Counter, error) {
		return r.meter.Int64Counter(name)
	})
	if err != nil {
		r.customFailures.Add(ctx, 1)
		return fmt.Errorf("add counter %q: %w", name, err)
	}
	c.Add(ctx, value, metric.WithAttributes(attrs...))
	return nil
}

// RecordHistogram records value in a custom histogram.
func (r *Recorder) RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) error {
	h, err := getOrCreate(r, r.customHistograms, name, func() (metric.Float64Histogram, error) {
		return r.meter.Float64Histogram(name)
	})
	if err != nil {
		r.customFailures.Add(ctx, 1)
		return fmt.Errorf("record histogram %q: %w", name, err)
	}
	h.Record(ctx, value, metric.WithAttributes(attrs...))
	return nil
}

// SetGauge sets a custom gauge.
func (r *Recorder) SetGauge(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) error {
	g, err := getOrCreate(r, r.customGauges, name, func() (metric.Float64Gauge, error) {
		return r.meter.Float64Gauge(name)
	})
	if err != nil {
		r.customFailures.Add(ctx, 1)
		return fmt.Errorf("set gauge %q: %w", name, err)
	}
	g.Record(ctx, value, metric.WithAttributes(attrs...))
	return nil
}

// CustomMetricCount returns the number of custom instruments created.
func (r *Recorder) CustomMetricCount() int {
	r.customMu.RLock()
	defer r.customMu.RUnlock()
	return r.customCount
}

func getOrCreate[T any](r *Recorder, cache map[string]T, name string, create func() (T, error)) (T, error) {
	r.customMu.RLock()
	inst, ok := cache[name]
	r.customMu.RUnlock()
	if ok {
		return inst, nil
	}

	var zero T
	if err := validateMetricName(name); err != nil {
		return zero, err
	}

	r.customMu.Lock()
	defer r.customMu.Unlock()
	if inst, ok := cache[name]; ok {
		return inst, nil
	}
	if r.customCount >= r.maxCustomMetrics {
		return zero, &LimitError{Name: name, Limit: r.maxCustomMetrics}
	}
	inst, err := create()
	if err != nil {
		return zero, err
	}
	cache[name] = inst
	r.customCount++
	return inst, nil
}
