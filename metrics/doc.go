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

// Package metrics records HTTP and routing metrics with OpenTelemetry.
//
// By default a [Recorder] exports to a private Prometheus registry served by
// [Recorder.Handler]. A caller-owned meter provider can be plugged in with
// [WithMeterProvider] instead. [WithStdout] and [WithOTLP] add push
// exporters next to the Prometheus registry.
//
//	rec := metrics.MustNew(metrics.WithServiceName("orders"))
//	defer rec.Shutdown(context.Background())
//
//	a.Use(rec.Stage())
//	r := router.MustNew(router.WithObserver(rec.Observer()))
//
//	h, _ := rec.Handler()
//	http.Handle("/metrics", h)
//
// # Built-in instruments
//
//	http_request_duration_seconds  histogram, by route and status
//	http_requests_total            counter, by route and status
//	http_requests_active           up-down counter
//	http_response_size_bytes       histogram
//	http_errors_total              counter, status >= 400
//	router_matches_total           counter, by route name
//	router_misses_total            counter
//
// Routes are labelled with their template, never the raw path, to bound
// label cardinality.
//
// Custom counters, histograms and gauges are created on first use through
// [Recorder.AddCounter], [Recorder.RecordHistogram] and [Recorder.SetGauge].
// Names are validated and their number is capped by [WithMaxCustomMetrics].
package metrics
