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

// Package tracing provides OpenTelemetry request tracing as a kernel stage.
//
// A [Tracer] owns or borrows a tracer provider. Its [Tracer.Stage] opens a
// server span in the before pass, continuing any trace context carried by
// the request headers, and closes it in the after pass once the response
// status and the matched route are known:
//
//	t, err := tracing.New(
//	    tracing.WithServiceName("orders"),
//	    tracing.WithStdout(os.Stdout),
//	    tracing.WithExcludePaths("/health"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer t.Shutdown(context.Background())
//
//	a.Use(t.Stage())
//
// Spans are named "METHOD route-template" after routing, so that names keep
// a low cardinality. Responses with a 5xx status mark the span as failed.
//
// Exporters are chosen with [WithStdout], [WithOTLP] (gRPC) or
// [WithOTLPHTTP]; an endpoint with an "http://" scheme is plaintext.
// Without an exporter the tracer still creates sampled spans, which is
// enough for trace ids to appear in logs and to be propagated downstream.
//
// By default the global OpenTelemetry provider is left untouched; use
// [WithGlobalTracerProvider] to register it.
package tracing
