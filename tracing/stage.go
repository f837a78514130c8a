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
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"titon.dev/framework/kernel"
	"titon.dev/framework/web"
)

const (
	attrPrefixParam  = "http.request.param."
	attrPrefixHeader = "http.request.header."

	spanStashKey = "tracing.span"
)

// Stage returns the kernel stage tracing each request.
func (t *Tracer) Stage() web.Stage {
	return web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		if t.exclude.Excludes(in.Path()) {
			return next.Handle(in, out)
		}
		if next.Pass() == kernel.PassAfter {
			if v, ok := out.Stashed(spanStashKey); ok {
				if rs, ok := v.(*requestSpan); ok {
					t.finish(in, out, rs)
				}
			}
			return next.Handle(in, out)
		}

		req := in.HTTP()
		ctx := t.propagator.Extract(in.Context(), propagation.HeaderCarrier(req.Header))
		ctx, span := t.tracer.Start(ctx, req.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(t.requestAttributes(req)...),
		)
		in.SetContext(ctx)

		rs := &requestSpan{span: span}
		out.Stash(spanStashKey, rs)
		// Ends the span when a panic or a failing stage skips the after pass.
		out.OnFinish(func(final *web.Response) { t.finish(in, final, rs) })

		res, err := next.Handle(in, out)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			t.finish(in, out, rs)
		}
		return res, err
	})
}

// requestSpan is the server span of one request. It ends exactly once.
type requestSpan struct {
	span trace.Span
	once sync.Once
}

func (t *Tracer) requestAttributes(req *http.Request) []attribute.KeyValue {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	attrs := make([]attribute.KeyValue, 0, 5+len(t.headers))
	attrs = append(attrs,
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
		attribute.String("url.scheme", scheme),
		attribute.String("server.address", req.Host),
		attribute.String("user_agent.original", req.UserAgent()),
	)
	for _, name := range t.headers {
		if v := req.Header.Get(name); v != "" {
			attrs = append(attrs, attribute.String(attrPrefixHeader+strings.ToLower(name), v))
		}
	}
	return attrs
}

func (t *Tracer) finish(in *web.Request, out *web.Response, rs *requestSpan) {
	rs.once.Do(func() { t.end(in, out, rs.span) })
}

func (t *Tracer) end(in *web.Request, out *web.Response, span trace.Span) {
	if !span.IsRecording() {
		return
	}

	status := out.Status()
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if m := in.Match(); m != nil {
		span.SetName(in.Method() + " " + in.RouteTemplate())
		span.SetAttributes(attribute.String("http.route", in.RouteTemplate()))
		if name := in.RouteName(); name != "" {
			span.SetAttributes(attribute.String("titon.route.name", name))
		}
		if t.recordParams {
			for _, p := range m.Params {
				if p.Value != nil {
					span.SetAttributes(attribute.String(attrPrefixParam+p.Key, fmt.Sprint(p.Value)))
				}
			}
		}
	}

	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	span.End()
}
