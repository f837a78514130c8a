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

//go:build integration

package app_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"titon.dev/framework/app"
	"titon.dev/framework/metrics"
	"titon.dev/framework/middleware/requestid"
	"titon.dev/framework/router/route"
	"titon.dev/framework/tracing"
)

var _ = Describe("Server", func() {
	var (
		a        *app.App
		spans    *tracetest.SpanRecorder
		recorder *metrics.Recorder
		baseURL  string
		cancel   context.CancelFunc
		served   chan error
	)

	BeforeEach(func() {
		spans = tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
		recorder = metrics.MustNew(metrics.WithServiceName("integration"))

		a = app.MustNew(
			app.WithServiceName("integration"),
			app.WithShutdownTimeout(2*time.Second),
			app.WithTracing(tracing.MustNew(tracing.WithTracerProvider(tp))),
			app.WithMetrics(recorder),
		)
		a.Use(requestid.New())
		_, err := a.Router().Get("ping", "/ping", route.Func(func(...any) (any, error) { return "pong", nil }))
		Expect(err).NotTo(HaveOccurred())

		var lc net.ListenConfig
		ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		baseURL = "http://" + ln.Addr().String()

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		served = make(chan error, 1)
		go func() { served <- a.Serve(ctx, ln) }()
	})

	AfterEach(func() {
		cancel()
		Eventually(served, 5*time.Second).Should(Receive(BeNil()))
	})

	It("should serve requests over TCP with observability wired in", func() {
		var resp *http.Response
		Eventually(func() error {
			var err error
			resp, err = http.Get(baseURL + "/ping")
			return err
		}, 2*time.Second, 20*time.Millisecond).Should(Succeed())

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("X-Request-ID")).NotTo(BeEmpty())
		Expect(readBody(resp)).To(Equal("pong"))

		Eventually(spans.Ended).Should(HaveLen(1))
		Expect(spans.Ended()[0].Name()).To(Equal("GET /ping"))

		h, err := recorder.Handler()
		Expect(err).NotTo(HaveOccurred())
		scrape := httptest.NewRecorder()
		h.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(scrape.Body.String()).To(ContainSubstring(`http_route="/ping"`))
	})

	It("should answer unknown paths with 404", func() {
		var resp *http.Response
		Eventually(func() error {
			var err error
			resp, err = http.Get(baseURL + "/missing")
			return err
		}, 2*time.Second, 20*time.Millisecond).Should(Succeed())

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(readBody(resp)).To(ContainSubstring("ROUTE_NOT_FOUND"))
	})
})
