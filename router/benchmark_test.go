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

package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/gofiber/fiber/v2"
	fiberadaptor "github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/labstack/echo/v4"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"titon.dev/framework/router/route"
)

// benchRouter mirrors the route set registered with the other routers below.
func benchRouter(b *testing.B) *Router {
	b.Helper()
	r := MustNew()
	write := func(format string) route.Action {
		return route.Func(func(args ...any) (any, error) {
			return fmt.Sprintf(format, args...), nil
		})
	}
	if _, err := r.Get("home", "/", write("Hello")); err != nil {
		b.Fatal(err)
	}
	if _, err := r.Get("user", "/users/{id}", write("User: %v")); err != nil {
		b.Fatal(err)
	}
	if _, err := r.Get("user.post", "/users/{id}/posts/{post_id}", write("User: %v, Post: %v")); err != nil {
		b.Fatal(err)
	}
	return r
}

func BenchmarkRouter_Match(b *testing.B) {
	r := benchRouter(b)
	rc := route.Context{Method: http.MethodGet}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := r.Match("/users/123", rc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRouter_Miss(b *testing.B) {
	r := benchRouter(b)
	rc := route.Context{Method: http.MethodGet}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = r.Match("/nowhere/at/all", rc)
	}
}

func BenchmarkRouter_Build(b *testing.B) {
	r := benchRouter(b)
	params := map[string]any{"id": 123, "post_id": "hello"}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := r.Build("user.post", params); err != nil {
			b.Fatal(err)
		}
	}
}

// benchHandler matches and dispatches, writing the result the way the
// handlers of the other routers do.
func benchHandler(r *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		m, err := r.MatchRequest(req)
		if err != nil {
			http.NotFound(w, req)
			return
		}
		out, _ := m.Dispatch(nil)
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, out)
	}
}

func BenchmarkRouter_ServeHTTP(b *testing.B) {
	handler := benchHandler(benchRouter(b))

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		handler(w, req)
	}
}

func BenchmarkGinRouter(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello")
	})
	r.GET("/users/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s", c.Param("id"))
	})
	r.GET("/users/:id/posts/:post_id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s, Post: %s", c.Param("id"), c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		r.ServeHTTP(w, req)
	}
}

func BenchmarkEchoRouter(b *testing.B) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello")
	})
	e.GET("/users/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id"))
	})
	e.GET("/users/:id/posts/:post_id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id")+", Post: "+c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		e.ServeHTTP(w, req)
	}
}

func BenchmarkChiRouter(b *testing.B) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Hello"))
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("User: " + chi.URLParam(req, "id")))
	})
	r.Get("/users/{id}/posts/{post_id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("User: " + chi.URLParam(req, "id") + ", Post: " + chi.URLParam(req, "post_id")))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		r.ServeHTTP(w, req)
	}
}

// BenchmarkFiberRouter goes through the net/http adaptor, like the other
// routers are driven through http.Handler.
func BenchmarkFiberRouter(b *testing.B) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello")
	})
	app.Get("/users/:id", func(c *fiber.Ctx) error {
		return c.SendString("User: " + c.Params("id"))
	})
	app.Get("/users/:id/posts/:post_id", func(c *fiber.Ctx) error {
		return c.SendString("User: " + c.Params("id") + ", Post: " + c.Params("post_id"))
	})
	handler := fiberadaptor.FiberApp(app)

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		handler(w, req)
	}
}

// BenchmarkRouter_Fasthttp serves the router behind fasthttp's net/http
// adaptor.
func BenchmarkRouter_Fasthttp(b *testing.B) {
	handler := fasthttpadaptor.NewFastHTTPHandlerFunc(benchHandler(benchRouter(b)))

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(http.MethodGet)
	ctx.Request.SetRequestURI("/users/123")

	b.ReportAllocs()
	for b.Loop() {
		handler(&ctx)
		if ctx.Response.StatusCode() != http.StatusOK {
			b.Fatalf("status %d", ctx.Response.StatusCode())
		}
		ctx.Response.Reset()
	}
}
