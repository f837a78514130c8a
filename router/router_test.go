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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titon.dev/framework/router/route"
)

func noop() route.Action {
	return route.Func(func(...any) (any, error) { return nil, nil })
}

var get = route.Context{Method: "get"}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(WithMatcher(nil))
	require.Error(t, err)

	_, err = New(WithLogger(nil))
	require.Error(t, err)

	_, err = New(WithObserver(nil))
	require.Error(t, err)

	_, err = New(WithFilter("auth", nil))
	require.ErrorIs(t, err, ErrNilFilter)

	assert.Panics(t, func() { MustNew(WithMatcher(nil)) })
}

func TestRouter_MapErrors(t *testing.T) {
	t.Parallel()

	r := MustNew()

	require.ErrorIs(t, r.Map("", route.New("/", noop())), ErrEmptyRouteName)
	require.ErrorIs(t, r.Map("nil", nil), ErrNilRoute)
	require.ErrorIs(t, r.Map("bad.action", route.New("/", route.Action{})), route.ErrInvalidAction)

	err := r.Map("broken", route.New("/users/{id", noop()))
	require.ErrorIs(t, err, route.ErrInvalidRoute)
	var ce *route.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), `route "broken"`)

	require.NoError(t, r.Map("users", route.New("/users", noop())))
	err = r.Map("users", route.New("/people", noop()))
	var conflict *RouteNameConflictError
	require.ErrorAs(t, err, &conflict)
	require.ErrorIs(t, err, ErrRouteNameExist)
	assert.Equal(t, "/users", conflict.Existing)

	rt, ok := r.Route("users")
	require.True(t, ok)
	assert.Equal(t, "/users", rt.Path(), "first registration is kept")
	assert.Equal(t, 1, r.Len())
}

func TestRouter_FirstRegisteredWins(t *testing.T) {
	t.Parallel()

	var events []DiagnosticEvent
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))

	require.NoError(t, r.Map("a", route.New("/x/{id}", noop())))
	require.NoError(t, r.Map("b", route.New("/x/{slug}", noop())))

	for range 10 {
		m, err := r.Match("/x/42", get)
		require.NoError(t, err)
		assert.Equal(t, "a", m.Route.Name())
	}

	kinds := make([]DiagnosticKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []DiagnosticKind{DiagRouteRegistered, DiagRouteShadowed, DiagRouteRegistered}, kinds)
	assert.Equal(t, "a", events[1].Fields["by"])
}

func TestRouter_ShadowingRespectsMethods(t *testing.T) {
	t.Parallel()

	var shadowed int
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		if e.Kind == DiagRouteShadowed {
			shadowed++
		}
	})))

	_, err := r.Get("users.list", "/users", noop())
	require.NoError(t, err)
	_, err = r.Post("users.create", "/users", noop())
	require.NoError(t, err)
	assert.Zero(t, shadowed)

	_, err = r.Get("users.again", "/users/", noop())
	require.NoError(t, err)
	assert.Equal(t, 1, shadowed)
}

func TestRouter_MethodConstraint(t *testing.T) {
	t.Parallel()

	r := MustNew()
	_, err := r.Get("show", "/users/[id]", noop())
	require.NoError(t, err)
	_, err = r.Post("update", "/users/[id]", noop())
	require.NoError(t, err)

	m, err := r.Match("/users/1", route.Context{Method: "POST"})
	require.NoError(t, err)
	assert.Equal(t, "update", m.Route.Name())

	_, err = r.Match("/users/1", route.Context{Method: "delete"})
	var nm *NoMatchError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "delete", nm.Method)
}

func TestRouter_NoMatch(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Map("home", route.New("/", noop())))

	m, err := r.Match("/missing", get)
	assert.Nil(t, m)
	require.ErrorIs(t, err, route.ErrNoMatch)

	var nm *NoMatchError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, http.StatusNotFound, nm.HTTPStatus())
	assert.Equal(t, "ROUTE_NOT_FOUND", nm.Code())
	assert.Contains(t, nm.Error(), "/missing")
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	r := MustNew()
	concat := route.Func(func(args ...any) (any, error) {
		return fmt.Sprint(args[0]) + fmt.Sprint(args[1]), nil
	})
	require.NoError(t, r.Map("concat", route.New("/{a}/{b}", concat)))
	require.NoError(t, r.Map("kinds", route.New("/k/{a}/[b]/(c)", noop())))

	m, err := r.Match("/foo/bar", get)
	require.NoError(t, err)
	out, err := m.Dispatch(nil)
	require.NoError(t, err)
	assert.Equal(t, "foobar", out)

	m, err = r.Match("/k/foo/123/bar_456", get)
	require.NoError(t, err)
	assert.Equal(t, route.Params{{Key: "a", Value: "foo"}, {Key: "b", Value: 123}, {Key: "c", Value: "bar_456"}}, m.Params)
}

func TestRouter_Groups(t *testing.T) {
	t.Parallel()

	r := MustNew()
	admin := route.NewGroup(route.WithPrefix("/admin"), route.WithMethods("get"), route.WithFilters("auth"))
	api := route.NewGroup(route.WithPrefix("/api"), route.WithSuffix(".json"), route.WithFilters("json"))

	err := r.Group(admin, func(r *Router) error {
		if err := r.Map("admin.home", route.New("/", noop())); err != nil {
			return err
		}
		return r.Group(api, func(r *Router) error {
			return r.Map("admin.api.users", route.New("/users/[id]", noop(), route.WithMethods("post")))
		})
	})
	require.NoError(t, err)
	require.NoError(t, r.Map("outside", route.New("/outside", noop())))

	home, _ := r.Route("admin.home")
	assert.Equal(t, "/admin", home.Template())
	assert.Equal(t, []string{"auth"}, home.Filters())

	users, _ := r.Route("admin.api.users")
	assert.Equal(t, "/admin/api/users/[id]/.json", users.Template())
	assert.Equal(t, []string{"get", "post"}, users.Methods())
	assert.Equal(t, []string{"auth", "json"}, users.Filters())

	outside, _ := r.Route("outside")
	assert.Equal(t, "/outside", outside.Template(), "group is no longer active")
	assert.Empty(t, outside.Filters())
}

func TestRouter_GroupError(t *testing.T) {
	t.Parallel()

	r := MustNew()
	boom := errors.New("boom")
	err := r.Group(route.NewGroup(route.WithPrefix("/g")), func(*Router) error { return boom })
	require.ErrorIs(t, err, boom)

	require.NoError(t, r.Map("after", route.New("/after", noop())))
	rt, _ := r.Route("after")
	assert.Equal(t, "/after", rt.Template())
}

func TestRouter_GroupMapFailureKeepsRoute(t *testing.T) {
	t.Parallel()

	r := MustNew()
	g := route.NewGroup(route.WithPrefix("/admin"), route.WithMethods("post"), route.WithPattern("id", "[a-"))
	rt := route.New("/users/{id}", noop())

	err := r.Group(g, func(r *Router) error { return r.Map("users.show", rt) })
	require.ErrorIs(t, err, route.ErrInvalidRoute)

	assert.Equal(t, "/users/{id}", rt.Template())
	assert.Empty(t, rt.Methods())
	assert.Empty(t, rt.Patterns())

	require.NoError(t, r.Map("users.show", rt))
	m, err := r.Match("/users/jane", get)
	require.NoError(t, err)
	assert.Equal(t, "users.show", m.Route.Name())
}

func TestRouter_Filters(t *testing.T) {
	t.Parallel()

	var order []string
	record := func(name string) Filter {
		return func(m *route.Match) error {
			order = append(order, name+":"+m.Route.Name())
			return nil
		}
	}
	denied := errors.New("denied")

	r := MustNew(WithFilter("auth", record("auth")))
	require.NoError(t, r.Filter("csrf", record("csrf")))
	require.NoError(t, r.Filter("deny", func(*route.Match) error { return denied }))

	require.NoError(t, r.Map("ok", route.New("/ok", noop(), route.WithFilters("auth", "csrf"))))
	require.NoError(t, r.Map("denied", route.New("/denied", noop(), route.WithFilters("deny"))))
	require.NoError(t, r.Map("unknown", route.New("/unknown", noop(), route.WithFilters("ghost"))))

	_, err := r.Match("/ok", get)
	require.NoError(t, err)
	assert.Equal(t, []string{"auth:ok", "csrf:ok"}, order)

	_, err = r.Match("/denied", get)
	require.ErrorIs(t, err, denied)
	var fe *FilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "deny", fe.Filter)

	_, err = r.Match("/unknown", get)
	require.ErrorIs(t, err, ErrMissingFilter)
	var mf *MissingFilterError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "ghost", mf.Filter)
	assert.Equal(t, "unknown", mf.Route)
}

func TestRouter_Observers(t *testing.T) {
	t.Parallel()

	var log []string
	obs := func(id string) Observer {
		return ObserverFuncs{
			Before: func(url string, _ route.Context) { log = append(log, id+" before "+url) },
			After: func(url string, m *route.Match, err error) {
				if err != nil {
					log = append(log, id+" miss "+url)
					return
				}
				log = append(log, id+" hit "+m.Route.Name())
			},
		}
	}

	r := MustNew(WithObserver(obs("1")), WithObserver(obs("2")), WithObserver(ObserverFuncs{}))
	require.NoError(t, r.Map("home", route.New("/", noop())))

	_, _ = r.Match("/", get)
	_, _ = r.Match("/nope", get)

	assert.Equal(t, []string{
		"1 before /", "2 before /", "1 hit home", "2 hit home",
		"1 before /nope", "2 before /nope", "1 miss /nope", "2 miss /nope",
	}, log)
}

func TestRouter_MatchRequest(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Map("secure", route.New("/account", noop(), route.WithSecure(true))))
	require.NoError(t, r.Map("search", route.New("/search/{term}", noop(),
		route.WithCondition(func(u string) bool { return strings.Contains(u, "page=") }),
	)))

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	_, err := r.MatchRequest(req)
	require.ErrorIs(t, err, route.ErrNoMatch)

	req.Header.Set("X-Forwarded-Proto", "https")
	m, err := r.MatchRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "secure", m.Route.Name())

	req = httptest.NewRequest(http.MethodGet, "/search/caf%C3%A9%2Fbar?page=2", nil)
	m, err = r.MatchRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "café/bar", m.Params.String("term"))

	req = httptest.NewRequest(http.MethodGet, "/search/go", nil)
	_, err = r.MatchRequest(req)
	require.ErrorIs(t, err, route.ErrNoMatch)
}

func TestRouter_Build(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Map("post", route.New("/blog/[year]/{slug?}", noop())))

	path, err := r.Build("post", map[string]any{"year": 2024, "slug": "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "/blog/2024/hello%20world", path)

	path, err = r.Build("post", map[string]any{"year": 2024})
	require.NoError(t, err)
	assert.Equal(t, "/blog/2024", path)

	_, err = r.Build("post", nil)
	require.ErrorIs(t, err, route.ErrMissingToken)
	var mt *route.MissingTokenError
	require.ErrorAs(t, err, &mt)
	assert.Equal(t, "year", mt.Token)

	_, err = r.Build("nope", nil)
	require.ErrorIs(t, err, ErrMissingRoute)
	var mr *MissingRouteError
	require.ErrorAs(t, err, &mr)
	assert.Equal(t, "nope", mr.Name)

	link, err := r.URLFor("post", map[string]any{"year": 2024}, url.Values{"tab": {"comments"}, "page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, "/blog/2024?page=2&tab=comments", link)

	assert.Equal(t, "/blog/1999", r.MustURLFor("post", map[string]any{"year": "1999"}, nil))
	assert.Panics(t, func() { r.MustURLFor("nope", nil, nil) })
}

func TestRouter_BuildThenMatch(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Map("users", route.New("/users", noop())))
	require.NoError(t, r.Map("user", route.New("/users/[id]/{slug?}", noop())))
	require.NoError(t, r.Map("files", route.New("/files/{path*}", noop())))
	require.NoError(t, r.Map("tag", route.New("/tags/(tag)", noop())))

	tests := []struct {
		name   string
		params map[string]any
	}{
		{"users", nil},
		{"user", map[string]any{"id": 7}},
		{"user", map[string]any{"id": 7, "slug": "jane doe"}},
		{"files", map[string]any{"path": "docs/a b/c.md"}},
		{"tag", map[string]any{"tag": "go_lang"}},
	}

	for _, tt := range tests {
		path, err := r.Build(tt.name, tt.params)
		require.NoError(t, err, tt.name)

		m, err := r.Match(path, get)
		require.NoError(t, err, path)
		assert.Equal(t, tt.name, m.Route.Name(), path)
		for k, v := range tt.params {
			got, _ := m.Params.Get(k)
			assert.Equal(t, v, got, "%s %s", path, k)
		}
	}
}

func TestRouter_Frozen(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Map("home", route.New("/", noop())))
	assert.False(t, r.Frozen())

	_, err := r.Match("/", get)
	require.NoError(t, err)
	assert.True(t, r.Frozen())

	require.ErrorIs(t, r.Map("late", route.New("/late", noop())), ErrRouterFrozen)
}

func TestRouter_Verbs(t *testing.T) {
	t.Parallel()

	r := MustNew()
	helpers := []struct {
		method string
		fn     func(name, path string, action route.Action, opts ...route.Option) (*route.Route, error)
	}{
		{http.MethodGet, r.Get},
		{http.MethodPost, r.Post},
		{http.MethodPut, r.Put},
		{http.MethodPatch, r.Patch},
		{http.MethodDelete, r.Delete},
		{http.MethodHead, r.Head},
		{http.MethodOptions, r.Options},
	}
	for _, h := range helpers {
		rt, err := h.fn(strings.ToLower(h.method), "/verb", noop())
		require.NoError(t, err)
		assert.Equal(t, []string{strings.ToLower(h.method)}, rt.Methods())
	}

	rt, err := r.Any("any", "/any", noop(), route.WithSecure(true))
	require.NoError(t, err)
	assert.Empty(t, rt.Methods())
	assert.True(t, rt.Secure())

	_, err = r.Get("get", "/dup", noop())
	require.ErrorIs(t, err, ErrRouteNameExist)

	for _, h := range helpers {
		m, err := r.Match("/verb", route.Context{Method: h.method})
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(h.method), m.Route.Name())
	}
}

func TestRouter_Resource(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Resource("users", "/users", "Users", route.WithFilters("auth")))
	require.NoError(t, r.Filter("auth", func(*route.Match) error { return nil }))

	assert.Equal(t, map[string]string{
		"users.list":   "GET /users",
		"users.create": "POST /users",
		"users.read":   "GET /users/[id]",
		"users.update": "PUT|PATCH /users/[id]",
		"users.delete": "DELETE /users/[id]",
	}, r.Names())

	tests := []struct {
		method string
		url    string
		want   string
	}{
		{"GET", "/users", "users.list"},
		{"POST", "/users", "users.create"},
		{"GET", "/users/5", "users.read"},
		{"PATCH", "/users/5", "users.update"},
		{"DELETE", "/users/5", "users.delete"},
	}
	for _, tt := range tests {
		m, err := r.Match(tt.url, route.Context{Method: tt.method})
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, m.Route.Name())
	}

	m, _ := r.Match("/users/5", route.Context{Method: "GET"})
	controller, method := m.Route.Action().Target()
	assert.Equal(t, "Users", controller)
	assert.Equal(t, "read", method)

	require.ErrorIs(t, MustNew().Resource("bad", "/bad", "Bad@x"), route.ErrInvalidAction)
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	r := MustNew()
	for _, n := range []string{"c", "a", "b"} {
		require.NoError(t, r.Map(n, route.New("/"+n, noop())))
	}

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "c", routes[0].Name())
	assert.Equal(t, "a", routes[1].Name())
	assert.Equal(t, "b", routes[2].Name())

	routes[0] = nil
	assert.NotNil(t, r.Routes()[0], "Routes returns a copy")
}

func TestRouter_CustomMatcher(t *testing.T) {
	t.Parallel()

	var calls int
	m := MatcherFunc(func(url string, rc route.Context, routes []*route.Route) (*route.Match, bool) {
		calls++
		return LoopMatcher{}.Match(url, rc, routes)
	})

	r := MustNew(WithMatcher(m))
	require.NoError(t, r.Map("home", route.New("/", noop())))
	_, err := r.Match("/", get)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRouter_ConcurrentMatch(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.Map("user", route.New("/users/[id]", noop())))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			m, err := r.Match(fmt.Sprintf("/users/%d", i), get)
			if assert.NoError(t, err) {
				assert.Equal(t, route.Params{{Key: "id", Value: i}}, m.Params)
			}
		})
	}
	wg.Wait()
}
