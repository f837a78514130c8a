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

package app

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"titon.dev/framework/kernel"
	"titon.dev/framework/router"
	"titon.dev/framework/router/route"
	"titon.dev/framework/web"
)

var (
	// ErrUnknownController is returned when an action names a controller
	// that is not registered.
	ErrUnknownController = stderrors.New("unknown controller")

	// ErrUnknownMethod is returned when a controller has no such action.
	ErrUnknownMethod = stderrors.New("unknown controller method")
)

// Controller binds controller actions to the current request.
type Controller interface {
	Action(method string, in *web.Request, out *web.Response) (route.Callback, error)
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(method string, in *web.Request, out *web.Response) (route.Callback, error)

// Action calls f.
func (f ControllerFunc) Action(method string, in *web.Request, out *web.Response) (route.Callback, error) {
	return f(method, in, out)
}

// Handler is a controller action. args are the matched route parameters in
// token order.
type Handler func(in *web.Request, out *web.Response, args ...any) (any, error)

// Methods is a Controller backed by a map of action names to handlers.
type Methods map[string]Handler

// Action implements Controller.
func (m Methods) Action(method string, in *web.Request, out *web.Response) (route.Callback, error) {
	h, ok := m[method]
	if !ok || h == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return func(args ...any) (any, error) { return h(in, out, args...) }, nil
}

// dispatch is the kernel application: it routes the request, invokes the
// action and writes its result.
func (a *App) dispatch(in *web.Request, out *web.Response) (*web.Response, int, error) {
	if out.Halted() {
		return out, kernel.ExitSuccess, nil
	}
	m, err := a.router.MatchRequest(in.HTTP())
	if err != nil {
		return a.fail(in, out, err)
	}
	in.SetMatch(m)

	result, err := m.Dispatch(a.requestResolver(in, out))
	if err != nil {
		return a.fail(in, out, err)
	}
	if err = writeResult(out, result); err != nil {
		return a.fail(in, out, err)
	}
	return out, kernel.ExitSuccess, nil
}

// fail renders err. The kernel sees a handled request; 5xx responses exit
// with a failure code.
func (a *App) fail(in *web.Request, out *web.Response, err error) (*web.Response, int, error) {
	status := a.renderError(in, out, err)

	var miss *router.NoMatchError
	switch {
	case stderrors.As(err, &miss):
		a.logger.Debug("no route matched", "method", in.Method(), "path", in.Path())
	case status >= http.StatusInternalServerError:
		a.logger.Error("action failed", "route", in.RouteName(), "method", in.Method(), "path", in.Path(), "error", err)
	default:
		a.logger.Debug("action rejected", "route", in.RouteName(), "status", status, "error", err)
	}

	if status >= http.StatusInternalServerError {
		return out, kernel.ExitFailure, nil
	}
	return out, kernel.ExitSuccess, nil
}

// renderError replaces the body of out with the formatted err and returns
// the status.
func (a *App) renderError(in *web.Request, out *web.Response, err error) int {
	resp := a.formatter.Format(in.HTTP(), err)

	out.Reset()
	for k, vs := range resp.Headers {
		for _, v := range vs {
			out.Header().Add(k, v)
		}
	}
	out.Header().Set("Content-Type", resp.ContentType)
	out.Header().Set("X-Content-Type-Options", "nosniff")
	out.SetStatus(resp.Status)

	if resp.Body != nil {
		data, mErr := json.Marshal(resp.Body)
		if mErr != nil {
			out.Header().Set("Content-Type", "text/plain; charset=utf-8")
			data = []byte(http.StatusText(resp.Status))
		}
		_, _ = out.Write(data)
	}
	return resp.Status
}

// writeResult writes an action result unless the action already produced
// a body.
func writeResult(out *web.Response, result any) error {
	if out.Len() > 0 {
		return nil
	}
	switch v := result.(type) {
	case nil:
		return nil
	case *web.Response:
		return nil
	case string:
		out.Text(out.Status(), v)
	case []byte:
		_, err := out.Write(v)
		return err
	default:
		if err := out.JSON(out.Status(), v); err != nil {
			return fmt.Errorf("encode action result: %w", err)
		}
	}
	return nil
}
