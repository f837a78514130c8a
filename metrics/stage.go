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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"titon.dev/framework/kernel"
	"titon.dev/framework/router"
	"titon.dev/framework/router/route"
	"titon.dev/framework/web"
)

const stashKey = "metrics.request"

// Stage returns the kernel stage recording HTTP request metrics.
func (r *Recorder) Stage() web.Stage {
	return web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		if r.exclude.Excludes(in.Path()) {
			return next.Handle(in, out)
		}
		ctx := in.Context()

		if next.Pass() == kernel.PassAfter {
			if v, ok := out.Stashed(stashKey); ok {
				m, _ := v.(*RequestMetrics)
				r.Finish(ctx, m, out.Status(), int64(out.Len()), in.RouteTemplate())
			}
			return next.Handle(in, out)
		}

		m := r.Begin(ctx)
		m.AddAttributes(attribute.String("http.request.method", in.Method()))
		out.Stash(stashKey, m)
		out.OnFinish(func(final *web.Response) {
			r.Finish(ctx, m, final.Status(), int64(final.Len()), in.RouteTemplate())
		})

		res, err := next.Handle(in, out)
		if err != nil {
			r.Abort(ctx, m)
		}
		return res, err
	})
}

// Observer returns a router observer counting matches and misses.
func (r *Recorder) Observer() router.Observer {
	return routeObserver{r}
}

type routeObserver struct{ r *Recorder }

func (o routeObserver) BeforeMatch(string, route.Context) {}

func (o routeObserver) AfterMatch(_ string, m *route.Match, err error) {
	ctx := context.Background()
	if err != nil || m == nil {
		o.r.routeMisses.Add(ctx, 1, metric.WithAttributes(o.r.baseAttrs...))
		return
	}
	name := m.Route.Name()
	if name == "" {
		name = m.Route.Template()
	}
	o.r.routeMatches.Add(ctx, 1, metric.WithAttributes(append(o.r.baseAttrs[:len(o.r.baseAttrs):len(o.r.baseAttrs)],
		attribute.String("route.name", name))...))
}
