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

package accesslog

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"titon.dev/framework/kernel"
	"titon.dev/framework/middleware/requestid"
	"titon.dev/framework/web"
)

const startKey = "accesslog.start"

// New returns the access log stage.
func New(opts ...Option) web.Stage {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		if cfg.logger == nil || cfg.exclude.Excludes(in.Path()) {
			return next.Handle(in, out)
		}

		if next.Pass() == kernel.PassBefore {
			out.Stash(startKey, cfg.now())
			return next.Handle(in, out)
		}

		cfg.log(in, out)
		return next.Handle(in, out)
	})
}

func (c *config) log(in *web.Request, out *web.Response) {
	var duration time.Duration
	if v, ok := out.Stashed(startKey); ok {
		if start, ok := v.(time.Time); ok {
			duration = c.now().Sub(start)
		}
	}

	status := out.Status()
	id := requestid.Get(in)
	isError := status >= 400
	isSlow := c.slowThreshold > 0 && duration >= c.slowThreshold

	if !isError && !isSlow {
		if c.errorsOnly {
			return
		}
		if c.sampleRate < 1.0 && !sampleByHash(id, c.sampleRate) {
			return
		}
	}

	fields := []any{
		"method", in.Method(),
		"path", in.Path(),
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"bytes_sent", out.Len(),
		"user_agent", in.Header("User-Agent"),
		"route", in.RouteTemplate(),
	}
	if id != "" {
		fields = append(fields, "request_id", id)
	}
	if isSlow {
		fields = append(fields, "slow", true)
	}

	switch {
	case status >= 500:
		c.logger.Error("access", fields...)
	case isError, isSlow:
		c.logger.Warn("access", fields...)
	default:
		c.logger.Info("access", fields...)
	}
}

// sampleByHash keeps a request when the hash of its id falls under rate.
// Requests without an id are always kept.
func sampleByHash(id string, rate float64) bool {
	if id == "" {
		return true
	}
	h := sha256.Sum256([]byte(id))
	return binary.BigEndian.Uint64(h[:8]) <= uint64(rate*float64(^uint64(0)))
}
