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

package requestid

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"titon.dev/framework/kernel"
	"titon.dev/framework/web"
)

// StashKey is the response stash key holding the request id.
const StashKey = "request_id"

// maxClientIDLength bounds identifiers accepted from clients.
const maxClientIDLength = 128

type contextKey struct{}

// Option configures the stage.
type Option func(*config)

type config struct {
	header        string
	generator     func() string
	allowClientID bool
}

// WithHeader sets the header carrying the id. The default is X-Request-ID.
func WithHeader(name string) Option {
	return func(c *config) { c.header = name }
}

// WithULID generates ULIDs instead of UUID v7 values.
func WithULID() Option {
	return func(c *config) { c.generator = generateULID }
}

// WithGenerator sets a custom id generator.
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.generator = fn
		}
	}
}

// WithAllowClientID controls whether an id sent by the client is reused.
func WithAllowClientID(allow bool) Option {
	return func(c *config) { c.allowClientID = allow }
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns the request id stage. It only acts in the before pass.
func New(opts ...Option) web.Stage {
	cfg := &config{header: "X-Request-ID", generator: generateUUIDv7, allowClientID: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		if next.Pass() != kernel.PassBefore {
			return next.Handle(in, out)
		}

		var id string
		if cfg.allowClientID {
			id = in.Header(cfg.header)
			if len(id) > maxClientIDLength {
				id = ""
			}
		}
		if id == "" {
			id = cfg.generator()
		}

		out.Header().Set(cfg.header, id)
		out.Stash(StashKey, id)
		in.SetContext(context.WithValue(in.Context(), contextKey{}, id))

		return next.Handle(in, out)
	})
}

// FromContext returns the request id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Get returns the request id of req, or "".
func Get(req *web.Request) string {
	return FromContext(req.Context())
}
