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

package source

import (
	"context"
	"fmt"

	"github.com/hashicorp/consul/api"

	"titon.dev/framework/config/codec"
)

// ConsulKV is the subset of the Consul KV client used by [Consul].
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul loads a document stored under a single Consul key.
//
// The default client reads CONSUL_HTTP_ADDR and CONSUL_HTTP_TOKEN.
type Consul struct {
	kv        ConsulKV
	path      string
	decoder   codec.Decoder
	lastIndex uint64
}

// NewConsul creates a Consul source. A nil kv uses the default client.
func NewConsul(path string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("create consul client: %w", err)
		}
		kv = client.KV()
	}
	return &Consul{kv: kv, path: path, decoder: decoder}, nil
}

// Load fetches and decodes the key. A missing key yields an empty map.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	pair, meta, err := c.kv.Get(c.path, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get consul key %s: %w", c.path, err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}
	if pair == nil {
		return make(map[string]any), nil
	}
	return decode(c.decoder, pair.Value)
}

// LastIndex returns the Consul index seen by the last Load.
func (c *Consul) LastIndex() uint64 { return c.lastIndex }
