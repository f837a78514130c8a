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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, conf map[string]any) *Config {
	t.Helper()
	cfg := MustNew(WithSource(staticSource(conf)))
	require.NoError(t, cfg.Load(t.Context()))
	return cfg
}

func TestGetters(t *testing.T) {
	t.Parallel()

	cfg := loaded(t, map[string]any{
		"server": map[string]any{
			"port":    "8080",
			"timeout": "1m",
			"ratio":   0.5,
			"secure":  "true",
			"hosts":   []any{"a", "b"},
			"labels":  map[string]any{"team": "web"},
		},
	})

	assert.Equal(t, 8080, cfg.Int("server.port"))
	assert.Equal(t, int64(8080), cfg.Int64("server.port"))
	assert.Equal(t, "8080", cfg.String("server.port"))
	assert.Equal(t, time.Minute, cfg.Duration("server.timeout"))
	assert.InDelta(t, 0.5, cfg.Float64("server.ratio"), 0.0001)
	assert.True(t, cfg.Bool("server.secure"))
	assert.Equal(t, []string{"a", "b"}, cfg.StringSlice("server.hosts"))
	assert.Equal(t, map[string]any{"team": "web"}, cfg.StringMap("server.labels"))
	assert.Equal(t, map[string]string{"team": "web"}, Get[map[string]string](cfg, "server.labels"))
}

func TestGetOr(t *testing.T) {
	t.Parallel()

	cfg := loaded(t, map[string]any{"port": "not-a-number"})

	assert.Equal(t, 9090, cfg.IntOr("port", 9090))
	assert.Equal(t, "x", cfg.StringOr("missing", "x"))
	assert.True(t, cfg.BoolOr("missing", true))
	assert.Equal(t, time.Second, cfg.DurationOr("missing", time.Second))
}

func TestGetE(t *testing.T) {
	t.Parallel()

	cfg := loaded(t, map[string]any{"port": 80})

	v, err := GetE[int](cfg, "port")
	require.NoError(t, err)
	assert.Equal(t, 80, v)

	_, err = GetE[int](cfg, "missing")
	require.ErrorContains(t, err, "not found")

	_, err = GetE[struct{}](cfg, "port")
	require.ErrorContains(t, err, "cannot convert")

	_, err = GetE[int](nil, "port")
	require.Error(t, err)
	assert.Zero(t, Get[int](nil, "port"))
}
