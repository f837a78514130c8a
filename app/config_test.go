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
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titon.dev/framework/config"
	"titon.dev/framework/config/codec"
	"titon.dev/framework/web"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(t.Context(), config.WithContent([]byte("{}"), codec.TypeJSON))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.Shutdown)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeader)
	assert.Equal(t, "titon-service", cfg.Service.Name)
	assert.Equal(t, "development", cfg.Service.Environment)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Nil(t, cfg.Manifest())
}

func TestLoadConfig_YAML(t *testing.T) {
	t.Parallel()

	doc := []byte(`
server:
  address: "127.0.0.1:9000"
  shutdown: 5s
service:
  name: orders
  version: 1.4.2
  environment: staging
log:
  level: debug
  format: text
`)
	cfg, err := LoadConfig(t.Context(), config.WithContent(doc, codec.TypeYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.Shutdown)
	assert.Equal(t, "orders", cfg.Service.Name)
	assert.Equal(t, "1.4.2", cfg.Service.Version)
	assert.Equal(t, "staging", cfg.Service.Environment)

	a := MustNew(WithConfig(cfg))
	assert.Equal(t, "127.0.0.1:9000", a.Address())
	assert.Equal(t, 5*time.Second, a.shutdownTimeout)
	assert.Equal(t, "orders", a.serviceName)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("TITONAPP_SERVER_ADDRESS", ":7070")
	t.Setenv("TITONAPP_SERVICE_NAME", "from-env")

	cfg, err := LoadConfig(t.Context(),
		config.WithContent([]byte(`{"server": {"address": ":9000"}}`), codec.TypeJSON),
		config.WithEnv("TITONAPP_"),
	)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address, "env overrides earlier sources")
	assert.Equal(t, "from-env", cfg.Service.Name)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"environment", `{"service": {"environment": "qa"}}`},
		{"log level", `{"log": {"level": "verbose"}}`},
		{"log format", `{"log": {"format": "xml"}}`},
		{"negative shutdown", `{"server": {"shutdown": "-1s"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(t.Context(), config.WithContent([]byte(tt.doc), codec.TypeJSON))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid app config")
		})
	}
}

func TestLoadConfig_Manifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routes:
  - name: home
    path: /
    action: Pages@home
groups:
  - prefix: /api
    routes:
      - name: api.users.show
        path: /users/[id]
        action: Users@show
        methods: [get]
`), 0o600))

	cfg, err := LoadConfig(t.Context(), config.WithContent(
		[]byte(`{"routes": {"manifest": "`+filepath.ToSlash(path)+`"}}`), codec.TypeJSON))
	require.NoError(t, err)
	require.NotNil(t, cfg.Manifest())
	assert.Equal(t, 2, cfg.Manifest().Len())

	a := MustNew(WithConfig(cfg))
	a.Controller("Users", Methods{
		"show": func(_ *web.Request, _ *web.Response, args ...any) (any, error) {
			return map[string]any{"user": args[0]}, nil
		},
	})

	url, err := a.Router().Build("api.users.show", map[string]any{"id": 9})
	require.NoError(t, err)
	assert.Equal(t, "/api/users/9", url)

	resp := a.Test(httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, map[string]any{"user": float64(9)}, decode(t, resp))

	_, err = LoadConfig(t.Context(), config.WithContent(
		[]byte(`{"routes": {"manifest": "`+filepath.ToSlash(filepath.Join(dir, "missing.yaml"))+`"}}`), codec.TypeJSON))
	require.Error(t, err)
}

func TestConfig_NewLogger(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(t.Context(), config.WithContent(
		[]byte(`{"service": {"name": "billing"}, "log": {"level": "warn"}}`), codec.TypeJSON))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "billing")
}
