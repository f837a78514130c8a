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
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titon.dev/framework/config/codec"
)

func staticSource(conf map[string]any) Source {
	return SourceFunc(func(context.Context) (map[string]any, error) { return conf, nil })
}

type serverSettings struct {
	Address  string        `config:"address" default:":8080"`
	Timeout  time.Duration `config:"timeout" default:"5s"`
	Debug    bool          `config:"debug"`
	Tags     []string      `config:"tags" default:"web api"`
	Replicas int           `config:"replicas" default:"1"`
}

type appSettings struct {
	Name   string         `config:"name"`
	Server serverSettings `config:"server"`
}

func (s *appSettings) Validate() error {
	if s.Name == "invalid" {
		return errors.New("name is invalid")
	}
	return nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(WithFile("config.ini"), WithSource(nil), WithTag(""), WithBinding(struct{}{}), nil)
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "file-source", ce.Source)

	assert.Panics(t, func() { MustNew(WithBinding(nil)) })
}

func TestLoad_MergeOrder(t *testing.T) {
	t.Parallel()

	cfg := MustNew(
		WithContent([]byte("server:\n  address: \":9000\"\n  debug: true\nname: base\n"), codec.TypeYAML),
		WithSource(staticSource(map[string]any{"Server": map[string]any{"Address": ":9100"}})),
	)
	require.NoError(t, cfg.Load(t.Context()))

	assert.Equal(t, ":9100", cfg.String("server.address"), "later sources win")
	assert.True(t, cfg.Bool("SERVER.DEBUG"), "keys are case-insensitive")
	assert.Equal(t, "base", cfg.String("name"))
	assert.Nil(t, cfg.Get("server.missing"))
	assert.Nil(t, cfg.Get("name.nested"))
}

func TestLoad_Binding(t *testing.T) {
	t.Parallel()

	var s appSettings
	cfg := MustNew(
		WithContent([]byte(`{"name": "api", "server": {"timeout": "2s", "replicas": "3"}}`), codec.TypeJSON),
		WithBinding(&s),
	)
	require.NoError(t, cfg.Load(t.Context()))

	assert.Equal(t, "api", s.Name)
	assert.Equal(t, 2*time.Second, s.Server.Timeout)
	assert.Equal(t, 3, s.Server.Replicas)
	assert.Equal(t, ":8080", s.Server.Address, "default tag")
	assert.Equal(t, []string{"web", "api"}, s.Server.Tags)
}

func TestLoad_BindingValidationKeepsTarget(t *testing.T) {
	t.Parallel()

	s := appSettings{Name: "previous"}
	cfg := MustNew(
		WithSource(staticSource(map[string]any{"name": "invalid"})),
		WithBinding(&s),
	)

	err := cfg.Load(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "name is invalid")
	assert.Equal(t, "previous", s.Name)
}

func TestLoad_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cfg := MustNew(WithSource(SourceFunc(func(context.Context) (map[string]any, error) { return nil, boom })))

	err := cfg.Load(t.Context())
	require.ErrorIs(t, err, boom)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "source[0]", ce.Source)
	assert.Equal(t, "load", ce.Operation)
}

func TestLoad_JSONSchema(t *testing.T) {
	t.Parallel()

	schema := []byte(`{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string", "minLength": 2}}
	}`)

	ok := MustNew(WithSource(staticSource(map[string]any{"name": "api"})), WithJSONSchema(schema))
	require.NoError(t, ok.Load(t.Context()))

	bad := MustNew(WithSource(staticSource(map[string]any{"name": "x"})), WithJSONSchema(schema))
	err := bad.Load(t.Context())
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "json-schema", ce.Source)

	_, err = New(WithJSONSchema([]byte(`{`)))
	require.Error(t, err)
}

func TestLoad_Validators(t *testing.T) {
	t.Parallel()

	cfg := MustNew(
		WithSource(staticSource(map[string]any{"a": 1})),
		WithValidator(func(m map[string]any) error {
			if _, ok := m["b"]; !ok {
				return errors.New("b is required")
			}
			return nil
		}),
	)
	require.ErrorContains(t, cfg.Load(t.Context()), "b is required")

	panicking := MustNew(WithValidator(func(map[string]any) error { panic("oops") }))
	require.ErrorContains(t, panicking.Load(t.Context()), "validator panic")
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	cfg := MustNew(WithSource(staticSource(nil)))
	require.ErrorIs(t, cfg.Load(ctx), context.Canceled)
	assert.Panics(t, func() { cfg.MustLoad(ctx) })
}

func TestWithFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"from-toml\"\n[server]\nreplicas = 4\n"), 0o600))

	cfg := MustNew(WithFile(path))
	require.NoError(t, cfg.Load(t.Context()))
	assert.Equal(t, "from-toml", cfg.String("name"))
	assert.Equal(t, 4, cfg.Int("server.replicas"))

	plain := filepath.Join(dir, "settings")
	require.NoError(t, os.WriteFile(plain, []byte(`{"name": "plain"}`), 0o600))
	cfg = MustNew(WithFileAs(plain, codec.TypeJSON))
	require.NoError(t, cfg.Load(t.Context()))
	assert.Equal(t, "plain", cfg.String("name"))
}

type memoryKV map[string][]byte

func (m memoryKV) Get(key string, _ *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	v, ok := m[key]
	if !ok {
		return nil, &api.QueryMeta{}, nil
	}
	return &api.KVPair{Key: key, Value: v}, &api.QueryMeta{LastIndex: 1}, nil
}

func TestWithConsulKV(t *testing.T) {
	t.Parallel()

	kv := memoryKV{"titon/app.yaml": []byte("name: consul\n")}
	cfg := MustNew(
		WithContent([]byte(`{"name": "local"}`), codec.TypeJSON),
		WithConsulKV("titon/app.yaml", codec.TypeYAML, kv),
	)
	require.NoError(t, cfg.Load(t.Context()))
	assert.Equal(t, "consul", cfg.String("name"))
}

func TestWithConsul_SkippedWithoutAddress(t *testing.T) {
	t.Setenv("CONSUL_HTTP_ADDR", "")

	cfg, err := New(WithConsul("titon/app.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Load(t.Context()))
	assert.Empty(t, cfg.Values())
}

func TestWithEnv(t *testing.T) {
	t.Setenv("TITONTEST_SERVER_ADDRESS", ":6000")

	cfg := MustNew(WithEnv("TITONTEST_"))
	require.NoError(t, cfg.Load(t.Context()))
	assert.Equal(t, ":6000", cfg.String("server.address"))
}
