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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"titon.dev/framework/config"
	"titon.dev/framework/logging"
	"titon.dev/framework/router"
)

// Config holds the settings an application reads at startup. Environment
// variables nest on underscores, so TITON_SERVER_ADDRESS sets
// server.address when loaded with config.WithEnv("TITON_").
type Config struct {
	Server  ServerConfig  `config:"server"`
	Service ServiceConfig `config:"service"`
	Log     LogConfig     `config:"log"`
	Routes  RoutesConfig  `config:"routes"`

	manifest *router.Manifest
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address    string        `config:"address" default:":8080" validate:"required"`
	Shutdown   time.Duration `config:"shutdown" default:"30s" validate:"gte=0"`
	ReadHeader time.Duration `config:"readheader" default:"10s" validate:"gte=0"`
}

// ServiceConfig identifies the service in logs, traces and metrics.
type ServiceConfig struct {
	Name        string `config:"name" default:"titon-service" validate:"required"`
	Version     string `config:"version" default:"0.0.0"`
	Environment string `config:"environment" default:"development" validate:"oneof=development staging production"`
}

// LogConfig configures the logger built by [Config.NewLogger].
type LogConfig struct {
	Level  string `config:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `config:"format" default:"json" validate:"oneof=json text console"`
}

// RoutesConfig points at a route manifest. Relative paths resolve against
// the working directory.
type RoutesConfig struct {
	Manifest string `config:"manifest"`
}

var configValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Validate checks field constraints. It is called by the config loader.
func (c *Config) Validate() error {
	if err := configValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}
	return nil
}

// Manifest returns the route manifest read by LoadConfig, or nil.
func (c *Config) Manifest() *router.Manifest { return c.manifest }

// LoadConfig loads settings from opts, applies defaults and validates
// them. A configured route manifest is read as well.
//
//	cfg, err := app.LoadConfig(ctx,
//	    config.WithFile("config.yaml"),
//	    config.WithEnv("TITON_"),
//	)
func LoadConfig(ctx context.Context, opts ...config.Option) (*Config, error) {
	var cfg Config
	loader, err := config.New(append(opts, config.WithBinding(&cfg))...)
	if err != nil {
		return nil, fmt.Errorf("app config: %w", err)
	}
	if err = loader.Load(ctx); err != nil {
		return nil, fmt.Errorf("app config: %w", err)
	}

	if path := cfg.Routes.Manifest; path != "" {
		m, err := router.LoadFile(ctx, filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("app config: %w", err)
		}
		cfg.manifest = m
	}
	return &cfg, nil
}

// NewLogger builds a logger writing to w with the configured level, format
// and service attributes.
func (c *Config) NewLogger(w io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(
		logging.WithHandlerType(logging.HandlerType(c.Log.Format)),
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithServiceName(c.Service.Name),
		logging.WithServiceVersion(c.Service.Version),
		logging.WithEnvironment(c.Service.Environment),
	)
}
