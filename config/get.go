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
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Get returns the value at key converted to T, or the zero value.
//
// Example:
//
//	timeout := config.Get[time.Duration](cfg, "server.shutdown_timeout")
func Get[T any](c *Config, key string) T {
	v, _ := GetE[T](c, key)
	return v
}

// GetOr returns the value at key converted to T, or def when the key is
// missing or not convertible.
func GetOr[T any](c *Config, key string, def T) T {
	v, err := GetE[T](c, key)
	if err != nil {
		return def
	}
	return v
}

// GetE returns the value at key converted to T.
func GetE[T any](c *Config, key string) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("config instance is nil")
	}
	raw := c.lookup(key)
	if raw == nil {
		return zero, fmt.Errorf("key %q not found", key)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	v, err := convert[T](raw)
	if err != nil {
		return zero, fmt.Errorf("key %q: %w", key, err)
	}
	return v, nil
}

func convert[T any](raw any) (T, error) {
	var (
		zero T
		out  any
		err  error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(raw)
	case int:
		out, err = cast.ToIntE(raw)
	case int64:
		out, err = cast.ToInt64E(raw)
	case float64:
		out, err = cast.ToFloat64E(raw)
	case bool:
		out, err = cast.ToBoolE(raw)
	case time.Duration:
		out, err = cast.ToDurationE(raw)
	case time.Time:
		out, err = cast.ToTimeE(raw)
	case []string:
		out, err = cast.ToStringSliceE(raw)
	case []int:
		out, err = cast.ToIntSliceE(raw)
	case map[string]any:
		out, err = cast.ToStringMapE(raw)
	case map[string]string:
		out, err = cast.ToStringMapStringE(raw)
	default:
		return zero, fmt.Errorf("cannot convert %T to %T", raw, zero)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// String returns the value at key as a string.
func (c *Config) String(key string) string { return Get[string](c, key) }

// Int returns the value at key as an int.
func (c *Config) Int(key string) int { return Get[int](c, key) }

// Int64 returns the value at key as an int64.
func (c *Config) Int64(key string) int64 { return Get[int64](c, key) }

// Float64 returns the value at key as a float64.
func (c *Config) Float64(key string) float64 { return Get[float64](c, key) }

// Bool returns the value at key as a bool.
func (c *Config) Bool(key string) bool { return Get[bool](c, key) }

// Duration returns the value at key as a time.Duration.
func (c *Config) Duration(key string) time.Duration { return Get[time.Duration](c, key) }

// StringSlice returns the value at key as a []string.
func (c *Config) StringSlice(key string) []string { return Get[[]string](c, key) }

// StringMap returns the value at key as a map[string]any.
func (c *Config) StringMap(key string) map[string]any { return Get[map[string]any](c, key) }

// Get returns the raw value at key, or nil.
func (c *Config) Get(key string) any { return c.lookup(key) }

// StringOr returns the value at key as a string, or def.
func (c *Config) StringOr(key, def string) string { return GetOr(c, key, def) }

// IntOr returns the value at key as an int, or def.
func (c *Config) IntOr(key string, def int) int { return GetOr(c, key, def) }

// BoolOr returns the value at key as a bool, or def.
func (c *Config) BoolOr(key string, def bool) bool { return GetOr(c, key, def) }

// DurationOr returns the value at key as a time.Duration, or def.
func (c *Config) DurationOr(key string, def time.Duration) time.Duration {
	return GetOr(c, key, def)
}
