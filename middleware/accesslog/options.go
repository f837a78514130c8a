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
	"log/slog"
	"time"

	"titon.dev/framework/internal/pathfilter"
)

// Option configures the stage.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	exclude       *pathfilter.Filter
	sampleRate    float64
	errorsOnly    bool
	slowThreshold time.Duration
	now           func() time.Time
}

func defaultConfig() *config {
	return &config{
		exclude:    pathfilter.New(),
		sampleRate: 1.0,
		now:        time.Now,
	}
}

// WithLogger sets the destination logger. Without one nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithExcludePaths skips exact path matches.
func WithExcludePaths(paths ...string) Option {
	return func(c *config) { c.exclude.AddPaths(paths...) }
}

// WithExcludePrefixes skips paths starting with any of prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(c *config) { c.exclude.AddPrefixes(prefixes...) }
}

// WithSampleRate keeps the given share of successful requests, clamped to
// [0, 1].
func WithSampleRate(rate float64) Option {
	return func(c *config) { c.sampleRate = max(0.0, min(rate, 1.0)) }
}

// WithErrorsOnly only logs responses with status >= 400 and slow requests.
func WithErrorsOnly() Option {
	return func(c *config) { c.errorsOnly = true }
}

// WithSlowThreshold flags requests taking at least d. Slow requests bypass
// sampling.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) { c.slowThreshold = d }
}
