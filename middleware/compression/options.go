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

package compression

import (
	"compress/gzip"
	"log/slog"
	"strings"

	"github.com/andybalholm/brotli"
)

// Option configures the compression stage.
type Option func(*config)

type config struct {
	logger              *slog.Logger
	gzipLevel           int
	brotliLevel         int
	minSize             int
	enableGzip          bool
	enableBrotli        bool
	excludePaths        []string
	excludeExtensions   map[string]struct{}
	excludeContentTypes []string
}

func defaultConfig() *config {
	return &config{
		gzipLevel:         gzip.DefaultCompression,
		brotliLevel:       4,
		minSize:           DefaultMinSize,
		enableGzip:        true,
		enableBrotli:      true,
		excludeExtensions: make(map[string]struct{}),
	}
}

// DefaultMinSize is the smallest body compressed unless [WithMinSize] says
// otherwise.
const DefaultMinSize = 1024

// WithGzipLevel sets the gzip level, from [gzip.HuffmanOnly] to
// [gzip.BestCompression]. Out of range values fall back to the default.
func WithGzipLevel(level int) Option {
	return func(c *config) {
		if level < gzip.HuffmanOnly || level > gzip.BestCompression {
			level = gzip.DefaultCompression
		}
		c.gzipLevel = level
	}
}

// WithBrotliLevel sets the brotli level, clamped to [0, 11]. Levels above 5
// are expensive for dynamic content.
func WithBrotliLevel(level int) Option {
	return func(c *config) { c.brotliLevel = max(brotli.BestSpeed, min(level, brotli.BestCompression)) }
}

// WithGzipDisabled serves brotli only.
func WithGzipDisabled() Option {
	return func(c *config) { c.enableGzip = false }
}

// WithBrotliDisabled serves gzip only.
func WithBrotliDisabled() Option {
	return func(c *config) { c.enableBrotli = false }
}

// WithMinSize sets the smallest body, in bytes, worth compressing. Zero
// compresses every non-empty body.
func WithMinSize(size int) Option {
	return func(c *config) { c.minSize = max(size, 0) }
}

// WithExcludePaths skips compression for exact request paths.
func WithExcludePaths(paths ...string) Option {
	return func(c *config) { c.excludePaths = append(c.excludePaths, paths...) }
}

// WithExcludeExtensions skips paths ending in one of the extensions, such
// as ".png" or ".zip".
func WithExcludeExtensions(exts ...string) Option {
	return func(c *config) {
		for _, ext := range exts {
			if ext = strings.ToLower(ext); ext != "" {
				if ext[0] != '.' {
					ext = "." + ext
				}
				c.excludeExtensions[ext] = struct{}{}
			}
		}
	}
}

// WithExcludeContentTypes skips responses whose Content-Type contains one
// of the given values.
func WithExcludeContentTypes(types ...string) Option {
	return func(c *config) {
		for _, ct := range types {
			c.excludeContentTypes = append(c.excludeContentTypes, strings.ToLower(ct))
		}
	}
}

// WithLogger sets the logger used for encoder failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}
