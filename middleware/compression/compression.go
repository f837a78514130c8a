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
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"

	"titon.dev/framework/internal/pathfilter"
	"titon.dev/framework/kernel"
	"titon.dev/framework/logging"
	"titon.dev/framework/web"
)

// Content-Encoding values produced by the stage.
const (
	EncodingBrotli = "br"
	EncodingGzip   = "gzip"
)

// Content types never compressed: streams and already opaque payloads.
var skippedContentTypes = []string{
	"text/event-stream",
	"application/grpc",
	"application/octet-stream",
	"application/zip",
	"application/gzip",
	"image/",
	"video/",
	"audio/",
	"font/woff",
}

// New returns the compression stage.
func New(opts ...Option) web.Stage {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Noop()
	}

	exclude := pathfilter.New()
	exclude.AddPaths(cfg.excludePaths...)

	gzipPool := &sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, cfg.gzipLevel)
		return w
	}}
	brotliPool := &sync.Pool{New: func() any {
		return brotli.NewWriterLevel(io.Discard, cfg.brotliLevel)
	}}

	return web.StageFunc(func(in *web.Request, out *web.Response, next *web.Next) (*web.Response, error) {
		if next.Pass() != kernel.PassAfter {
			return next.Handle(in, out)
		}
		if !cfg.compressible(in, out, exclude) {
			return next.Handle(in, out)
		}

		out.Header().Add("Vary", "Accept-Encoding")
		encoding := chooseEncoding(in.Header("Accept-Encoding"), cfg)
		if encoding == "" {
			return next.Handle(in, out)
		}

		body := out.Body()
		var buf bytes.Buffer
		buf.Grow(len(body) / 2)

		var err error
		switch encoding {
		case EncodingBrotli:
			w := brotliPool.Get().(*brotli.Writer)
			err = encode(w, &buf, body)
			w.Reset(nil)
			brotliPool.Put(w)
		default:
			w := gzipPool.Get().(*gzip.Writer)
			err = encode(w, &buf, body)
			w.Reset(nil)
			gzipPool.Put(w)
		}
		if err != nil {
			cfg.logger.Warn("response compression failed",
				slog.String("encoding", encoding), slog.String("path", in.Path()), slog.Any("error", err))
			return next.Handle(in, out)
		}

		// Sniff before the body turns into compressed bytes.
		if out.Header().Get("Content-Type") == "" {
			out.Header().Set("Content-Type", http.DetectContentType(body))
		}
		out.Header().Del("Content-Length")
		out.Header().Set("Content-Encoding", encoding)
		out.Reset()
		_, _ = out.Write(buf.Bytes())

		return next.Handle(in, out)
	})
}

// resetWriter is satisfied by *gzip.Writer and *brotli.Writer.
type resetWriter interface {
	io.WriteCloser
	Reset(io.Writer)
}

func encode(w resetWriter, dst io.Writer, body []byte) error {
	w.Reset(dst)
	if _, err := w.Write(body); err != nil {
		return err
	}
	return w.Close()
}

func (c *config) compressible(in *web.Request, out *web.Response, exclude *pathfilter.Filter) bool {
	switch status := out.Status(); {
	case status < http.StatusOK,
		status == http.StatusNoContent,
		status == http.StatusPartialContent,
		status == http.StatusNotModified:
		return false
	}

	size := out.Len()
	if size == 0 || size < c.minSize {
		return false
	}
	if out.Header().Get("Content-Encoding") != "" {
		return false
	}

	p := in.Path()
	if exclude.Excludes(p) {
		return false
	}
	if _, ok := c.excludeExtensions[strings.ToLower(path.Ext(p))]; ok {
		return false
	}

	ct := strings.ToLower(out.Header().Get("Content-Type"))
	if ct == "" {
		return true
	}
	for _, skip := range skippedContentTypes {
		if strings.Contains(ct, skip) {
			return false
		}
	}
	for _, skip := range c.excludeContentTypes {
		if strings.Contains(ct, skip) {
			return false
		}
	}
	return true
}

// chooseEncoding picks the encoding with the highest quality the client
// accepts, preferring brotli on ties. It returns "" when neither is
// acceptable.
func chooseEncoding(accept string, cfg *config) string {
	if accept == "" {
		return ""
	}
	br, gz := qValue(accept, EncodingBrotli), qValue(accept, EncodingGzip)

	switch {
	case cfg.enableBrotli && br > 0 && (br >= gz || !cfg.enableGzip):
		return EncodingBrotli
	case cfg.enableGzip && gz > 0:
		return EncodingGzip
	}
	return ""
}

// qValue returns the quality of coding in an Accept-Encoding header: -1
// when absent, otherwise the q parameter (1 by default). A "*" entry
// stands in for codings not listed.
func qValue(accept, coding string) float64 {
	wildcard := -1.0
	for part := range strings.SplitSeq(accept, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name != coding && name != "*" {
			continue
		}

		q := 1.0
		for param := range strings.SplitSeq(params, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
			if ok && strings.EqualFold(strings.TrimSpace(k), "q") {
				if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
					q = max(0, min(f, 1))
				}
			}
		}
		if name == coding {
			return q
		}
		wildcard = q
	}
	return wildcard
}
