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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titon.dev/framework/kernel"
	"titon.dev/framework/web"
)

var payload = strings.Repeat(`{"id":1,"name":"compressible payload"},`, 64)

type reply struct {
	status      int
	contentType string
	encoding    string
	body        string
}

func jsonReply() reply {
	return reply{status: http.StatusOK, contentType: "application/json", body: payload}
}

// serve runs stage around an application writing r.
func serve(t *testing.T, stage web.Stage, req *http.Request, r reply) *web.Response {
	t.Helper()

	app := kernel.ApplicationFunc[*web.Request, *web.Response](func(in *web.Request, out *web.Response) (*web.Response, int, error) {
		out.SetStatus(r.status)
		if r.contentType != "" {
			out.Header().Set("Content-Type", r.contentType)
		}
		if r.encoding != "" {
			out.Header().Set("Content-Encoding", r.encoding)
		}
		_, _ = out.WriteString(r.body)
		return out, kernel.ExitSuccess, nil
	})

	out, err := kernel.MustNew[*web.Request, *web.Response](app).Pipe(stage).Run(web.NewRequest(req), web.NewResponse())
	require.NoError(t, err)
	return out
}

func request(path, accept string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	return req
}

func decode(t *testing.T, encoding string, data []byte) string {
	t.Helper()

	var r io.Reader
	switch encoding {
	case EncodingGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer zr.Close()
		r = zr
	case EncodingBrotli:
		r = brotli.NewReader(bytes.NewReader(data))
	default:
		return string(data)
	}
	plain, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(plain)
}

func TestCompression_Negotiation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{"gzip only", "gzip", EncodingGzip},
		{"brotli only", "br", EncodingBrotli},
		{"brotli preferred on tie", "gzip, deflate, br", EncodingBrotli},
		{"higher gzip quality", "br;q=0.5, gzip", EncodingGzip},
		{"both refused", "br;q=0, gzip;q=0", ""},
		{"wildcard", "*", EncodingBrotli},
		{"wildcard without brotli", "br;q=0, *;q=0.3", EncodingGzip},
		{"identity", "identity", ""},
		{"no header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := serve(t, New(), request("/items", tt.accept), jsonReply())
			assert.Equal(t, tt.want, out.Header().Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", out.Header().Get("Vary"))
			assert.Equal(t, "application/json", out.Header().Get("Content-Type"))
			if tt.want != "" {
				assert.Less(t, out.Len(), len(payload))
			}
			assert.Equal(t, payload, decode(t, tt.want, out.Body()))
		})
	}
}

func TestCompression_Skips(t *testing.T) {
	t.Parallel()

	small := jsonReply()
	small.body = `{"id":1}`
	noContent := jsonReply()
	noContent.status = http.StatusNoContent
	image := jsonReply()
	image.contentType = "image/png"
	encoded := jsonReply()
	encoded.encoding = "deflate"
	csv := jsonReply()
	csv.contentType = "text/csv"

	tests := []struct {
		name  string
		opts  []Option
		path  string
		reply reply
	}{
		{"below min size", nil, "/items", small},
		{"status without body", nil, "/items", noContent},
		{"binary content type", nil, "/items", image},
		{"already encoded", nil, "/items", encoded},
		{"excluded path", []Option{WithExcludePaths("/metrics")}, "/metrics", jsonReply()},
		{"excluded extension", []Option{WithExcludeExtensions("zip")}, "/files/a.ZIP", jsonReply()},
		{"excluded content type", []Option{WithExcludeContentTypes("text/csv")}, "/items", csv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := serve(t, New(tt.opts...), request(tt.path, "br, gzip"), tt.reply)
			assert.Equal(t, tt.reply.encoding, out.Header().Get("Content-Encoding"))
			assert.Empty(t, out.Header().Get("Vary"))
			assert.Equal(t, tt.reply.body, string(out.Body()))
		})
	}
}

func TestCompression_Options(t *testing.T) {
	t.Parallel()

	out := serve(t, New(WithBrotliDisabled(), WithGzipLevel(gzip.BestSpeed)), request("/items", "br, gzip"), jsonReply())
	assert.Equal(t, EncodingGzip, out.Header().Get("Content-Encoding"))
	assert.Equal(t, payload, decode(t, EncodingGzip, out.Body()))

	out = serve(t, New(WithGzipDisabled(), WithBrotliLevel(42)), request("/items", "gzip"), jsonReply())
	assert.Empty(t, out.Header().Get("Content-Encoding"))

	small := jsonReply()
	small.body = `{"id":1}`
	out = serve(t, New(WithMinSize(0)), request("/items", "gzip"), small)
	assert.Equal(t, EncodingGzip, out.Header().Get("Content-Encoding"))
	assert.Equal(t, small.body, decode(t, EncodingGzip, out.Body()))
}

func TestCompression_SniffsBeforeEncoding(t *testing.T) {
	t.Parallel()

	page := reply{status: http.StatusOK, body: "<!DOCTYPE html><html>" + payload + "</html>"}
	out := serve(t, New(), request("/", "gzip"), page)

	assert.Equal(t, EncodingGzip, out.Header().Get("Content-Encoding"))
	assert.Equal(t, "text/html; charset=utf-8", out.Header().Get("Content-Type"))
	assert.Equal(t, page.body, decode(t, EncodingGzip, out.Body()))
}

func TestCompression_FlushedLength(t *testing.T) {
	t.Parallel()

	out := serve(t, New(), request("/items", "br"), jsonReply())

	rec := httptest.NewRecorder()
	require.NoError(t, out.Flush(rec, http.MethodGet))
	assert.Equal(t, EncodingBrotli, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, rec.Body.Len(), out.Len())
	assert.Equal(t, payload, decode(t, EncodingBrotli, rec.Body.Bytes()))
}

func TestQValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		accept string
		coding string
		want   float64
	}{
		{"gzip", "gzip", 1},
		{"gzip;q=0.4", "gzip", 0.4},
		{"GZIP ; Q=0.7", "gzip", 0.7},
		{"deflate", "gzip", -1},
		{"*;q=0.2", "br", 0.2},
		{"gzip;q=2", "gzip", 1},
		{"gzip;q=abc", "gzip", 1},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, qValue(tt.accept, tt.coding), 1e-9)
		})
	}
}
