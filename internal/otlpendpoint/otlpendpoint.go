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

// Package otlpendpoint normalizes collector addresses for the OTLP
// exporters used by tracing and metrics.
package otlpendpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmpty is returned for a blank endpoint.
var ErrEmpty = errors.New("otlp endpoint cannot be empty")

// Parse splits raw into the host:port the exporters expect and whether the
// connection is plaintext. An "http://" scheme means plaintext; "https://"
// and bare host:port values use TLS. Paths are dropped.
func Parse(raw string) (hostPort string, insecure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, ErrEmpty
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	} else {
		insecure = strings.HasPrefix(raw, "http://")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid otlp endpoint %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return "", false, fmt.Errorf("invalid otlp endpoint %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid otlp endpoint %q: missing host", raw)
	}
	return u.Host, insecure, nil
}
