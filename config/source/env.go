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

package source

import (
	"context"
	"os"
	"strings"

	"titon.dev/framework/config/codec"
)

// Env loads environment variables sharing a prefix. The prefix is stripped
// and the rest of the name nests on underscores: with prefix "APP_",
// APP_SERVER_ADDRESS becomes server.address.
type Env struct {
	prefix  string
	environ func() []string
}

// NewOSEnvVar creates an environment source for prefix.
func NewOSEnvVar(prefix string) *Env {
	return &Env{prefix: prefix, environ: os.Environ}
}

// Load collects the matching variables.
func (e *Env) Load(context.Context) (map[string]any, error) {
	var b strings.Builder
	for _, kv := range e.environ() {
		if !strings.HasPrefix(kv, e.prefix) {
			continue
		}
		b.WriteString(strings.TrimPrefix(kv, e.prefix))
		b.WriteByte('\n')
	}

	conf := make(map[string]any)
	if err := (codec.EnvVarCodec{}).Decode([]byte(b.String()), &conf); err != nil {
		return nil, err
	}
	return conf, nil
}
