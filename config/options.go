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
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync/atomic"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"titon.dev/framework/config/codec"
	"titon.dev/framework/config/source"
)

// Option configures a [Config].
type Option func(c *Config) error

// WithSource appends a source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile loads a file whose format is detected from its extension
// (.yaml, .yml, .json, .toml). Environment variables in path are expanded.
//
// Example:
//
//	config.WithFile("${CONFIG_DIR}/routes.yaml")
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}
		return addDecoded(c, "file-source", format, func(dec codec.Decoder) Source {
			return source.NewFile(path, dec)
		})
	}
}

// WithFileAs loads a file in an explicit format.
func WithFileAs(path string, format codec.Type) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		return addDecoded(c, "file-source", format, func(dec codec.Decoder) Source {
			return source.NewFile(path, dec)
		})
	}
}

// WithContent decodes data in the given format.
func WithContent(data []byte, format codec.Type) Option {
	return func(c *Config) error {
		return addDecoded(c, "content-source", format, func(dec codec.Decoder) Source {
			return source.NewContent(data, dec)
		})
	}
}

// WithEnv loads environment variables starting with prefix.
// APP_SERVER_ADDRESS with prefix "APP_" becomes server.address.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewOSEnvVar(prefix))
		return nil
	}
}

// WithConsul loads a document from the Consul key at path, with the format
// detected from the key extension. The option is skipped when
// CONSUL_HTTP_ADDR is unset so local runs work without Consul.
func WithConsul(path string) Option {
	return func(c *Config) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		path = os.ExpandEnv(path)
		format, err := detectFormat(path)
		if err != nil {
			return NewError("consul-source", "detect-format", err)
		}
		return withConsulKV(c, path, format, nil)
	}
}

// WithConsulKV loads a document from path using kv. It is meant for tests
// and for callers that manage their own Consul client.
func WithConsulKV(path string, format codec.Type, kv source.ConsulKV) Option {
	return func(c *Config) error {
		return withConsulKV(c, path, format, kv)
	}
}

func withConsulKV(c *Config, path string, format codec.Type, kv source.ConsulKV) error {
	dec, err := codec.GetDecoder(format)
	if err != nil {
		return NewError("consul-source", "get-decoder", err)
	}
	src, err := source.NewConsul(path, dec, kv)
	if err != nil {
		return NewError("consul-source", "create-client", err)
	}
	c.sources = append(c.sources, src)
	return nil
}

func addDecoded(c *Config, name string, format codec.Type, build func(codec.Decoder) Source) error {
	dec, err := codec.GetDecoder(format)
	if err != nil {
		return NewError(name, "get-decoder", err)
	}
	c.sources = append(c.sources, build(dec))
	return nil
}

// WithBinding binds the merged values to v, which must be a pointer to a struct.
func WithBinding(v any) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("binding target cannot be nil")
		}
		t := reflect.TypeOf(v)
		if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("binding target must be a pointer to a struct, got %T", v)
		}
		c.binding = v
		return nil
	}
}

// WithTag changes the struct tag used for binding (default "config").
func WithTag(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return errors.New("tag name cannot be empty")
		}
		c.tagName = name
		return nil
	}
}

var schemaSeq atomic.Uint64

// WithJSONSchema validates the merged values against schema before binding.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return NewError("json-schema", "parse", err)
		}

		name := fmt.Sprintf("inline_%d.json", schemaSeq.Add(1))
		comp := jsonschema.NewCompiler()
		if err = comp.AddResource(name, doc); err != nil {
			return NewError("json-schema", "compile", err)
		}
		s, err := comp.Compile(name)
		if err != nil {
			return NewError("json-schema", "compile", err)
		}
		c.schema = s
		return nil
	}
}

// WithValidator adds a check run on the merged values before binding.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn != nil {
			c.validators = append(c.validators, fn)
		}
		return nil
	}
}
