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

// Package source provides configuration sources: files, in-memory content,
// environment variables and the Consul key-value store.
package source

import (
	"context"
	"fmt"
	"os"

	"titon.dev/framework/config/codec"
)

// File loads configuration from a file on every Load.
type File struct {
	path    string
	decoder codec.Decoder
}

// NewFile creates a file source decoding path with decoder.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return decode(f.decoder, data)
}

// Content decodes a fixed byte slice.
type Content struct {
	data    []byte
	decoder codec.Decoder
}

// NewContent creates a source over data.
func NewContent(data []byte, decoder codec.Decoder) *Content {
	return &Content{data: data, decoder: decoder}
}

// Load decodes the content.
func (c *Content) Load(context.Context) (map[string]any, error) {
	return decode(c.decoder, c.data)
}

func decode(dec codec.Decoder, data []byte) (map[string]any, error) {
	conf := make(map[string]any)
	if len(data) == 0 {
		return conf, nil
	}
	if err := dec.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return conf, nil
}
