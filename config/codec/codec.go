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

// Package codec provides the encoders and decoders used by configuration
// sources. Codecs register themselves by [Type] on init.
package codec

import (
	"fmt"
	"sync"
)

// Type identifies a codec.
type Type string

// Encoder converts Go values into bytes. Implementations must be safe for
// concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts bytes into the value pointed to by v. Implementations must
// be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

var registry = struct {
	sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

// RegisterEncoder makes an encoder available under name.
func RegisterEncoder(name Type, enc Encoder) {
	registry.Lock()
	defer registry.Unlock()
	registry.encoders[name] = enc
}

// RegisterDecoder makes a decoder available under name.
func RegisterDecoder(name Type, dec Decoder) {
	registry.Lock()
	defer registry.Unlock()
	registry.decoders[name] = dec
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	registry.RLock()
	defer registry.RUnlock()
	enc, ok := registry.encoders[name]
	if !ok {
		return nil, fmt.Errorf("encoder not found for type: %s", name)
	}
	return enc, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	registry.RLock()
	defer registry.RUnlock()
	dec, ok := registry.decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}
	return dec, nil
}
