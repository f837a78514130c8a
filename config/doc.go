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

// Package config loads configuration from an ordered list of sources, merges
// them (later sources win), validates the result and optionally binds it to a
// struct.
//
// Keys are case-insensitive and addressed with dots:
//
//	cfg := config.MustNew(
//	    config.WithFile("app.yaml"),
//	    config.WithEnv("APP_"),
//	    config.WithBinding(&settings),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	addr := cfg.String("server.address")
//
// Bound structs use `config` tags for keys and `default` tags for zero
// fields. A bound struct implementing [Validator] is validated after binding.
package config
