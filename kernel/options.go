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

package kernel

import "log/slog"

type settings struct {
	logger      *slog.Logger
	onTerminate []func(exitCode int)
}

// Option configures a Kernel.
type Option func(*settings)

// WithLogger sets the logger used for run events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithOnTerminate registers a hook called once by [Kernel.Terminate] with
// the exit code. Hooks run in registration order.
func WithOnTerminate(fn func(exitCode int)) Option {
	return func(s *settings) {
		if fn != nil {
			s.onTerminate = append(s.onTerminate, fn)
		}
	}
}
