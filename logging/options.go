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

package logging

import (
	"io"
	"log/slog"
)

// Option configures a [Logger].
type Option func(*Logger)

// WithHandlerType selects the output format.
func WithHandlerType(t HandlerType) Option { return func(l *Logger) { l.handlerType = t } }

// WithJSONHandler emits JSON lines.
func WithJSONHandler() Option { return WithHandlerType(JSONHandler) }

// WithTextHandler emits key=value lines.
func WithTextHandler() Option { return WithHandlerType(TextHandler) }

// WithConsoleHandler emits colored, human-readable lines for development.
func WithConsoleHandler() Option { return WithHandlerType(ConsoleHandler) }

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option { return func(l *Logger) { l.output = w } }

// WithLevel sets the minimum level.
func WithLevel(level Level) Option { return func(l *Logger) { l.level.Set(level) } }

// WithServiceName adds a "service" attribute to every record.
func WithServiceName(name string) Option { return func(l *Logger) { l.serviceName = name } }

// WithServiceVersion adds a "version" attribute to every record.
func WithServiceVersion(v string) Option { return func(l *Logger) { l.serviceVersion = v } }

// WithEnvironment adds an "env" attribute to every record.
func WithEnvironment(env string) Option { return func(l *Logger) { l.environment = env } }

// WithSource includes the source location.
func WithSource(enabled bool) Option { return func(l *Logger) { l.addSource = enabled } }

// WithReplaceAttr runs fn on attributes after redaction.
func WithReplaceAttr(fn func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(l *Logger) { l.replaceAttr = fn }
}

// WithCustomLogger uses an existing *slog.Logger as is.
func WithCustomLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		l.custom = logger
		l.useCustom = true
	}
}

// WithGlobalLogger also installs the logger with slog.SetDefault.
func WithGlobalLogger() Option { return func(l *Logger) { l.registerGlobal = true } }
