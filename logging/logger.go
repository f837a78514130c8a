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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// HandlerType selects the output format.
type HandlerType string

const (
	JSONHandler    HandlerType = "json"
	TextHandler    HandlerType = "text"
	ConsoleHandler HandlerType = "console"
)

// Level is a slog level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const redacted = "***REDACTED***"

var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret":        {},
	"api_key":       {},
	"authorization": {},
}

// Logger wraps a configured *slog.Logger. It is safe for concurrent use.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar
	addSource   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	serviceName    string
	serviceVersion string
	environment    string

	custom         *slog.Logger
	useCustom      bool
	registerGlobal bool

	slogger  atomic.Pointer[slog.Logger]
	shutdown atomic.Bool
}

// New creates a Logger. The default is JSON on stdout at info level.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{handlerType: JSONHandler, output: os.Stdout}
	l.level.Set(LevelInfo)
	for _, opt := range opts {
		opt(l)
	}

	if l.output == nil {
		return nil, fmt.Errorf("invalid configuration: output writer cannot be nil")
	}
	if l.useCustom && l.custom == nil {
		return nil, ErrNilLogger
	}

	logger, err := l.build()
	if err != nil {
		return nil, err
	}
	l.slogger.Store(logger)
	if l.registerGlobal {
		slog.SetDefault(logger)
	}
	return l, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

func (l *Logger) build() (*slog.Logger, error) {
	if l.useCustom {
		return l.custom, nil
	}

	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.redact,
	}

	var h slog.Handler
	switch l.handlerType {
	case JSONHandler:
		h = slog.NewJSONHandler(l.output, opts)
	case TextHandler:
		h = slog.NewTextHandler(l.output, opts)
	case ConsoleHandler:
		h = newConsoleHandler(l.output, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
	}

	logger := slog.New(h)
	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, "service", l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, "version", l.serviceVersion)
	}
	if l.environment != "" {
		attrs = append(attrs, "env", l.environment)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger, nil
}

func (l *Logger) redact(groups []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	if l.replaceAttr != nil {
		return l.replaceAttr(groups, a)
	}
	return a
}

// Logger returns the underlying *slog.Logger.
func (l *Logger) Logger() *slog.Logger { return l.slogger.Load() }

// With returns a child *slog.Logger with args attached.
func (l *Logger) With(args ...any) *slog.Logger { return l.Logger().With(args...) }

func (l *Logger) log(level Level, msg string, args ...any) {
	if l.shutdown.Load() {
		return
	}
	l.Logger().Log(context.Background(), level, msg, args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) error {
	if l.shutdown.Load() {
		return ErrLoggerShutdown
	}
	if l.useCustom {
		return ErrCannotChangeLevel
	}
	l.level.Set(level)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() Level { return l.level.Level() }

// ServiceName returns the configured service name.
func (l *Logger) ServiceName() string { return l.serviceName }

// Shutdown stops logging through the wrapper methods and syncs the output
// when it supports it. It is safe to call more than once.
func (l *Logger) Shutdown(context.Context) error {
	if l.shutdown.Swap(true) {
		return nil
	}
	if s, ok := l.output.(interface{ Sync() error }); ok && l.output != os.Stdout && l.output != os.Stderr {
		return s.Sync()
	}
	return nil
}

// ParseLevel parses "debug", "info", "warn"/"warning" or "error".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Noop returns a *slog.Logger that discards everything.
func Noop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
