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

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"titon.dev/framework/logging"
)

// Exit codes set by the kernel itself.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Application is the unit of work a kernel dispatches to between the two
// pipeline passes. It returns the output and an exit or status code.
type Application[I, O any] interface {
	Run(in I, out O) (O, int, error)
}

// ApplicationFunc is a function adapter for Application.
type ApplicationFunc[I, O any] func(in I, out O) (O, int, error)

// Run calls f.
func (f ApplicationFunc[I, O]) Run(in I, out O) (O, int, error) {
	return f(in, out)
}

// ExitCoder is implemented by errors that carry their own exit code.
type ExitCoder interface {
	ExitCode() int
}

// State is a kernel lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateBeforeRunning
	StateDispatching
	StateAfterRunning
	StateTerminated
)

var stateNames = [...]string{
	StateIdle:          "idle",
	StateBeforeRunning: "before-running",
	StateDispatching:   "dispatching",
	StateAfterRunning:  "after-running",
	StateTerminated:    "terminated",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Kernel runs the before pass, the application and the after pass once.
type Kernel[I, O any] struct {
	app      Application[I, O]
	pipeline *Pipeline[I, O]
	settings *settings

	state    atomic.Int32
	exitCode atomic.Int32
	started  time.Time
}

// New creates an idle kernel dispatching to app.
func New[I, O any](app Application[I, O], opts ...Option) (*Kernel[I, O], error) {
	if app == nil {
		return nil, ErrNilApplication
	}
	s := &settings{logger: logging.Noop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, errors.New("kernel configuration validation failed: logger cannot be nil")
	}
	return &Kernel[I, O]{app: app, pipeline: NewPipeline[I, O](), settings: s}, nil
}

// MustNew is like [New] but panics on error.
func MustNew[I, O any](app Application[I, O], opts ...Option) *Kernel[I, O] {
	k, err := New(app, opts...)
	if err != nil {
		panic(fmt.Sprintf("kernel.MustNew: %v", err))
	}
	return k
}

// Pipe appends stages to the pipeline.
func (k *Kernel[I, O]) Pipe(stages ...Middleware[I, O]) *Kernel[I, O] {
	k.pipeline.Through(stages...)
	return k
}

// Pipeline returns the kernel pipeline.
func (k *Kernel[I, O]) Pipeline() *Pipeline[I, O] { return k.pipeline }

// Fork returns an idle kernel sharing the application, the pipeline and
// the options of k. Stages piped into either kernel are visible to both.
func (k *Kernel[I, O]) Fork() *Kernel[I, O] {
	return &Kernel[I, O]{app: k.app, pipeline: k.pipeline, settings: k.settings}
}

// State returns the current state.
func (k *Kernel[I, O]) State() State { return State(k.state.Load()) }

// ExitCode returns the code set by the application, or [ExitFailure] when
// the run failed without an [ExitCoder] error.
func (k *Kernel[I, O]) ExitCode() int { return int(k.exitCode.Load()) }

// Run executes the before pass, the application and the after pass over in
// and out. The first error ends the run and is returned unchanged; the
// kernel stays in the state it failed in until Terminate.
//
// Run fails with a *StateError wrapping [ErrKernelState] unless the kernel
// is idle.
func (k *Kernel[I, O]) Run(in I, out O) (O, error) {
	if !k.state.CompareAndSwap(int32(StateIdle), int32(StateBeforeRunning)) {
		return out, &StateError{Op: "run", State: k.State()}
	}
	k.started = time.Now()
	log := k.settings.logger

	out, err := k.pipeline.RunBefore(in, out)
	if err != nil {
		return out, k.fail(err, StateBeforeRunning)
	}

	k.state.Store(int32(StateDispatching))
	out, code, err := k.app.Run(in, out)
	if err != nil {
		return out, k.fail(err, StateDispatching)
	}
	k.exitCode.Store(int32(code))

	k.state.Store(int32(StateAfterRunning))
	out, err = k.pipeline.RunAfter(in, out)
	if err != nil {
		return out, k.fail(err, StateAfterRunning)
	}

	log.Debug("kernel run completed", "exit_code", code, "duration", time.Since(k.started))
	return out, nil
}

func (k *Kernel[I, O]) fail(err error, state State) error {
	code := ExitFailure
	var ec ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	k.exitCode.Store(int32(code))
	k.settings.logger.Debug("kernel run failed", "state", state.String(), "exit_code", code, "error", err)
	return err
}

// Terminate ends the kernel lifecycle and runs the terminate hooks with the
// exit code. It is valid in any state but can only happen once; later calls
// return a *StateError.
func (k *Kernel[I, O]) Terminate() error {
	prev := State(k.state.Swap(int32(StateTerminated)))
	if prev == StateTerminated {
		return &StateError{Op: "terminate", State: prev}
	}

	code := k.ExitCode()
	for _, fn := range k.settings.onTerminate {
		fn(code)
	}
	k.settings.logger.Debug("kernel terminated", "previous_state", prev.String(), "exit_code", code)
	return nil
}
