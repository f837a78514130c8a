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

package app

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

type hooks struct {
	mu         sync.Mutex
	onStart    []func(context.Context) error
	onShutdown []func(context.Context)
	onStop     []func()
}

// OnStart registers a hook run before the server listens. Hooks run in
// registration order; the first error aborts the start.
func (a *App) OnStart(fn func(context.Context) error) {
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStart = append(a.hooks.onStart, fn)
}

// OnShutdown registers a hook run when shutdown begins, with a context
// bounded by the shutdown timeout. Hooks run in reverse order.
func (a *App) OnShutdown(fn func(context.Context)) {
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onShutdown = append(a.hooks.onShutdown, fn)
}

// OnStop registers a hook run after the server stopped. A panicking hook
// is logged and does not prevent the others from running.
func (a *App) OnStop(fn func()) {
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStop = append(a.hooks.onStop, fn)
}

func (a *App) runStartHooks(ctx context.Context) error {
	a.hooks.mu.Lock()
	fns := slices.Clone(a.hooks.onStart)
	a.hooks.mu.Unlock()

	for i, fn := range fns {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("OnStart hook %d failed: %w", i, err)
		}
	}
	return nil
}

func (a *App) runShutdownHooks(ctx context.Context) {
	a.hooks.mu.Lock()
	fns := slices.Clone(a.hooks.onShutdown)
	a.hooks.mu.Unlock()

	for _, fn := range slices.Backward(fns) {
		fn(ctx)
	}
}

func (a *App) runStopHooks() {
	a.hooks.mu.Lock()
	fns := slices.Clone(a.hooks.onStop)
	a.hooks.mu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("OnStop hook panic", "panic", r)
				}
			}()
			fn()
		}()
	}
}
