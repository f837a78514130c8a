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
	"slices"
	"sync"
)

// Pipeline is an append-only list of stages. It is safe for concurrent use;
// a pass sees the stages registered when it started.
type Pipeline[I, O any] struct {
	mu     sync.RWMutex
	stages []Middleware[I, O]
}

// NewPipeline creates a pipeline with the given stages.
func NewPipeline[I, O any](stages ...Middleware[I, O]) *Pipeline[I, O] {
	p := &Pipeline[I, O]{}
	return p.Through(stages...)
}

// Through appends stages. Nil stages are skipped.
func (p *Pipeline[I, O]) Through(stages ...Middleware[I, O]) *Pipeline[I, O] {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range stages {
		if s != nil {
			p.stages = append(p.stages, s)
		}
	}
	return p
}

// Len returns the number of stages.
func (p *Pipeline[I, O]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.stages)
}

// Stages returns the stages in registration order.
func (p *Pipeline[I, O]) Stages() []Middleware[I, O] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.stages)
}

// RunBefore runs the stages in registration order.
func (p *Pipeline[I, O]) RunBefore(in I, out O) (O, error) {
	next := &Next[I, O]{stages: p.Stages(), pass: PassBefore}
	return next.Handle(in, out)
}

// RunAfter runs the stages in reverse registration order.
func (p *Pipeline[I, O]) RunAfter(in I, out O) (O, error) {
	stages := p.Stages()
	slices.Reverse(stages)
	next := &Next[I, O]{stages: stages, pass: PassAfter}
	return next.Handle(in, out)
}
