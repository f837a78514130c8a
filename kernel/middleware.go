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

import "fmt"

// Middleware is a pipeline stage.
//
// Handle receives the shared input and output and the continuation over the
// stages after it. Calling next.Handle runs them and returns their output;
// returning without calling it ends the pass.
type Middleware[I, O any] interface {
	Handle(in I, out O, next *Next[I, O]) (O, error)
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc[I, O any] func(in I, out O, next *Next[I, O]) (O, error)

// Handle calls f.
func (f MiddlewareFunc[I, O]) Handle(in I, out O, next *Next[I, O]) (O, error) {
	return f(in, out, next)
}

// Pass identifies the direction of a pipeline traversal.
type Pass uint8

const (
	// PassBefore runs stages in registration order, ahead of the application.
	PassBefore Pass = iota
	// PassAfter runs stages in reverse order, after the application.
	PassAfter
)

func (p Pass) String() string {
	switch p {
	case PassBefore:
		return "before"
	case PassAfter:
		return "after"
	default:
		return fmt.Sprintf("pass(%d)", uint8(p))
	}
}

// Next is a continuation over the stages that have not run yet in the
// current pass. A nil or exhausted Next returns the output unchanged.
type Next[I, O any] struct {
	stages []Middleware[I, O]
	pass   Pass
}

// Handle runs the next stage, handing it a continuation over the rest.
func (n *Next[I, O]) Handle(in I, out O) (O, error) {
	if n == nil || len(n.stages) == 0 {
		return out, nil
	}
	rest := &Next[I, O]{stages: n.stages[1:], pass: n.pass}
	return n.stages[0].Handle(in, out, rest)
}

// Pass returns the direction of the current pass.
func (n *Next[I, O]) Pass() Pass {
	if n == nil {
		return PassBefore
	}
	return n.pass
}

// Remaining returns the number of stages left in the pass.
func (n *Next[I, O]) Remaining() int {
	if n == nil {
		return 0
	}
	return len(n.stages)
}
