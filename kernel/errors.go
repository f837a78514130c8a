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
)

var (
	// ErrKernelState indicates an operation that the current kernel state
	// does not allow, such as running a kernel twice.
	ErrKernelState = errors.New("invalid kernel state")

	// ErrNilApplication indicates that a kernel was created without an application.
	ErrNilApplication = errors.New("application cannot be nil")
)

// StateError reports the operation that was refused and the state the
// kernel was in.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("kernel: cannot %s in state %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error { return ErrKernelState }
