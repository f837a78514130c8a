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

package route

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

// Param is a single matched token value.
type Param struct {
	Key   string
	Value any
}

// Params holds matched values in token order. Numeric tokens hold an int,
// absent optional tokens hold their default or nil.
type Params []Param

// Get returns the value for key.
func (ps Params) Get(key string) (any, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// String returns the value for key rendered as a string, or "".
func (ps Params) String(key string) string {
	v, ok := ps.Get(key)
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Int returns the value for key as an int.
func (ps Params) Int(key string) (int, error) {
	v, ok := ps.Get(key)
	if !ok || v == nil {
		return 0, fmt.Errorf("route param %q is not set", key)
	}
	if n, ok := v.(int); ok {
		return n, nil
	}
	// decimal only; leading zeros are not octal here
	n, err := strconv.Atoi(cast.ToString(v))
	if err != nil {
		return 0, fmt.Errorf("route param %q: %w", key, err)
	}
	return n, nil
}

// Args returns the values in token order.
func (ps Params) Args() []any {
	args := make([]any, len(ps))
	for i, p := range ps {
		args[i] = p.Value
	}
	return args
}

// Map returns the values keyed by token name.
func (ps Params) Map() map[string]any {
	m := make(map[string]any, len(ps))
	for _, p := range ps {
		m[p.Key] = p.Value
	}
	return m
}

// Match is the result of a successful route match. Unlike the state stored
// by [Route.IsMatch], a Match is owned by the caller.
type Match struct {
	Route  *Route
	URL    string
	Params Params
}

// Dispatch invokes the route action with the matched parameters.
func (m *Match) Dispatch(res Resolver) (any, error) {
	return m.Route.action.Invoke(res, m.Params.Args()...)
}
