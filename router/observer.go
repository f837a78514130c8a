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

package router

import "titon.dev/framework/router/route"

// Observer is notified around every [Router.Match] call.
//
// AfterMatch receives either the match or the error that ended the match,
// which is a *NoMatchError, a *MissingFilterError or a *FilterError.
// Observers are called synchronously and must be safe for concurrent use.
type Observer interface {
	BeforeMatch(url string, rc route.Context)
	AfterMatch(url string, m *route.Match, err error)
}

// ObserverFuncs adapts a pair of functions to Observer. Either may be nil.
type ObserverFuncs struct {
	Before func(url string, rc route.Context)
	After  func(url string, m *route.Match, err error)
}

// BeforeMatch calls o.Before.
func (o ObserverFuncs) BeforeMatch(url string, rc route.Context) {
	if o.Before != nil {
		o.Before(url, rc)
	}
}

// AfterMatch calls o.After.
func (o ObserverFuncs) AfterMatch(url string, m *route.Match, err error) {
	if o.After != nil {
		o.After(url, m, err)
	}
}
