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

// Package pathfilter decides which request paths are left out of
// observability output such as traces, metrics and access logs.
package pathfilter

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter matches paths by exact value, prefix or regular expression. A nil
// Filter excludes nothing. Filters are built once and then only read, so
// they are safe for concurrent Excludes calls.
type Filter struct {
	paths    map[string]struct{}
	prefixes []string
	patterns []*regexp.Regexp
}

// New creates an empty filter.
func New() *Filter {
	return &Filter{paths: make(map[string]struct{})}
}

// AddPaths excludes exact paths.
func (f *Filter) AddPaths(paths ...string) {
	for _, p := range paths {
		f.paths[p] = struct{}{}
	}
}

// AddPrefixes excludes paths starting with any of prefixes.
func (f *Filter) AddPrefixes(prefixes ...string) {
	f.prefixes = append(f.prefixes, prefixes...)
}

// AddPatterns compiles and adds regular expressions. Patterns before the
// first invalid one are kept.
func (f *Filter) AddPatterns(patterns ...string) error {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("invalid path exclusion pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return nil
}

// Excludes reports whether path is filtered out.
func (f *Filter) Excludes(path string) bool {
	if f == nil {
		return false
	}
	if _, ok := f.paths[path]; ok {
		return true
	}
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, re := range f.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Empty reports whether the filter excludes nothing.
func (f *Filter) Empty() bool {
	return f == nil || len(f.paths) == 0 && len(f.prefixes) == 0 && len(f.patterns) == 0
}
