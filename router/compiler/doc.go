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

// Package compiler turns route path templates into anchored regular
// expressions plus the token metadata needed to extract values on match and
// to rebuild URLs from values.
//
// # Template Syntax
//
//	{name}    any characters except "/"            ([^/]+)
//	[name]    digits only                          ([0-9]+)
//	(name)    letters, digits and underscore       ([A-Za-z0-9_]+)
//	<name>    pattern supplied by the caller, required
//	{name*}   wildcard, may span "/"               (.+)
//
// Appending "?" to a token name makes it optional. An optional token that
// directly follows a "/" absorbs the separator, so "/a/{b?}" matches both
// "/a" and "/a/x".
//
// A pattern passed to [Compile] for a token name replaces the default class
// of that token, whatever its delimiter.
//
// # Normalization
//
// Templates and paths pass through [Normalize] before use: a leading "/" is
// ensured, repeated separators are collapsed and a trailing "/" is dropped
// (the root path stays "/"). Matching and building therefore treat "/a/" and
// "/a" as the same path.
//
// Example:
//
//	c, err := compiler.Compile("/users/[id]/{slug?}", nil)
//	if err != nil {
//	    return err
//	}
//	caps, ok := c.Match("/users/42/hello")
//	// caps[0].Value == "42", caps[1].Value == "hello"
//
//	path, err := c.Expand(map[string]string{"id": "7"})
//	// path == "/users/7"
package compiler
