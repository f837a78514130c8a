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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraints_Methods(t *testing.T) {
	t.Parallel()

	var c Constraints
	assert.True(t, c.AllowsMethod("DELETE"), "empty method list allows all")

	c.AddMethods("GET", " post ", "get", "")
	assert.Equal(t, []string{"get", "post"}, c.Methods())
	assert.True(t, c.AllowsMethod("Post"))
	assert.False(t, c.AllowsMethod("put"))
}

func TestConstraints_Filters(t *testing.T) {
	t.Parallel()

	var c Constraints
	c.AddFilters("auth", "csrf", "auth")
	assert.Equal(t, []string{"auth", "csrf"}, c.Filters())
}

func TestConstraints_Merge(t *testing.T) {
	t.Parallel()

	base := NewGroup(
		WithPrefix("/admin"),
		WithSuffix(".json"),
		WithSecure(true),
		WithMethods("get"),
		WithFilters("auth"),
		WithPatterns(map[string]string{"id": `[0-9]+`, "slug": `[a-z]+`}),
		WithCondition(func(string) bool { return true }),
	)

	c := Constraints{}
	WithMethods("post")(&c)
	WithFilters("csrf", "auth")(&c)
	WithPattern("slug", `[a-z-]+`)(&c)
	WithCondition(func(string) bool { return false })(&c)

	c.Merge(&base.Constraints)

	assert.Equal(t, "/admin", c.Prefix())
	assert.Equal(t, ".json", c.Suffix())
	assert.True(t, c.Secure())
	assert.Equal(t, []string{"get", "post"}, c.Methods())
	assert.Equal(t, []string{"auth", "csrf"}, c.Filters())
	assert.Equal(t, map[string]string{"id": `[0-9]+`, "slug": `[a-z-]+`}, c.Patterns())

	conds := c.Conditions()
	require.Len(t, conds, 2)
	assert.True(t, conds[0]("/"), "group conditions come first")
	assert.False(t, conds[1]("/"))
}

func TestConstraints_MergeScalarOverride(t *testing.T) {
	t.Parallel()

	base := NewGroup(WithPrefix("/admin"), WithSecure(true))

	c := Constraints{}
	c.SetPrefix("/root")
	c.SetSecure(false)
	c.Merge(&base.Constraints)

	assert.Equal(t, "/root", c.Prefix())
	assert.False(t, c.Secure(), "explicit false is kept")
}

func TestConstraints_MergeNil(t *testing.T) {
	t.Parallel()

	c := Constraints{}
	c.AddMethods("get")
	c.Merge(nil)
	assert.Equal(t, []string{"get"}, c.Methods())
}

func TestGroup_Nest(t *testing.T) {
	t.Parallel()

	outer := NewGroup(WithPrefix("/api"), WithSuffix(".json"), WithMethods("get"), WithSecure(true))
	inner := NewGroup(WithPrefix("/v1"), WithSuffix("/raw"), WithMethods("post"), WithSecure(false))

	g := outer.Nest(inner)

	assert.Equal(t, "/api/v1", g.Prefix())
	assert.Equal(t, "/raw.json", g.Suffix())
	assert.Equal(t, []string{"get", "post"}, g.Methods())
	assert.False(t, g.Secure())

	assert.Equal(t, "/api", outer.Prefix(), "outer group is untouched")
	assert.Equal(t, []string{"post"}, inner.Methods(), "inner group is untouched")
}

func TestGroup_NestWithoutPrefix(t *testing.T) {
	t.Parallel()

	outer := NewGroup(WithPrefix("/api"))
	g := outer.Nest(NewGroup(WithFilters("auth")))

	assert.Equal(t, "/api", g.Prefix())
	assert.Equal(t, []string{"auth"}, g.Filters())

	assert.Equal(t, "/api", outer.Nest(nil).Prefix())
}

func TestRoute_Join(t *testing.T) {
	t.Parallel()

	g := NewGroup(WithPrefix("/admin"), WithMethods("get"), WithPattern("id", `[0-9]{2}`))
	r := New("/users/{id}", Func(concat), WithMethods("head"))

	_, err := r.Compile()
	require.NoError(t, err)

	r.Join(g)
	assert.False(t, r.IsCompiled(), "join invalidates the compiled template")
	assert.Equal(t, "/admin/users/{id}", r.Template())
	assert.Equal(t, []string{"get", "head"}, r.Methods())

	assert.True(t, r.IsMatch("/admin/users/12", Context{Method: "HEAD"}))
	assert.False(t, r.IsMatch("/admin/users/123", Context{Method: "GET"}))
}

func TestRoute_Attach(t *testing.T) {
	t.Parallel()

	r := New("/users/{id}", Func(concat), WithMethods("head"))
	before, err := r.Compile()
	require.NoError(t, err)

	_, err = r.Attach(NewGroup(WithPrefix("/admin"), WithFilters("auth"), WithPattern("id", "[a-")))
	require.ErrorIs(t, err, ErrInvalidRoute)
	assert.Equal(t, "/users/{id}", r.Template())
	assert.Equal(t, []string{"head"}, r.Methods())
	assert.Empty(t, r.Filters())
	assert.Empty(t, r.Patterns())
	assert.True(t, r.IsCompiled())

	again, err := r.Attach(nil)
	require.NoError(t, err)
	assert.Same(t, before, again)

	c, err := r.Attach(NewGroup(WithPrefix("/admin"), WithMethods("get")))
	require.NoError(t, err)
	assert.Equal(t, "/admin/users/{id}", c.Template)
	assert.Equal(t, []string{"get", "head"}, r.Methods())
}

func TestConstraints_Clone(t *testing.T) {
	t.Parallel()

	c := NewGroup(WithMethods("get"), WithPattern("id", "[0-9]+"), WithFilters("auth")).Constraints
	dup := c.Clone()
	dup.AddMethods("post")
	dup.AddPattern("id", "[a-z]+")
	dup.AddFilters("json")

	assert.Equal(t, []string{"get"}, c.Methods())
	assert.Equal(t, map[string]string{"id": "[0-9]+"}, c.Patterns())
	assert.Equal(t, []string{"auth"}, c.Filters())
}
