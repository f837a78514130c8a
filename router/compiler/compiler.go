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

package compiler

import (
	"net/url"
	"regexp"
	"strings"
)

// Compiled is the result of compiling a template. It is immutable and safe
// for concurrent use.
type Compiled struct {
	// Template is the normalized template the expression was built from.
	Template string

	// Regexp is the anchored matching expression.
	Regexp *regexp.Regexp

	// Tokens lists the template tokens in order of appearance.
	Tokens []Token

	// Segments is the template split into static text and token references,
	// used to rebuild URLs.
	Segments []Segment

	// Static is true when the template has no tokens.
	Static bool

	// matchesEmpty is set when every token is optional and the expression
	// accepts the empty string, in which case "/" must match as well.
	matchesEmpty bool
}

// Segment is a piece of a compiled template: either static text or a
// reference to a token by position.
type Segment struct {
	Static bool
	Value  string // static text, or the token name
	Token  int    // index into Compiled.Tokens, -1 for static text
}

// Capture is a token value extracted by [Compiled.Match].
type Capture struct {
	Token   Token
	Value   string
	Present bool // false when an optional token was absent
}

// Compile parses template and builds its matching expression. patterns maps
// token names to regular expression fragments overriding the default class.
//
// Errors are returned as *CompileError and wrap [ErrInvalidTemplate].
func Compile(template string, patterns map[string]string) (*Compiled, error) {
	tpl := Normalize(template)

	var (
		expr     strings.Builder
		static   strings.Builder
		tokens   []Token
		segments []Segment
		seen     = make(map[string]struct{})
	)
	expr.WriteByte('^')

	flush := func() {
		if static.Len() == 0 {
			return
		}
		text := static.String()
		expr.WriteString(regexp.QuoteMeta(text))
		segments = append(segments, Segment{Static: true, Value: text, Token: -1})
		static.Reset()
	}

	for i := 0; i < len(tpl); {
		c := tpl[i]
		closer, kind, ok := opener(c)
		if !ok {
			if isCloser(c) {
				return nil, newCompileError(tpl, i, "unexpected %q without opening delimiter", c)
			}
			static.WriteByte(c)
			i++
			continue
		}

		end := strings.IndexByte(tpl[i+1:], closer)
		if end < 0 {
			return nil, newCompileError(tpl, i, "unclosed %q", c)
		}
		end += i + 1

		body := tpl[i+1 : end]
		if strings.ContainsAny(body, "{}[]()<>/") {
			return nil, newCompileError(tpl, i, "malformed token %q", tpl[i:end+1])
		}

		tok, err := parseToken(body, kind)
		if err != nil {
			return nil, newCompileError(tpl, i, "%v", err)
		}
		if _, dup := seen[tok.Name]; dup {
			return nil, newCompileError(tpl, i, "duplicate token %q", tok.Name)
		}
		seen[tok.Name] = struct{}{}

		pattern, custom := patterns[tok.Name]
		switch {
		case custom && pattern != "":
			tok.Pattern = pattern
		case tok.Kind == KindCustom:
			return nil, newCompileError(tpl, i, "no pattern registered for token %q", tok.Name)
		default:
			tok.Pattern = tok.Kind.DefaultPattern()
		}

		if strings.Contains(tok.Pattern, "(?P<") || strings.Contains(tok.Pattern, "(?<") {
			return nil, newCompileError(tpl, i, "pattern for token %q must not contain named groups", tok.Name)
		}

		tok.re, err = regexp.Compile("^(?:" + tok.Pattern + ")$")
		if err != nil {
			return nil, wrapCompileError(tpl, i, err, "invalid pattern for token %q", tok.Name)
		}

		// An optional token takes ownership of the separator in front of it so
		// that the path still matches when the token is absent.
		if tok.Optional && static.Len() > 0 && strings.HasSuffix(static.String(), "/") {
			text := static.String()
			static.Reset()
			static.WriteString(text[:len(text)-1])
			tok.Separator = "/"
		}
		flush()

		tok.Position = len(tokens)
		group := "(?P<" + tok.Name + ">" + tok.Pattern + ")"
		switch {
		case tok.Optional && tok.Separator != "":
			expr.WriteString("(?:" + regexp.QuoteMeta(tok.Separator) + group + ")?")
		case tok.Optional:
			expr.WriteString(group + "?")
		default:
			expr.WriteString(group)
		}

		segments = append(segments, Segment{Value: tok.Name, Token: tok.Position})
		tokens = append(tokens, tok)
		i = end + 1
	}
	flush()
	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, wrapCompileError(tpl, 0, err, "invalid expression")
	}

	return &Compiled{
		Template:     tpl,
		Regexp:       re,
		Tokens:       tokens,
		Segments:     segments,
		Static:       len(tokens) == 0,
		matchesEmpty: len(tokens) > 0 && re.MatchString(""),
	}, nil
}

// MustCompile is like [Compile] but panics on error.
func MustCompile(template string, patterns map[string]string) *Compiled {
	c, err := Compile(template, patterns)
	if err != nil {
		panic(err)
	}
	return c
}

// Match normalizes path and evaluates the expression against it. Query
// strings and fragments are ignored. On success it returns one capture per
// token, in token order.
func (c *Compiled) Match(path string) ([]Capture, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = Normalize(path)

	loc := c.Regexp.FindStringSubmatchIndex(path)
	if loc == nil && path == "/" && c.matchesEmpty {
		path = ""
		loc = c.Regexp.FindStringSubmatchIndex(path)
	}
	if loc == nil {
		return nil, false
	}

	captures := make([]Capture, len(c.Tokens))
	for i, tok := range c.Tokens {
		captures[i].Token = tok
		idx := c.Regexp.SubexpIndex(tok.Name)
		if idx < 0 || loc[2*idx] < 0 {
			continue
		}
		raw := path[loc[2*idx]:loc[2*idx+1]]
		if v, err := url.PathUnescape(raw); err == nil {
			raw = v
		}
		captures[i].Value = raw
		captures[i].Present = true
	}
	return captures, true
}

// Shape returns the matching expression with token names erased. Templates
// with the same shape accept the same paths.
func (c *Compiled) Shape() string {
	return namedGroup.ReplaceAllLiteralString(c.Regexp.String(), "(")
}

var namedGroup = regexp.MustCompile(`\(\?P<[A-Za-z_][A-Za-z0-9_]*>`)

// Expand rebuilds a path from values keyed by token name. Optional tokens
// without a value are dropped together with their separator. Required tokens
// without a value yield a *MissingTokenError; values that do not satisfy the
// token pattern yield an *InvalidTokenError, as do wildcard values with
// empty segments ("a//b", "a/").
func (c *Compiled) Expand(values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(c.Template) + 16)

	for _, seg := range c.Segments {
		if seg.Static {
			b.WriteString(seg.Value)
			continue
		}

		tok := c.Tokens[seg.Token]
		v, ok := values[tok.Name]
		if !ok || v == "" {
			if tok.Optional {
				continue
			}
			return "", &MissingTokenError{Template: c.Template, Token: tok.Name}
		}
		if !tok.Accepts(v) || (tok.Kind == KindWildcard && hasEmptySegment(v)) {
			return "", &InvalidTokenError{Template: c.Template, Token: tok.Name, Value: v, Pattern: tok.Pattern}
		}

		b.WriteString(tok.Separator)
		b.WriteString(escape(tok, v))
	}

	return Normalize(b.String()), nil
}

// hasEmptySegment reports whether v has a leading, trailing or repeated "/".
// Normalization would drop those, so the value could not round-trip.
func hasEmptySegment(v string) bool {
	return strings.HasPrefix(v, "/") || strings.HasSuffix(v, "/") || strings.Contains(v, "//")
}

// escape path-escapes v. Wildcards keep their separators.
func escape(tok Token, v string) string {
	if tok.Kind != KindWildcard {
		return url.PathEscape(v)
	}
	parts := strings.Split(v, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Normalize ensures a leading "/", collapses repeated separators and drops a
// trailing "/" unless the result is the root.
func Normalize(p string) string {
	if p == "" || p == "/" {
		return "/"
	}

	var b strings.Builder
	b.Grow(len(p) + 1)
	b.WriteByte('/')

	prev := byte('/')
	for i := 0; i < len(p); i++ {
		ch := p[i]
		if ch == '/' && prev == '/' {
			continue
		}
		b.WriteByte(ch)
		prev = ch
	}

	out := b.String()
	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}
	return out
}

func opener(c byte) (closer byte, kind Kind, ok bool) {
	switch c {
	case '{':
		return '}', KindSegment, true
	case '[':
		return ']', KindNumeric, true
	case '(':
		return ')', KindWord, true
	case '<':
		return '>', KindCustom, true
	}
	return 0, 0, false
}

func isCloser(c byte) bool {
	return c == '}' || c == ']' || c == ')' || c == '>'
}
