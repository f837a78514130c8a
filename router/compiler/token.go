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
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies how a token was declared in the template.
type Kind uint8

const (
	// KindSegment is declared as {name}.
	KindSegment Kind = iota
	// KindNumeric is declared as [name]. Values are coerced to integers on dispatch.
	KindNumeric
	// KindWord is declared as (name).
	KindWord
	// KindCustom is declared as <name> and requires a registered pattern.
	KindCustom
	// KindWildcard is declared as {name*}.
	KindWildcard
)

// Default character classes per token kind.
const (
	SegmentPattern  = `[^/]+`
	NumericPattern  = `[0-9]+`
	WordPattern     = `[A-Za-z0-9_]+`
	WildcardPattern = `.+`
)

var kindNames = [...]string{
	KindSegment:  "segment",
	KindNumeric:  "numeric",
	KindWord:     "word",
	KindCustom:   "custom",
	KindWildcard: "wildcard",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// DefaultPattern returns the character class used when no custom pattern is
// registered. KindCustom has none.
func (k Kind) DefaultPattern() string {
	switch k {
	case KindNumeric:
		return NumericPattern
	case KindWord:
		return WordPattern
	case KindWildcard:
		return WildcardPattern
	case KindCustom:
		return ""
	default:
		return SegmentPattern
	}
}

// Token is a named placeholder in a template.
type Token struct {
	Name      string
	Kind      Kind
	Optional  bool
	Position  int    // index in token order
	Pattern   string // effective expression fragment
	Separator string // separator absorbed by an optional token, if any

	re *regexp.Regexp
}

// Accepts reports whether v satisfies the token pattern.
func (t Token) Accepts(v string) bool {
	if t.re == nil {
		return true
	}
	return t.re.MatchString(v)
}

func (t Token) String() string {
	var b strings.Builder
	open, closeCh := "{", "}"
	switch t.Kind {
	case KindNumeric:
		open, closeCh = "[", "]"
	case KindWord:
		open, closeCh = "(", ")"
	case KindCustom:
		open, closeCh = "<", ">"
	}
	b.WriteString(open)
	b.WriteString(t.Name)
	if t.Kind == KindWildcard {
		b.WriteByte('*')
	}
	if t.Optional {
		b.WriteByte('?')
	}
	b.WriteString(closeCh)
	return b.String()
}

// parseToken reads "name", "name?", "name*" or "name*?" from a token body.
func parseToken(body string, kind Kind) (Token, error) {
	tok := Token{Kind: kind}

	if strings.HasSuffix(body, "?") {
		tok.Optional = true
		body = body[:len(body)-1]
	}
	if strings.HasSuffix(body, "*") {
		if kind != KindSegment {
			return tok, fmt.Errorf("wildcard modifier is only allowed inside {}")
		}
		tok.Kind = KindWildcard
		body = body[:len(body)-1]
	}

	if !isIdentifier(body) {
		return tok, fmt.Errorf("invalid token name %q", body)
	}
	tok.Name = body
	return tok, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
