package dom

import (
	"strings"

	"github.com/pkg/errors"
)

// DOMTokenList is the ordered set view of a whitespace-separated attribute
// such as class. Tokens are unique and keep the order they were first seen.
//
// https://dom.spec.whatwg.org/#interface-domtokenlist
type DOMTokenList []string

// asciiWhitespace is https://infra.spec.whatwg.org/#ascii-whitespace
const asciiWhitespace = " \t\n\f\r"

func isASCIIWhitespace(r rune) bool {
	return strings.ContainsRune(asciiWhitespace, r)
}

// ParseTokenList splits s on ASCII whitespace, dropping duplicates. Other
// Unicode spaces such as U+00A0 are part of a token.
func ParseTokenList(s string) DOMTokenList {
	var l DOMTokenList
	for _, tok := range strings.FieldsFunc(s, isASCIIWhitespace) {
		if !l.Contains(tok) {
			l = append(l, tok)
		}
	}
	return l
}

func (l DOMTokenList) Contains(token string) bool {
	return l.index(token) >= 0
}

func (l DOMTokenList) index(token string) int {
	for i, t := range l {
		if t == token {
			return i
		}
	}
	return -1
}

func (l DOMTokenList) String() string {
	return strings.Join(l, " ")
}

func (l DOMTokenList) Add(tokens ...string) DOMTokenList {
	out := append(DOMTokenList(nil), l...)
	for _, tok := range tokens {
		if !out.Contains(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func (l DOMTokenList) Remove(tokens ...string) DOMTokenList {
	out := make(DOMTokenList, 0, len(l))
	for _, t := range l {
		drop := false
		for _, tok := range tokens {
			if t == tok {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, t)
		}
	}
	return out
}

// Toggle removes token if present and adds it otherwise. The returned bool
// is the resulting membership.
func (l DOMTokenList) Toggle(token string) (DOMTokenList, bool) {
	if l.Contains(token) {
		return l.Remove(token), false
	}
	return l.Add(token), true
}

// Replace swaps token for newToken, keeping the position of whichever of
// the two comes first. It reports false and leaves the list alone when
// token is absent.
//
// https://dom.spec.whatwg.org/#dom-domtokenlist-replace
func (l DOMTokenList) Replace(token, newToken string) (DOMTokenList, bool) {
	if !l.Contains(token) {
		return l, false
	}
	out := make(DOMTokenList, 0, len(l))
	placed := false
	for _, t := range l {
		if t != token && t != newToken {
			out = append(out, t)
			continue
		}
		if !placed {
			out = append(out, newToken)
			placed = true
		}
	}
	return out, true
}

func validateToken(token string) error {
	if token == "" {
		return errors.Wrap(ErrInvalidToken, "empty token")
	}
	if strings.ContainsAny(token, asciiWhitespace) {
		return errors.Wrapf(ErrInvalidToken, "token %q contains whitespace", token)
	}
	return nil
}
