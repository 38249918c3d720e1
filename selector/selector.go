// Package selector runs CSS selectors against a dom tree.
package selector

import (
	"github.com/andybalholm/cascadia"
	"github.com/pkg/errors"

	"github.com/heathj/domsim/dom"
	"github.com/heathj/domsim/parser"
)

// ErrInvalidSelector is returned for selectors that do not parse.
var ErrInvalidSelector = errors.New("invalid selector")

type Selector struct {
	raw string
	sel cascadia.Selector
}

func Compile(sel string) (*Selector, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelector, "%q: %v", sel, err)
	}
	return &Selector{raw: sel, sel: s}, nil
}

func (s *Selector) String() string { return s.raw }

// MatchAll returns the descendants of scope the selector matches, in
// document order. Combinators may reach above scope, as querySelectorAll
// does.
func (s *Selector) MatchAll(scope *dom.Node) dom.NodeList {
	m := parser.NewMirror(scope.GetRootNode())
	var out dom.NodeList
	for _, hn := range s.sel.MatchAll(m.Root) {
		n := m.DOM(hn)
		if n != scope && scope.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// MatchFirst returns the first descendant of scope the selector matches.
func (s *Selector) MatchFirst(scope *dom.Node) *dom.Node {
	if l := s.MatchAll(scope); len(l) > 0 {
		return l[0]
	}
	return nil
}

// Match is Element.matches.
func (s *Selector) Match(n *dom.Node) bool {
	if !n.IsElement() {
		return false
	}
	m := parser.NewMirror(n.GetRootNode())
	return s.sel.Match(m.HTML(n))
}

// Closest is Element.closest: the nearest inclusive ancestor of n that
// matches.
func (s *Selector) Closest(n *dom.Node) *dom.Node {
	m := parser.NewMirror(n.GetRootNode())
	for i := n; i != nil; i = i.Parent() {
		if i.IsElement() && s.sel.Match(m.HTML(i)) {
			return i
		}
	}
	return nil
}

// QueryAll compiles sel and runs it under scope.
func QueryAll(scope *dom.Node, sel string) (dom.NodeList, error) {
	s, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return s.MatchAll(scope), nil
}

// Query compiles sel and returns the first match under scope, or nil.
func Query(scope *dom.Node, sel string) (*dom.Node, error) {
	s, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return s.MatchFirst(scope), nil
}
