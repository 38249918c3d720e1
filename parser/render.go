package parser

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/heathj/domsim/dom"
)

// Mirror is a golang.org/x/net/html copy of a subtree, with the mapping
// back to the dom nodes it was built from. It is a snapshot: later tree
// mutations are not reflected.
type Mirror struct {
	Root  *html.Node
	toDOM map[*html.Node]*dom.Node
	toNet map[*dom.Node]*html.Node
}

func NewMirror(root *dom.Node) *Mirror {
	m := &Mirror{
		toDOM: map[*html.Node]*dom.Node{},
		toNet: map[*dom.Node]*html.Node{},
	}
	m.Root = m.mirror(root)
	return m
}

func (m *Mirror) mirror(n *dom.Node) *html.Node {
	hn := &html.Node{}
	switch n.Type() {
	case dom.ElementNode:
		hn.Type = html.ElementNode
		hn.Data = n.TagName()
		hn.DataAtom = atom.Lookup([]byte(hn.Data))
		for _, a := range n.Attributes().Items() {
			hn.Attr = append(hn.Attr, html.Attribute{Key: string(a.Name), Val: a.Value})
		}
	case dom.TextNode:
		hn.Type = html.TextNode
		hn.Data = n.Data()
	case dom.CommentNode:
		hn.Type = html.CommentNode
		hn.Data = n.Data()
	case dom.DocumentNode:
		hn.Type = html.DocumentNode
	}
	m.toDOM[hn] = n
	m.toNet[n] = hn
	for _, c := range n.ChildNodes() {
		hn.AppendChild(m.mirror(c))
	}
	return hn
}

// DOM maps a mirrored node back to its dom node.
func (m *Mirror) DOM(hn *html.Node) *dom.Node { return m.toDOM[hn] }

// HTML maps a dom node to its mirror, or nil if it is outside the subtree.
func (m *Mirror) HTML(n *dom.Node) *html.Node { return m.toNet[n] }

// OuterHTML serializes n and its descendants.
func OuterHTML(n *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, NewMirror(n).Root); err != nil {
		return "", errors.Wrapf(err, "render node %d", n.ID())
	}
	return buf.String(), nil
}

// InnerHTML serializes the children of n.
func InnerHTML(n *dom.Node) (string, error) {
	var buf bytes.Buffer
	m := NewMirror(n)
	for c := m.Root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", errors.Wrapf(err, "render children of node %d", n.ID())
		}
	}
	return buf.String(), nil
}
