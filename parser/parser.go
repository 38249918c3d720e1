package parser

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/heathj/domsim/dom"
)

// Parse reads an HTML document into a new Tree. Doctypes are dropped; the
// tree only holds elements, text and comments under its document.
func Parse(r io.Reader, opts ...dom.TreeOption) (*dom.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	t := dom.NewTree(opts...)
	if err := build(t, t.Document(), doc); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFragment parses markup as the contents of context, the way innerHTML
// does, and returns detached nodes owned by t.
func ParseFragment(t *dom.Tree, context *dom.Node, markup string) (dom.NodeList, error) {
	tag := "body"
	if context != nil && context.IsElement() {
		tag = context.TagName()
	}
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	hns, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse fragment")
	}
	var nodes dom.NodeList
	for _, hn := range hns {
		n, err := convert(t, hn)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		if err := build(t, n, hn); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func build(t *dom.Tree, parent *dom.Node, hn *html.Node) error {
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		n, err := convert(t, c)
		if err != nil {
			return err
		}
		if n == nil {
			continue
		}
		if err := t.AppendChild(parent, n); err != nil {
			return errors.Wrapf(err, "build <%s>", hn.Data)
		}
		if err := build(t, n, c); err != nil {
			return err
		}
	}
	return nil
}

// convert creates the dom counterpart of hn without its children. It returns
// nil for node kinds the tree does not model.
func convert(t *dom.Tree, hn *html.Node) (*dom.Node, error) {
	switch hn.Type {
	case html.ElementNode:
		n := t.CreateElement(hn.Data)
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			// duplicate attributes are dropped, first one wins
			if n.HasAttribute(name) {
				continue
			}
			if err := t.SetAttribute(n, name, a.Val); err != nil {
				return nil, errors.Wrapf(err, "attribute of <%s>", hn.Data)
			}
		}
		return n, nil
	case html.TextNode:
		return t.CreateTextNode(hn.Data), nil
	case html.CommentNode:
		return t.CreateComment(hn.Data), nil
	}
	t.Logger().WithField("method", "convert").Debugf("[PARSER]: skipping node type %d", hn.Type)
	return nil, nil
}
