// Package dispatcher is the entry point of domsim: one Dispatcher owns a
// node tree and the listeners registered on its nodes, and exposes the
// operations a script would call on document and its elements.
package dispatcher

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/domsim/dom"
	"github.com/heathj/domsim/event"
	"github.com/heathj/domsim/parser"
	"github.com/heathj/domsim/selector"
)

type handlerKey struct {
	node dom.NodeID
	kind string
}

type handler struct {
	id event.ListenerID
	fn event.Listener
}

// Dispatcher combines a dom.Tree and an event.Bus. It stands in for the
// window/document pair of a browser; there is no shared default instance.
//
// A Dispatcher is not safe for concurrent use. Listeners run synchronously
// on the goroutine calling Fire or Dispatch.
type Dispatcher struct {
	tree     *dom.Tree
	bus      *event.Bus
	handlers map[handlerKey]handler
	log      logrus.FieldLogger
	metrics  *metrics
}

// New returns a Dispatcher holding an empty document.
func New(opts ...Option) *Dispatcher {
	c := newConfig(opts)
	return newDispatcher(c, dom.NewTree(dom.WithLogger(c.Logger)))
}

// Load parses an HTML document into a new Dispatcher.
func Load(r io.Reader, opts ...Option) (*Dispatcher, error) {
	c := newConfig(opts)
	t, err := parser.Parse(r, dom.WithLogger(c.Logger))
	if err != nil {
		return nil, err
	}
	return newDispatcher(c, t), nil
}

func newDispatcher(c Config, t *dom.Tree) *Dispatcher {
	return &Dispatcher{
		tree:     t,
		bus:      event.NewBus(),
		handlers: map[handlerKey]handler{},
		log:      c.Logger,
		metrics:  newMetrics(c, func() float64 { return float64(t.Len()) }),
	}
}

// Close removes the dispatcher's own series from the metrics registerer.
// The dispatcher stays usable.
func (d *Dispatcher) Close() {
	d.metrics.unregister()
}

func (d *Dispatcher) Tree() *dom.Tree       { return d.tree }
func (d *Dispatcher) Bus() *event.Bus       { return d.bus }
func (d *Dispatcher) Document() *dom.Node   { return d.tree.Document() }
func (d *Dispatcher) DocumentElement() *dom.Node {
	return d.tree.DocumentElement()
}
func (d *Dispatcher) Body() *dom.Node { return d.tree.Body() }

func (d *Dispatcher) CreateElement(tag string) *dom.Node   { return d.tree.CreateElement(tag) }
func (d *Dispatcher) CreateTextNode(text string) *dom.Node { return d.tree.CreateTextNode(text) }
func (d *Dispatcher) CreateComment(text string) *dom.Node  { return d.tree.CreateComment(text) }

func (d *Dispatcher) AppendChild(parent, child *dom.Node) error {
	return d.tree.AppendChild(parent, child)
}

func (d *Dispatcher) InsertBefore(parent, newNode, ref *dom.Node) error {
	return d.tree.InsertBefore(parent, newNode, ref)
}

func (d *Dispatcher) RemoveChild(parent, child *dom.Node) (*dom.Node, error) {
	return d.tree.RemoveChild(parent, child)
}

func (d *Dispatcher) ReplaceChild(parent, newNode, oldNode *dom.Node) (*dom.Node, error) {
	return d.tree.ReplaceChild(parent, newNode, oldNode)
}

func (d *Dispatcher) Remove(n *dom.Node) error {
	return d.tree.Remove(n)
}

func (d *Dispatcher) CloneNode(n *dom.Node, deep bool) (*dom.Node, error) {
	return d.tree.CloneNode(n, deep)
}

// Release forgets a detached subtree together with every listener and
// handler registered on it.
func (d *Dispatcher) Release(n *dom.Node) error {
	ids, err := d.tree.Release(n)
	if err != nil {
		return err
	}
	released := make(map[dom.NodeID]struct{}, len(ids))
	for _, id := range ids {
		d.bus.RemoveAll(id)
		released[id] = struct{}{}
	}
	for k := range d.handlers {
		if _, ok := released[k.node]; ok {
			delete(d.handlers, k)
		}
	}
	return nil
}

func (d *Dispatcher) Lookup(id dom.NodeID) *dom.Node         { return d.tree.Lookup(id) }
func (d *Dispatcher) ByID(id string) *dom.Node               { return d.tree.ByID(id) }
func (d *Dispatcher) ByTag(tag string) dom.NodeList          { return d.tree.ByTag(tag) }
func (d *Dispatcher) ByClass(classNames string) dom.NodeList { return d.tree.ByClassNames(classNames) }

func (d *Dispatcher) QueryFirst(pred func(*dom.Node) bool) *dom.Node {
	return d.tree.QueryFirst(pred)
}

func (d *Dispatcher) QueryAll(pred func(*dom.Node) bool) dom.NodeList {
	return d.tree.QueryAll(pred)
}

// QuerySelector returns the first element under scope matching the CSS
// selector. A nil scope means the document.
func (d *Dispatcher) QuerySelector(scope *dom.Node, sel string) (*dom.Node, error) {
	scope, err := d.scope(scope)
	if err != nil {
		return nil, err
	}
	return selector.Query(scope, sel)
}

func (d *Dispatcher) QuerySelectorAll(scope *dom.Node, sel string) (dom.NodeList, error) {
	scope, err := d.scope(scope)
	if err != nil {
		return nil, err
	}
	return selector.QueryAll(scope, sel)
}

func (d *Dispatcher) scope(n *dom.Node) (*dom.Node, error) {
	if n == nil {
		return d.tree.Document(), nil
	}
	if !d.tree.Owns(n) {
		return nil, errors.Wrapf(dom.ErrNotFound, "node %d does not belong to this document", n.ID())
	}
	return n, nil
}

// HasAttribute and the other read accessors see an empty node, with no
// attributes, style or text, when n does not belong to this dispatcher or
// has been released.
func (d *Dispatcher) HasAttribute(n *dom.Node, name string) bool {
	return d.tree.Owns(n) && n.HasAttribute(name)
}

func (d *Dispatcher) GetAttribute(n *dom.Node, name string) (string, bool) {
	if !d.tree.Owns(n) {
		return "", false
	}
	return n.GetAttribute(name)
}

func (d *Dispatcher) SetAttribute(n *dom.Node, name, value string) error {
	return d.tree.SetAttribute(n, name, value)
}

func (d *Dispatcher) RemoveAttribute(n *dom.Node, name string) error {
	return d.tree.RemoveAttribute(n, name)
}

func (d *Dispatcher) ToggleAttribute(n *dom.Node, name string, force ...bool) (bool, error) {
	return d.tree.ToggleAttribute(n, name, force...)
}

func (d *Dispatcher) ClassAdd(n *dom.Node, tokens ...string) error {
	return d.tree.ClassAdd(n, tokens...)
}

func (d *Dispatcher) ClassRemove(n *dom.Node, tokens ...string) error {
	return d.tree.ClassRemove(n, tokens...)
}

func (d *Dispatcher) ClassToggle(n *dom.Node, token string) (bool, error) {
	return d.tree.ClassToggle(n, token)
}

func (d *Dispatcher) ClassReplace(n *dom.Node, token, newToken string) (bool, error) {
	return d.tree.ClassReplace(n, token, newToken)
}

func (d *Dispatcher) ClassContains(n *dom.Node, token string) (bool, error) {
	return d.tree.ClassContains(n, token)
}

// SetStyle is element.style[prop] = value, with hyphenated property names.
func (d *Dispatcher) SetStyle(n *dom.Node, prop, value string) error {
	return d.tree.SetStyle(n, prop, value)
}

func (d *Dispatcher) Style(n *dom.Node, prop string) string {
	if !d.tree.Owns(n) {
		return ""
	}
	return n.Style().GetPropertyValue(prop)
}

func (d *Dispatcher) RemoveStyle(n *dom.Node, prop string) error {
	return d.tree.RemoveStyle(n, prop)
}

func (d *Dispatcher) CSSText(n *dom.Node) string {
	if !d.tree.Owns(n) {
		return ""
	}
	return n.Style().CSSText()
}

func (d *Dispatcher) TextContent(n *dom.Node) string {
	if !d.tree.Owns(n) {
		return ""
	}
	return n.TextContent()
}

func (d *Dispatcher) SetTextContent(n *dom.Node, text string) error {
	return d.tree.SetTextContent(n, text)
}

func (d *Dispatcher) InnerHTML(n *dom.Node) (string, error) {
	if !d.tree.Owns(n) {
		return "", errors.Wrap(dom.ErrNotFound, "inner html")
	}
	return parser.InnerHTML(n)
}

func (d *Dispatcher) OuterHTML(n *dom.Node) (string, error) {
	if !d.tree.Owns(n) {
		return "", errors.Wrap(dom.ErrNotFound, "outer html")
	}
	return parser.OuterHTML(n)
}

// SetInnerHTML parses markup in the context of n and replaces its children
// with the result. Nothing changes when n is not an element.
func (d *Dispatcher) SetInnerHTML(n *dom.Node, markup string) error {
	if !d.tree.Owns(n) {
		return errors.Wrap(dom.ErrNotFound, "set inner html")
	}
	if !n.IsElement() {
		return errors.Wrapf(dom.ErrInvalidTarget, "set inner html: node %d is a %s", n.ID(), n.Type())
	}
	nodes, err := parser.ParseFragment(d.tree, n, markup)
	if err != nil {
		return err
	}
	return d.tree.ReplaceChildren(n, nodes...)
}
