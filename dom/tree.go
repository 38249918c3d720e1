package dom

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Tree owns a document node and every node created through it. It keeps
// an identity registry of all of them, connected or detached, plus
// id/tag/class indices over the nodes reachable from the document.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	nextID   NodeID
	document *Node
	registry map[NodeID]*Node

	ids     map[string]nodeSet
	tags    map[string]nodeSet
	classes map[string]nodeSet

	log logrus.FieldLogger
}

type TreeOption func(*Tree)

// WithLogger sets the logger mutations are traced to at debug level.
func WithLogger(l logrus.FieldLogger) TreeOption {
	return func(t *Tree) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTree returns a tree holding an empty document.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		registry: map[NodeID]*Node{},
		ids:      map[string]nodeSet{},
		tags:     map[string]nodeSet{},
		classes:  map[string]nodeSet{},
		log:      logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(t)
	}
	t.document = t.newNode(DocumentNode)
	return t
}

func (t *Tree) newNode(nt NodeType) *Node {
	t.nextID++
	n := &Node{id: t.nextID, nodeType: nt, owner: t}
	t.registry[n.id] = n
	return n
}

func (t *Tree) Document() *Node { return t.document }

// Logger is the logger the tree traces to, for packages building on it.
func (t *Tree) Logger() logrus.FieldLogger { return t.log }

// DocumentElement is the first element child of the document.
func (t *Tree) DocumentElement() *Node { return t.document.FirstElementChild() }

// Body is the first connected body element.
func (t *Tree) Body() *Node {
	if l := t.ByTag("body"); len(l) > 0 {
		return l[0]
	}
	return nil
}

// Len is the number of nodes in the registry, the document included.
func (t *Tree) Len() int { return len(t.registry) }

// Lookup resolves a node by the id assigned at creation. Detached nodes stay
// resolvable until they are released.
func (t *Tree) Lookup(id NodeID) *Node {
	return t.registry[id]
}

// Owns reports whether n was created by t and has not been released.
func (t *Tree) Owns(n *Node) bool {
	return n != nil && n.owner == t
}

// Connected reports whether n is reachable from the document.
func (t *Tree) Connected(n *Node) bool {
	return t.Owns(n) && n.GetRootNode() == t.document
}

func (t *Tree) CreateElement(tag string) *Node {
	n := t.newNode(ElementNode)
	n.tagName = strings.ToLower(tag)
	n.attrs = newNamedNodeMap()
	t.trace("CreateElement", n)
	return n
}

func (t *Tree) CreateTextNode(text string) *Node {
	n := t.newNode(TextNode)
	n.data = text
	t.trace("CreateTextNode", n)
	return n
}

func (t *Tree) CreateComment(text string) *Node {
	n := t.newNode(CommentNode)
	n.data = text
	t.trace("CreateComment", n)
	return n
}

// CloneNode copies n and, when deep, its descendants. The copy is detached,
// gets fresh ids and carries no listeners.
func (t *Tree) CloneNode(n *Node, deep bool) (*Node, error) {
	if err := t.checkOwned(n); err != nil {
		return nil, err
	}
	if n.IsDocument() {
		return nil, errors.Wrap(ErrInvalidTarget, "cannot clone the document")
	}
	return t.clone(n, deep), nil
}

func (t *Tree) clone(n *Node, deep bool) *Node {
	c := t.newNode(n.nodeType)
	c.tagName = n.tagName
	c.data = n.data
	if n.attrs != nil {
		c.attrs = n.attrs.clone()
	}
	if deep {
		for _, child := range n.children {
			cc := t.clone(child, true)
			cc.parent = c
			c.children = append(c.children, cc)
		}
	}
	return c
}

// AppendChild is https://dom.spec.whatwg.org/#dom-node-appendchild. A child
// that already has a parent is moved.
func (t *Tree) AppendChild(parent, child *Node) error {
	if err := t.checkInsert(parent, child); err != nil {
		return errors.Wrap(err, "append child")
	}
	t.detach(child)
	t.attach(parent, child, len(parent.children))
	t.trace("AppendChild", child)
	return nil
}

// InsertBefore places newNode right before ref. A nil ref appends.
func (t *Tree) InsertBefore(parent, newNode, ref *Node) error {
	if ref == nil {
		return t.AppendChild(parent, newNode)
	}
	if err := t.checkInsert(parent, newNode); err != nil {
		return errors.Wrap(err, "insert before")
	}
	if err := t.checkChild(parent, ref); err != nil {
		return errors.Wrap(err, "insert before")
	}
	if newNode == ref {
		return nil
	}
	t.detach(newNode)
	t.attach(parent, newNode, parent.children.Contains(ref))
	t.trace("InsertBefore", newNode)
	return nil
}

// RemoveChild detaches child with its whole subtree and returns it.
func (t *Tree) RemoveChild(parent, child *Node) (*Node, error) {
	if err := t.checkOwned(parent); err != nil {
		return nil, errors.Wrap(err, "remove child")
	}
	if err := t.checkChild(parent, child); err != nil {
		return nil, errors.Wrap(err, "remove child")
	}
	t.detach(child)
	t.trace("RemoveChild", child)
	return child, nil
}

// ReplaceChild puts newNode where oldNode was and returns oldNode.
func (t *Tree) ReplaceChild(parent, newNode, oldNode *Node) (*Node, error) {
	if err := t.checkChild(parent, oldNode); err != nil {
		return nil, errors.Wrap(err, "replace child")
	}
	if err := t.checkInsert(parent, newNode); err != nil {
		return nil, errors.Wrap(err, "replace child")
	}
	if newNode == oldNode {
		return oldNode, nil
	}
	t.detach(newNode)
	i := parent.children.Contains(oldNode)
	t.detach(oldNode)
	t.attach(parent, newNode, i)
	t.trace("ReplaceChild", newNode)
	return oldNode, nil
}

// Remove is https://dom.spec.whatwg.org/#dom-childnode-remove. It does
// nothing for a node without a parent.
func (t *Tree) Remove(n *Node) error {
	if err := t.checkOwned(n); err != nil {
		return errors.Wrap(err, "remove")
	}
	if n.parent == nil {
		return nil
	}
	t.detach(n)
	t.trace("Remove", n)
	return nil
}

// Release drops a detached subtree from the registry so it can be garbage
// collected. The released ids are returned, in document order of the
// subtree.
func (t *Tree) Release(n *Node) ([]NodeID, error) {
	if err := t.checkOwned(n); err != nil {
		return nil, errors.Wrap(err, "release")
	}
	if n.IsDocument() || t.Connected(n) {
		return nil, errors.Wrapf(ErrInvalidTarget, "release: node %d is connected", n.id)
	}
	t.detach(n)
	var ids []NodeID
	n.Walk(func(d *Node) bool {
		ids = append(ids, d.id)
		delete(t.registry, d.id)
		d.owner = nil
		return true
	})
	t.trace("Release", n)
	return ids, nil
}

// SetTextContent replaces the children of an element with a single text
// node, or sets the data of a text or comment node. It has no effect on the
// document.
func (t *Tree) SetTextContent(n *Node, text string) error {
	if err := t.checkOwned(n); err != nil {
		return errors.Wrap(err, "set text content")
	}
	switch n.nodeType {
	case TextNode, CommentNode:
		n.data = text
	case ElementNode:
		t.RemoveChildren(n)
		if text != "" {
			t.attach(n, t.CreateTextNode(text), 0)
		}
	}
	t.trace("SetTextContent", n)
	return nil
}

// ReplaceChildren is https://dom.spec.whatwg.org/#dom-parentnode-replacechildren.
// Every node is validated before the old children are detached.
func (t *Tree) ReplaceChildren(parent *Node, nodes ...*Node) error {
	if err := t.checkOwned(parent); err != nil {
		return errors.Wrap(err, "replace children")
	}
	if parent.nodeType != ElementNode && parent.nodeType != DocumentNode {
		return errors.Wrapf(ErrInvalidTarget, "replace children: node %d is a %s", parent.id, parent.nodeType)
	}
	for _, n := range nodes {
		if err := t.checkInsert(parent, n); err != nil {
			return errors.Wrap(err, "replace children")
		}
	}
	t.RemoveChildren(parent)
	for _, n := range nodes {
		t.detach(n)
		t.attach(parent, n, len(parent.children))
	}
	t.trace("ReplaceChildren", parent)
	return nil
}

// RemoveChildren detaches every child of n.
func (t *Tree) RemoveChildren(n *Node) {
	for len(n.children) > 0 {
		t.detach(n.children[0])
	}
}

// SetData changes the character data of a text or comment node.
func (t *Tree) SetData(n *Node, data string) error {
	if err := t.checkOwned(n); err != nil {
		return errors.Wrap(err, "set data")
	}
	if n.nodeType != TextNode && n.nodeType != CommentNode {
		return errors.Wrapf(ErrInvalidTarget, "set data: node %d is a %s", n.id, n.nodeType)
	}
	n.data = data
	t.trace("SetData", n)
	return nil
}

// PropagationPath returns the ancestor chain from the node with the given id
// up to its root, the node itself first.
func (t *Tree) PropagationPath(id NodeID) ([]NodeID, error) {
	n := t.Lookup(id)
	if n == nil {
		return nil, errors.Wrapf(ErrNotFound, "node %d", id)
	}
	var path []NodeID
	for i := n; i != nil; i = i.parent {
		path = append(path, i.id)
	}
	return path, nil
}

func (t *Tree) checkOwned(n *Node) error {
	if n == nil {
		return errors.Wrap(ErrNotFound, "nil node")
	}
	if !t.Owns(n) {
		return errors.Wrapf(ErrNotFound, "node %d does not belong to this tree", n.id)
	}
	return nil
}

func (t *Tree) checkChild(parent, child *Node) error {
	if err := t.checkOwned(child); err != nil {
		return err
	}
	if child.parent != parent {
		return errors.Wrapf(ErrNotFound, "node %d is not a child of node %d", child.id, parent.id)
	}
	return nil
}

// https://dom.spec.whatwg.org/#concept-node-ensure-pre-insertion-validity
func (t *Tree) checkInsert(parent, child *Node) error {
	if err := t.checkOwned(parent); err != nil {
		return err
	}
	if err := t.checkOwned(child); err != nil {
		return err
	}
	if parent.nodeType != ElementNode && parent.nodeType != DocumentNode {
		return errors.Wrapf(ErrInvalidTarget, "node %d is a %s and cannot have children", parent.id, parent.nodeType)
	}
	if child.IsDocument() {
		return errors.Wrap(ErrInvalidTarget, "the document cannot be inserted")
	}
	if child.Contains(parent) {
		return errors.Wrapf(ErrInvalidTarget, "node %d is an inclusive ancestor of node %d", child.id, parent.id)
	}
	return nil
}

// detach unlinks n from its parent, if any, and drops its subtree from the
// connected indices.
func (t *Tree) detach(n *Node) {
	p := n.parent
	if p == nil {
		return
	}
	if t.Connected(n) {
		t.unindexSubtree(n)
	}
	p.children.Remove(p.children.Contains(n))
	n.parent = nil
}

func (t *Tree) attach(parent, n *Node, i int) {
	parent.children.WedgeIn(i, n)
	n.parent = parent
	if t.Connected(parent) {
		t.indexSubtree(n)
	}
}

func (t *Tree) trace(method string, n *Node) {
	t.log.WithField("method", method).Debugf("[TREE]: %s node %d", n.nodeType, n.id)
}
