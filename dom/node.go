package dom

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type NodeType uint16

// Values follow https://dom.spec.whatwg.org/#dom-node-nodetype
const (
	ElementNode  NodeType = 1
	TextNode     NodeType = 3
	CommentNode  NodeType = 8
	DocumentNode NodeType = 9
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DocumentNode:
		return "document"
	}
	return fmt.Sprintf("NodeType(%d)", uint16(t))
}

type DocumentPosition uint16

// https://dom.spec.whatwg.org/#dom-node-comparedocumentposition
const (
	Disconnected           DocumentPosition = 0x01
	Preceding              DocumentPosition = 0x02
	Following              DocumentPosition = 0x04
	Contain                DocumentPosition = 0x08
	ContainedBy            DocumentPosition = 0x10
	ImplementationSpecific DocumentPosition = 0x20
)

// NodeID identifies a node within the Tree that created it. Zero is never
// assigned.
type NodeID uint64

// Node is a single entry of a Tree. Nodes are created through the Tree
// and only mutated through it, so the tree's indices always agree with the
// node links.
//
// https://dom.spec.whatwg.org/#node
type Node struct {
	id       NodeID
	nodeType NodeType
	tagName  string
	attrs    *NamedNodeMap
	data     string

	owner    *Tree
	parent   *Node
	children NodeList
}

func (n *Node) ID() NodeID       { return n.id }
func (n *Node) Type() NodeType   { return n.nodeType }
func (n *Node) IsElement() bool  { return n.nodeType == ElementNode }
func (n *Node) IsDocument() bool { return n.nodeType == DocumentNode }

// TagName is the lower-cased tag of an element, or "" for other nodes.
func (n *Node) TagName() string { return n.tagName }

// NodeName is https://dom.spec.whatwg.org/#dom-node-nodename
func (n *Node) NodeName() string {
	switch n.nodeType {
	case ElementNode:
		return strings.ToUpper(n.tagName)
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	case DocumentNode:
		return "#document"
	}
	return ""
}

// Data is the character data of a text or comment node.
func (n *Node) Data() string { return n.data }

// Attributes returns the element's attribute map, or nil for non-elements.
func (n *Node) Attributes() *NamedNodeMap { return n.attrs }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) ParentElement() *Node {
	if n.parent != nil && n.parent.IsElement() {
		return n.parent
	}
	return nil
}

// ChildNodes returns a copy of the children, text and comment nodes included.
func (n *Node) ChildNodes() NodeList {
	return append(NodeList(nil), n.children...)
}

// Children returns the element children only.
func (n *Node) Children() NodeList {
	var elems NodeList
	for _, c := range n.children {
		if c.IsElement() {
			elems = append(elems, c)
		}
	}
	return elems
}

func (n *Node) HasChildNodes() bool {
	return len(n.children) > 0
}

func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

func (n *Node) FirstElementChild() *Node {
	for _, c := range n.children {
		if c.IsElement() {
			return c
		}
	}
	return nil
}

func (n *Node) LastElementChild() *Node {
	for i := len(n.children) - 1; i >= 0; i-- {
		if n.children[i].IsElement() {
			return n.children[i]
		}
	}
	return nil
}

func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.children.Contains(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.children.Contains(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

func (n *Node) PreviousElementSibling() *Node {
	for s := n.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

func (n *Node) NextElementSibling() *Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

// GetRootNode returns the topmost ancestor, which is the document for
// connected nodes and the subtree root for detached ones.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

func (n *Node) IsSameNode(on *Node) bool { return n == on }

// Contains reports whether on is an inclusive descendant of n.
func (n *Node) Contains(on *Node) bool {
	for i := on; i != nil; i = i.parent {
		if i == n {
			return true
		}
	}
	return false
}

// ancestors returns n and its ancestors, top first.
func (n *Node) ancestors() NodeList {
	var chain NodeList
	for i := n; i != nil; i = i.parent {
		chain = append(chain, i)
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}

// CompareDocumentPosition is https://dom.spec.whatwg.org/#dom-node-comparedocumentposition
// without attribute nodes.
func (n *Node) CompareDocumentPosition(on *Node) DocumentPosition {
	if n == on {
		return 0
	}
	a, b := n.ancestors(), on.ancestors()
	if a[0] != b[0] {
		// stable but arbitrary ordering between disconnected subtrees
		if on.id < n.id {
			return Disconnected | ImplementationSpecific | Preceding
		}
		return Disconnected | ImplementationSpecific | Following
	}
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	switch {
	case i == len(b):
		return Contain | Preceding
	case i == len(a):
		return ContainedBy | Following
	}
	common := a[i-1]
	if common.children.Contains(b[i]) < common.children.Contains(a[i]) {
		return Preceding
	}
	return Following
}

// Walk visits n and its descendants in document order until fn returns
// false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// TextContent is https://dom.spec.whatwg.org/#dom-node-textcontent
func (n *Node) TextContent() string {
	switch n.nodeType {
	case TextNode, CommentNode:
		return n.data
	case DocumentNode:
		return ""
	}
	var b strings.Builder
	n.Walk(func(d *Node) bool {
		if d.nodeType == TextNode {
			b.WriteString(d.data)
		}
		return true
	})
	return b.String()
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	if n.attrs == nil {
		return "", false
	}
	a := n.attrs.GetNamedItem(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// Id is the element's id attribute.
func (n *Node) Id() string {
	v, _ := n.GetAttribute("id")
	return v
}

// ClassName is the raw class attribute.
func (n *Node) ClassName() string {
	v, _ := n.GetAttribute("class")
	return v
}

func (n *Node) ClassList() DOMTokenList {
	return ParseTokenList(n.ClassName())
}

// Style returns the inline style declarations of an element.
func (n *Node) Style() *StyleDeclaration {
	v, _ := n.GetAttribute("style")
	return parseStyle(v, n.logger())
}

func (n *Node) logger() logrus.FieldLogger {
	if n.owner != nil {
		return n.owner.log
	}
	return logrus.StandardLogger()
}

func serializeNode(node *Node) string {
	switch node.nodeType {
	case ElementNode:
		e := "<" + node.tagName
		for _, a := range node.attrs.Items() {
			e += " " + string(a.Name) + "=\"" + a.Value + "\""
		}
		return e + ">"
	case TextNode:
		return "\"" + node.data + "\""
	case CommentNode:
		return "<!-- " + node.data + " -->"
	case DocumentNode:
		return "#document"
	}
	return ""
}

func (node *Node) serialize(ident int) string {
	ser := serializeNode(node) + "\n"
	if node.nodeType != DocumentNode {
		ser = "| " + strings.Repeat("  ", ident) + ser
	}
	next := ident
	if node.nodeType != DocumentNode {
		next++
	}
	for _, child := range node.children {
		ser += child.serialize(next)
	}
	return ser
}

// String renders the subtree in the html5lib tree-construction test layout.
func (node *Node) String() string {
	return strings.TrimRight(node.serialize(0), "\n")
}
