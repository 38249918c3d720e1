package dom

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build returns a tree with <div id="a"><p id="b">text</p></div>.
func build(t *testing.T) (*Tree, *Node, *Node) {
	t.Helper()
	tr := NewTree()
	a := tr.CreateElement("div")
	require.NoError(t, tr.SetAttribute(a, "id", "a"))
	b := tr.CreateElement("p")
	require.NoError(t, tr.SetAttribute(b, "id", "b"))
	require.NoError(t, tr.AppendChild(b, tr.CreateTextNode("text")))
	require.NoError(t, tr.AppendChild(a, b))
	require.NoError(t, tr.AppendChild(tr.Document(), a))
	return tr, a, b
}

func TestRemoveKeepsDetachedNodeResolvable(t *testing.T) {
	tr, a, b := build(t)
	require.Same(t, b, tr.ByID("b"))
	assert.Equal(t, "a", tr.ByID("b").Parent().Id())

	removed, err := tr.RemoveChild(a, b)
	require.NoError(t, err)
	assert.Same(t, b, removed)
	assert.Same(t, b, tr.Lookup(b.ID()))
	assert.Equal(t, -1, a.ChildNodes().Contains(b))
	assert.Nil(t, b.Parent())
	assert.Nil(t, tr.ByID("b"), "detached nodes leave the id index")
	assert.Equal(t, "text", b.TextContent(), "subtree stays with the removed node")
}

func TestString(t *testing.T) {
	tr, _, _ := build(t)
	assert.Equal(t, "#document\n| <div id=\"a\">\n|   <p id=\"b\">\n|     \"text\"", tr.Document().String())
}

func TestInsertBeforeThenRemoveRestoresChildren(t *testing.T) {
	tests := []struct {
		name string
		ref  int
	}{
		{"first", 0},
		{"middle", 1},
		{"last", 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := NewTree()
			ul := tr.CreateElement("ul")
			for i := 0; i < 3; i++ {
				require.NoError(t, tr.AppendChild(ul, tr.CreateElement("li")))
			}
			before := ul.ChildNodes()
			n := tr.CreateElement("li")
			require.NoError(t, tr.InsertBefore(ul, n, before[tt.ref]))
			assert.Same(t, n, ul.ChildNodes()[tt.ref])
			_, err := tr.RemoveChild(ul, n)
			require.NoError(t, err)
			assert.Equal(t, before, ul.ChildNodes())
		})
	}
}

func TestAppendChildReparents(t *testing.T) {
	tr := NewTree()
	x, y := tr.CreateElement("div"), tr.CreateElement("div")
	c := tr.CreateElement("span")
	require.NoError(t, tr.AppendChild(x, c))
	require.NoError(t, tr.AppendChild(y, c))
	assert.Empty(t, x.ChildNodes())
	assert.Equal(t, NodeList{c}, y.ChildNodes())
	assert.Same(t, y, c.Parent())

	// appending the last child again keeps a single entry
	require.NoError(t, tr.AppendChild(y, c))
	assert.Len(t, y.ChildNodes(), 1)
}

func TestMutationErrors(t *testing.T) {
	tr, a, b := build(t)
	text := b.FirstChild()
	other := NewTree().CreateElement("div")
	stray := tr.CreateElement("i")

	tests := []struct {
		name string
		op   func() error
		want error
	}{
		{"append to text", func() error { return tr.AppendChild(text, stray) }, ErrInvalidTarget},
		{"append ancestor", func() error { return tr.AppendChild(b, a) }, ErrInvalidTarget},
		{"append self", func() error { return tr.AppendChild(a, a) }, ErrInvalidTarget},
		{"append document", func() error { return tr.AppendChild(a, tr.Document()) }, ErrInvalidTarget},
		{"append foreign", func() error { return tr.AppendChild(a, other) }, ErrNotFound},
		{"insert before non child", func() error { return tr.InsertBefore(a, stray, text) }, ErrNotFound},
		{"remove non child", func() error { _, err := tr.RemoveChild(a, stray); return err }, ErrNotFound},
		{"replace non child", func() error { _, err := tr.ReplaceChild(a, stray, text); return err }, ErrNotFound},
		{"attribute on text", func() error { return tr.SetAttribute(text, "id", "x") }, ErrInvalidTarget},
		{"empty attribute name", func() error { return tr.SetAttribute(a, "", "x") }, ErrInvalidToken},
		{"release connected", func() error { _, err := tr.Release(a); return err }, ErrInvalidTarget},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			before := tr.Document().String()
			err := tt.op()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, before, tr.Document().String(), "failed operation must not mutate")
		})
	}
}

func TestReplaceChild(t *testing.T) {
	tr := NewTree()
	ul := tr.CreateElement("ul")
	require.NoError(t, tr.AppendChild(tr.Document(), ul))
	var items NodeList
	for i := 0; i < 3; i++ {
		li := tr.CreateElement("li")
		items = append(items, li)
		require.NoError(t, tr.AppendChild(ul, li))
	}
	n := tr.CreateElement("li")
	require.NoError(t, tr.ClassAdd(n, "fed"))

	old, err := tr.ReplaceChild(ul, n, items[2])
	require.NoError(t, err)
	assert.Same(t, items[2], old)
	assert.Equal(t, NodeList{items[0], items[1], n}, ul.ChildNodes())
	assert.Nil(t, old.Parent())
	assert.Equal(t, NodeList{n}, tr.ByClass("fed"))

	// moving an existing sibling into the slot of another
	_, err = tr.ReplaceChild(ul, n, items[0])
	require.NoError(t, err)
	assert.Equal(t, NodeList{n, items[1]}, ul.ChildNodes())
}

func TestIndicesMatchReachableNodes(t *testing.T) {
	tr := NewTree()
	root := tr.CreateElement("main")
	require.NoError(t, tr.AppendChild(tr.Document(), root))
	var nodes NodeList
	for i := 0; i < 6; i++ {
		n := tr.CreateElement("section")
		require.NoError(t, tr.SetAttribute(n, "id", string(rune('a'+i))))
		require.NoError(t, tr.ClassAdd(n, "item"))
		nodes = append(nodes, n)
	}
	// nest a few, leave some detached, move some around
	require.NoError(t, tr.AppendChild(root, nodes[0]))
	require.NoError(t, tr.AppendChild(nodes[0], nodes[1]))
	require.NoError(t, tr.AppendChild(root, nodes[2]))
	require.NoError(t, tr.AppendChild(nodes[2], nodes[3]))
	require.NoError(t, tr.AppendChild(nodes[4], nodes[5]))
	_, err := tr.RemoveChild(root, nodes[0])
	require.NoError(t, err)
	require.NoError(t, tr.AppendChild(nodes[3], nodes[1]))
	require.NoError(t, tr.AppendChild(root, nodes[4]))

	reachable := tr.QueryAll(func(n *Node) bool { return n.TagName() == "section" })
	assert.Equal(t, reachable, tr.ByTag("section"))
	assert.Equal(t, reachable, tr.ByClass("item"))
	for _, n := range nodes {
		if tr.Connected(n) {
			assert.Same(t, n, tr.ByID(n.Id()))
		} else {
			assert.Nil(t, tr.ByID(n.Id()))
		}
	}
	assert.False(t, tr.Connected(nodes[0]))
	assert.Equal(t, []NodeID{nodes[2].ID(), nodes[3].ID(), nodes[1].ID(), nodes[4].ID(), nodes[5].ID()}, reachable.IDs())
}

func TestAttributeChangesUpdateIndices(t *testing.T) {
	tr, a, _ := build(t)
	require.NoError(t, tr.SetAttribute(a, "id", "z"))
	assert.Nil(t, tr.ByID("a"))
	assert.Same(t, a, tr.ByID("z"))

	require.NoError(t, tr.SetAttribute(a, "class", "x y"))
	assert.Equal(t, NodeList{a}, tr.ByClassNames("y x"))
	require.NoError(t, tr.RemoveAttribute(a, "class"))
	assert.Empty(t, tr.ByClass("x"))
	assert.False(t, a.HasAttribute("class"))
}

func TestTraversal(t *testing.T) {
	tr := NewTree()
	ul := tr.CreateElement("ul")
	var lis NodeList
	for i := 0; i < 3; i++ {
		require.NoError(t, tr.AppendChild(ul, tr.CreateTextNode("\n")))
		li := tr.CreateElement("li")
		lis = append(lis, li)
		require.NoError(t, tr.AppendChild(ul, li))
	}
	require.NoError(t, tr.AppendChild(ul, tr.CreateTextNode("\n")))

	assert.Len(t, ul.ChildNodes(), 7)
	assert.Equal(t, lis, ul.Children())
	assert.Equal(t, TextNode, ul.FirstChild().Type())
	assert.Equal(t, TextNode, ul.LastChild().Type())
	assert.Same(t, lis[0], ul.FirstElementChild())
	assert.Same(t, lis[2], ul.LastElementChild())

	tiger := ul.Children()[1]
	assert.Same(t, lis[2], tiger.NextElementSibling())
	assert.Same(t, lis[0], tiger.PreviousElementSibling())
	assert.Equal(t, TextNode, tiger.NextSibling().Type())
	assert.Equal(t, TextNode, tiger.PreviousSibling().Type())
	assert.Nil(t, lis[0].PreviousElementSibling())
	assert.Nil(t, lis[2].NextElementSibling())
	assert.Nil(t, ul.NextSibling())
	assert.Same(t, ul, lis[1].ParentElement())
	assert.Same(t, ul, lis[1].GetRootNode())
}

func TestCompareDocumentPosition(t *testing.T) {
	tr, a, b := build(t)
	text := b.FirstChild()
	c := tr.CreateElement("aside")
	require.NoError(t, tr.AppendChild(a, c))

	assert.Equal(t, ContainedBy|Following, a.CompareDocumentPosition(b))
	assert.Equal(t, Contain|Preceding, text.CompareDocumentPosition(a))
	assert.Equal(t, Following, text.CompareDocumentPosition(c))
	assert.Equal(t, Preceding, c.CompareDocumentPosition(b))
	assert.Equal(t, DocumentPosition(0), a.CompareDocumentPosition(a))
	assert.NotZero(t, a.CompareDocumentPosition(tr.CreateElement("x"))&Disconnected)
	assert.True(t, a.Contains(text))
	assert.False(t, b.Contains(c))
}

func TestTextContent(t *testing.T) {
	tr, a, b := build(t)
	require.NoError(t, tr.AppendChild(a, tr.CreateComment("ignored")))
	require.NoError(t, tr.AppendChild(a, tr.CreateTextNode(" more")))
	assert.Equal(t, "text more", a.TextContent())

	require.NoError(t, tr.SetTextContent(a, "Navigate to Wikipedia"))
	assert.Equal(t, "Navigate to Wikipedia", a.TextContent())
	assert.Len(t, a.ChildNodes(), 1)
	assert.Nil(t, tr.ByID("b"))
	assert.NotNil(t, tr.Lookup(b.ID()))

	require.NoError(t, tr.SetTextContent(a, ""))
	assert.False(t, a.HasChildNodes())
}

func TestRelease(t *testing.T) {
	tr, a, b := build(t)
	text := b.FirstChild()
	require.NoError(t, tr.Remove(b))
	ids, err := tr.Release(b)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{b.ID(), text.ID()}, ids)
	assert.Nil(t, tr.Lookup(b.ID()))
	assert.Nil(t, tr.Lookup(text.ID()))
	assert.True(t, errors.Is(tr.AppendChild(a, b), ErrNotFound))
}

func TestCloneNode(t *testing.T) {
	tr, a, _ := build(t)
	c, err := tr.CloneNode(a, true)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Nil(t, c.Parent())
	assert.Equal(t, a.String(), c.String())
	assert.NotSame(t, a.FirstChild(), c.FirstChild())

	shallow, err := tr.CloneNode(a, false)
	require.NoError(t, err)
	assert.False(t, shallow.HasChildNodes())
}

func TestDump(t *testing.T) {
	tr, _, _ := build(t)
	out := Dump(tr.Document())
	assert.Contains(t, out, "#document #1")
	assert.Contains(t, out, `<p id="b">`)
	assert.Contains(t, out, `"text"`)
}
