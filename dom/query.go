package dom

import "strings"

// ByID is getElementById: the first connected element, in document order,
// whose id attribute equals id.
func (t *Tree) ByID(id string) *Node {
	s, ok := t.ids[id]
	if !ok {
		return nil
	}
	return s.list()[0]
}

// ByTag returns the connected elements with the given tag. "*" matches all
// elements.
func (t *Tree) ByTag(tag string) NodeList {
	if tag == "*" {
		return t.QueryAll(func(n *Node) bool { return n.IsElement() })
	}
	s, ok := t.tags[strings.ToLower(tag)]
	if !ok {
		return nil
	}
	return s.list()
}

// ByClass returns the connected elements whose class list holds token.
func (t *Tree) ByClass(token string) NodeList {
	s, ok := t.classes[token]
	if !ok {
		return nil
	}
	return s.list()
}

// ByClassNames is getElementsByClassName: elements carrying every one of the
// whitespace-separated class names.
func (t *Tree) ByClassNames(classNames string) NodeList {
	want := ParseTokenList(classNames)
	if len(want) == 0 {
		return nil
	}
	var out NodeList
	for _, n := range t.ByClass(want[0]) {
		cl := n.ClassList()
		all := true
		for _, tok := range want[1:] {
			if !cl.Contains(tok) {
				all = false
				break
			}
		}
		if all {
			out = append(out, n)
		}
	}
	return out
}

// QueryFirst returns the first connected node, document excluded, for which
// pred holds.
func (t *Tree) QueryFirst(pred func(*Node) bool) *Node {
	var found *Node
	t.document.Walk(func(n *Node) bool {
		if n != t.document && pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// QueryAll returns every connected node, document excluded, for which pred
// holds, in document order.
func (t *Tree) QueryAll(pred func(*Node) bool) NodeList {
	var out NodeList
	t.document.Walk(func(n *Node) bool {
		if n != t.document && pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
