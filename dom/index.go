package dom

func addTo(idx map[string]nodeSet, key string, n *Node) {
	s, ok := idx[key]
	if !ok {
		s = nodeSet{}
		idx[key] = s
	}
	s[n] = struct{}{}
}

func removeFrom(idx map[string]nodeSet, key string, n *Node) {
	s, ok := idx[key]
	if !ok {
		return
	}
	delete(s, n)
	if len(s) == 0 {
		delete(idx, key)
	}
}

func (t *Tree) indexSubtree(root *Node) {
	root.Walk(func(n *Node) bool {
		if n.IsElement() {
			t.indexElement(n)
		}
		return true
	})
}

func (t *Tree) unindexSubtree(root *Node) {
	root.Walk(func(n *Node) bool {
		if n.IsElement() {
			t.unindexElement(n)
		}
		return true
	})
}

func (t *Tree) indexElement(n *Node) {
	addTo(t.tags, n.tagName, n)
	if id := n.Id(); id != "" {
		addTo(t.ids, id, n)
	}
	for _, tok := range n.ClassList() {
		addTo(t.classes, tok, n)
	}
}

func (t *Tree) unindexElement(n *Node) {
	removeFrom(t.tags, n.tagName, n)
	if id := n.Id(); id != "" {
		removeFrom(t.ids, id, n)
	}
	for _, tok := range n.ClassList() {
		removeFrom(t.classes, tok, n)
	}
}

// https://dom.spec.whatwg.org/#concept-element-attributes-change-ext
func (t *Tree) attributeChanged(n *Node, name, oldValue, newValue string) {
	if !t.Connected(n) {
		return
	}
	switch name {
	case "id":
		if oldValue != "" {
			removeFrom(t.ids, oldValue, n)
		}
		if newValue != "" {
			addTo(t.ids, newValue, n)
		}
	case "class":
		for _, tok := range ParseTokenList(oldValue) {
			removeFrom(t.classes, tok, n)
		}
		for _, tok := range ParseTokenList(newValue) {
			addTo(t.classes, tok, n)
		}
	}
}
