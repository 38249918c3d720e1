package dom

import "sort"

// https://dom.spec.whatwg.org/#nodelist
type NodeList []*Node

// Contains returns the index of n in the list, or -1.
func (h NodeList) Contains(n *Node) int {
	for i := range h {
		if n == h[i] {
			return i
		}
	}
	return -1
}

func (h *NodeList) Remove(i int) *Node {
	if i < 0 || i >= len(*h) {
		return nil
	}
	node := (*h)[i]
	*h = append((*h)[:i], (*h)[i+1:]...)
	return node
}

// WedgeIn inserts n at index i, shifting the rest right. An index past the
// end appends.
func (h *NodeList) WedgeIn(i int, n *Node) {
	if i < 0 {
		return
	}
	if i >= len(*h) {
		*h = append(*h, n)
		return
	}
	*h = append((*h)[:i+1], (*h)[i:]...)
	(*h)[i] = n
}

func (h NodeList) IDs() []NodeID {
	ids := make([]NodeID, len(h))
	for i, n := range h {
		ids[i] = n.id
	}
	return ids
}

func (h NodeList) sortDocumentOrder() {
	sort.SliceStable(h, func(i, j int) bool {
		return h[i].CompareDocumentPosition(h[j])&Following != 0
	})
}

// nodeSet is an unordered index bucket.
type nodeSet map[*Node]struct{}

func (s nodeSet) list() NodeList {
	l := make(NodeList, 0, len(s))
	for n := range s {
		l = append(l, n)
	}
	l.sortDocumentOrder()
	return l
}
