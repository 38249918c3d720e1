package dom

import (
	"strings"

	"github.com/heathj/domsim/webidl"
)

// Attr is https://dom.spec.whatwg.org/#attr
type Attr struct {
	Name  webidl.DOMString
	Value string
}

// NamedNodeMap keeps an element's attributes in insertion order.
//
// https://dom.spec.whatwg.org/#namednodemap
type NamedNodeMap struct {
	attrs []*Attr
}

func newNamedNodeMap() *NamedNodeMap {
	return &NamedNodeMap{}
}

func (m *NamedNodeMap) Length() int { return len(m.attrs) }

func (m *NamedNodeMap) Item(i int) *Attr {
	if i < 0 || i >= len(m.attrs) {
		return nil
	}
	return m.attrs[i]
}

// Items returns a copy of the attributes in insertion order.
func (m *NamedNodeMap) Items() []Attr {
	if m == nil {
		return nil
	}
	items := make([]Attr, len(m.attrs))
	for i, a := range m.attrs {
		items[i] = *a
	}
	return items
}

// GetNamedItem matches names case-insensitively, as for HTML documents.
func (m *NamedNodeMap) GetNamedItem(qn string) *Attr {
	i := m.index(qn)
	if i < 0 {
		return nil
	}
	return m.attrs[i]
}

func (m *NamedNodeMap) index(qn string) int {
	name := webidl.DOMString(strings.ToLower(qn))
	for i, a := range m.attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// setNamedItem replaces the value in place or appends a new attribute.
func (m *NamedNodeMap) setNamedItem(qn, value string) {
	if i := m.index(qn); i >= 0 {
		m.attrs[i].Value = value
		return
	}
	m.attrs = append(m.attrs, &Attr{Name: webidl.DOMString(strings.ToLower(qn)), Value: value})
}

func (m *NamedNodeMap) removeNamedItem(qn string) *Attr {
	i := m.index(qn)
	if i < 0 {
		return nil
	}
	a := m.attrs[i]
	m.attrs = append(m.attrs[:i], m.attrs[i+1:]...)
	return a
}

func (m *NamedNodeMap) clone() *NamedNodeMap {
	c := &NamedNodeMap{attrs: make([]*Attr, len(m.attrs))}
	for i, a := range m.attrs {
		cp := *a
		c.attrs[i] = &cp
	}
	return c
}
