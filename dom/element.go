package dom

import (
	"strings"

	"github.com/pkg/errors"
)

func (t *Tree) checkElement(n *Node) error {
	if err := t.checkOwned(n); err != nil {
		return err
	}
	if !n.IsElement() {
		return errors.Wrapf(ErrInvalidTarget, "node %d is a %s, not an element", n.id, n.nodeType)
	}
	return nil
}

// SetAttribute is https://dom.spec.whatwg.org/#dom-element-setattribute
func (t *Tree) SetAttribute(n *Node, name, value string) error {
	if err := t.checkElement(n); err != nil {
		return errors.Wrap(err, "set attribute")
	}
	name = strings.ToLower(name)
	if name == "" || strings.ContainsAny(name, " \t\n\f\r/>") {
		return errors.Wrapf(ErrInvalidToken, "set attribute: bad name %q", name)
	}
	old, _ := n.GetAttribute(name)
	n.attrs.setNamedItem(name, value)
	t.attributeChanged(n, name, old, value)
	t.log.WithField("method", "SetAttribute").Debugf("[TREE]: node %d %s=%q", n.id, name, value)
	return nil
}

// RemoveAttribute does nothing when the attribute is absent.
func (t *Tree) RemoveAttribute(n *Node, name string) error {
	if err := t.checkElement(n); err != nil {
		return errors.Wrap(err, "remove attribute")
	}
	name = strings.ToLower(name)
	a := n.attrs.removeNamedItem(name)
	if a == nil {
		return nil
	}
	t.attributeChanged(n, name, a.Value, "")
	t.log.WithField("method", "RemoveAttribute").Debugf("[TREE]: node %d %s", n.id, name)
	return nil
}

// ToggleAttribute is https://dom.spec.whatwg.org/#dom-element-toggleattribute.
// It returns whether the attribute is present afterwards.
func (t *Tree) ToggleAttribute(n *Node, name string, force ...bool) (bool, error) {
	if err := t.checkElement(n); err != nil {
		return false, errors.Wrap(err, "toggle attribute")
	}
	present := n.HasAttribute(name)
	want := !present
	if len(force) > 0 {
		want = force[0]
	}
	if want == present {
		return present, nil
	}
	if want {
		if err := t.SetAttribute(n, name, ""); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, t.RemoveAttribute(n, name)
}

func (t *Tree) setClassList(n *Node, l DOMTokenList) error {
	if len(l) == 0 && !n.HasAttribute("class") {
		return nil
	}
	return t.SetAttribute(n, "class", l.String())
}

func validateTokens(tokens []string) error {
	for _, tok := range tokens {
		if err := validateToken(tok); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) ClassAdd(n *Node, tokens ...string) error {
	if err := t.checkElement(n); err != nil {
		return errors.Wrap(err, "class add")
	}
	if err := validateTokens(tokens); err != nil {
		return errors.Wrap(err, "class add")
	}
	return t.setClassList(n, n.ClassList().Add(tokens...))
}

func (t *Tree) ClassRemove(n *Node, tokens ...string) error {
	if err := t.checkElement(n); err != nil {
		return errors.Wrap(err, "class remove")
	}
	if err := validateTokens(tokens); err != nil {
		return errors.Wrap(err, "class remove")
	}
	return t.setClassList(n, n.ClassList().Remove(tokens...))
}

// ClassToggle returns whether token is in the class list afterwards.
func (t *Tree) ClassToggle(n *Node, token string) (bool, error) {
	if err := t.checkElement(n); err != nil {
		return false, errors.Wrap(err, "class toggle")
	}
	if err := validateToken(token); err != nil {
		return false, errors.Wrap(err, "class toggle")
	}
	l, member := n.ClassList().Toggle(token)
	return member, t.setClassList(n, l)
}

// ClassReplace reports false, changing nothing, when token is absent.
func (t *Tree) ClassReplace(n *Node, token, newToken string) (bool, error) {
	if err := t.checkElement(n); err != nil {
		return false, errors.Wrap(err, "class replace")
	}
	if err := validateTokens([]string{token, newToken}); err != nil {
		return false, errors.Wrap(err, "class replace")
	}
	l, ok := n.ClassList().Replace(token, newToken)
	if !ok {
		return false, nil
	}
	return true, t.setClassList(n, l)
}

func (t *Tree) ClassContains(n *Node, token string) (bool, error) {
	if err := t.checkElement(n); err != nil {
		return false, errors.Wrap(err, "class contains")
	}
	return n.ClassList().Contains(token), nil
}

// SetStyle sets one inline style property. An empty value removes it. A
// value holding a top-level semicolon is rejected, so one call can never
// add more than one declaration.
func (t *Tree) SetStyle(n *Node, prop, value string) error {
	if err := t.checkElement(n); err != nil {
		return errors.Wrap(err, "set style")
	}
	if p := strings.TrimSpace(prop); p == "" || strings.ContainsAny(p, ":;"+asciiWhitespace) {
		return errors.Wrapf(ErrInvalidToken, "set style: bad property %q", prop)
	}
	if len(splitDeclarations(value)) > 1 {
		return errors.Wrapf(ErrInvalidToken, "set style: %s value %q holds more than one declaration", prop, value)
	}
	s := n.Style()
	s.SetProperty(prop, value)
	return t.writeStyle(n, s)
}

func (t *Tree) RemoveStyle(n *Node, prop string) error {
	if err := t.checkElement(n); err != nil {
		return errors.Wrap(err, "remove style")
	}
	s := n.Style()
	if s.RemoveProperty(prop) == "" {
		return nil
	}
	return t.writeStyle(n, s)
}

func (t *Tree) writeStyle(n *Node, s *StyleDeclaration) error {
	if s.Length() == 0 {
		return t.RemoveAttribute(n, "style")
	}
	return t.SetAttribute(n, "style", s.CSSText())
}
