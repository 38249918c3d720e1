package dom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/sirupsen/logrus"
)

// StyleDeclaration is an element's inline style, kept in declaration order.
// Property names are the hyphenated CSS names, e.g. background-color.
//
// https://drafts.csswg.org/cssom/#the-cssstyledeclaration-interface
type StyleDeclaration struct {
	props  []string
	values map[string]string
}

// ParseStyle reads a style attribute value. Declarations the CSS parser
// cannot read are dropped one by one, as a browser would; the others are
// kept.
func ParseStyle(cssText string) *StyleDeclaration {
	return parseStyle(cssText, logrus.StandardLogger())
}

func parseStyle(cssText string, log logrus.FieldLogger) *StyleDeclaration {
	s := &StyleDeclaration{values: map[string]string{}}
	for _, chunk := range splitDeclarations(cssText) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		decls, err := parser.ParseDeclarations(chunk + ";")
		if err != nil || len(decls) == 0 {
			log.WithField("method", "ParseStyle").Debugf("[STYLE]: dropping %q: %v", chunk, err)
			continue
		}
		for _, d := range decls {
			value := d.Value
			if d.Important {
				value += " !important"
			}
			s.SetProperty(d.Property, value)
		}
	}
	return s
}

// splitDeclarations cuts a declaration block on the semicolons that are not
// inside a string or a function such as url(). Empty pieces are kept, so
// more than one piece means the text held a top-level semicolon.
func splitDeclarations(cssText string) []string {
	var (
		parts []string
		quote rune
		depth int
		start int
	)
	escaped := false
	for i, r := range cssText {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case r == ';' && depth == 0:
			parts = append(parts, cssText[start:i])
			start = i + 1
		}
	}
	return append(parts, cssText[start:])
}

func (s *StyleDeclaration) Length() int { return len(s.props) }

// Properties returns the property names in declaration order.
func (s *StyleDeclaration) Properties() []string {
	return append([]string(nil), s.props...)
}

func (s *StyleDeclaration) GetPropertyValue(prop string) string {
	return s.values[strings.ToLower(prop)]
}

// SetProperty overwrites in place or appends. An empty value removes the
// property.
func (s *StyleDeclaration) SetProperty(prop, value string) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	value = strings.TrimSpace(value)
	if prop == "" {
		return
	}
	if value == "" {
		s.RemoveProperty(prop)
		return
	}
	if _, ok := s.values[prop]; !ok {
		s.props = append(s.props, prop)
	}
	s.values[prop] = value
}

func (s *StyleDeclaration) RemoveProperty(prop string) string {
	prop = strings.ToLower(prop)
	old, ok := s.values[prop]
	if !ok {
		return ""
	}
	delete(s.values, prop)
	for i, p := range s.props {
		if p == prop {
			s.props = append(s.props[:i], s.props[i+1:]...)
			break
		}
	}
	return old
}

// CSSText serializes as "prop: value; prop: value;".
func (s *StyleDeclaration) CSSText() string {
	parts := make([]string, len(s.props))
	for i, p := range s.props {
		parts[i] = p + ": " + s.values[p] + ";"
	}
	return strings.Join(parts, " ")
}
