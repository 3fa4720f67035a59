package memdom

import (
	"reflect"
	"strings"

	"github.com/vango-dev/livetree/pkg/host"
)

type decl struct {
	value    string
	priority string
}

// Style is the inline style of an element. Declarations keep their
// insertion order.
type Style struct {
	el    *Element
	order []string
	decls map[string]decl
}

var _ host.Style = (*Style)(nil)

// SetProperty implements host.Style.
func (s *Style) SetProperty(name, value, priority string) {
	d := s.el.doc
	d.mu.Lock()
	defer d.mu.Unlock()

	if value == "" {
		s.removeLocked(name)
		return
	}
	s.setLocked(name, value, priority)
	d.record(Mutation{Kind: MutSetStyle, Target: s.el.id, Node: describe(s.el), Name: name, Value: value})
}

// RemoveProperty implements host.Style.
func (s *Style) RemoveProperty(name string) {
	d := s.el.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	s.removeLocked(name)
}

// Set implements host.Style.
func (s *Style) Set(name, value string) {
	s.SetProperty(CSSName(name), value, "")
}

// Get returns the value of a declaration by CSS name.
func (s *Style) Get(name string) string {
	d := s.el.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	return s.decls[name].value
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	d := s.el.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(s.order)
}

// CSSText implements host.Style.
func (s *Style) CSSText() string {
	d := s.el.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	return s.cssTextLocked()
}

func (s *Style) cssTextLocked() string {
	var b strings.Builder
	for i, name := range s.order {
		if i > 0 {
			b.WriteByte(' ')
		}
		dc := s.decls[name]
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(dc.value)
		if dc.priority != "" {
			b.WriteString(" !")
			b.WriteString(dc.priority)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// SetCSSText implements host.Style. The previous declarations are replaced.
func (s *Style) SetCSSText(text string) {
	d := s.el.doc
	d.mu.Lock()
	defer d.mu.Unlock()

	s.order = nil
	s.decls = make(map[string]decl)
	for _, part := range strings.Split(text, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		priority := ""
		if i := strings.LastIndex(value, "!"); i >= 0 {
			priority = strings.TrimSpace(value[i+1:])
			value = strings.TrimSpace(value[:i])
		}
		s.setLocked(name, value, priority)
	}
	d.record(Mutation{Kind: MutSetStyle, Target: s.el.id, Node: describe(s.el), Value: s.cssTextLocked()})
}

func (s *Style) setLocked(name, value, priority string) {
	if _, ok := s.decls[name]; !ok {
		s.order = append(s.order, name)
	}
	s.decls[name] = decl{value: value, priority: priority}
}

func (s *Style) removeLocked(name string) {
	if _, ok := s.decls[name]; !ok {
		return
	}
	delete(s.decls, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.el.doc.record(Mutation{Kind: MutSetStyle, Target: s.el.id, Node: describe(s.el), Name: name})
}

// CSSName converts a script style name such as "backgroundColor" to its
// CSS form "background-color". Custom properties and names that already
// contain a dash are returned unchanged.
func CSSName(name string) string {
	if strings.HasPrefix(name, "--") || strings.ContainsRune(name, '-') {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}
