package memdom

import (
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/livetree/pkg/host"
)

// voidElements cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text that is written without escaping.
var rawTextElements = map[string]bool{
	"style":  true,
	"script": true,
}

// OuterHTML serializes n and its subtree. Shadow roots are written as
// declarative shadow DOM templates.
func OuterHTML(n host.Node) string {
	var b strings.Builder
	_ = WriteHTML(&b, n)
	return b.String()
}

// InnerHTML serializes the children of p.
func InnerHTML(p host.Parent) string {
	m := asMem(p)
	d := m.base().doc
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	c, ok := m.(container)
	if !ok {
		return ""
	}
	for _, child := range *c.kids() {
		writeNode(&b, child, rawTextElements[tagOf(c)])
	}
	return b.String()
}

// WriteHTML writes the serialization of n to w.
func WriteHTML(w io.Writer, n host.Node) error {
	d := asMem(n).base().doc
	d.mu.Lock()
	var b strings.Builder
	raw := false
	if p := asMem(n).base().parent; p != nil {
		raw = rawTextElements[tagOf(p)]
	}
	writeNode(&b, n, raw)
	d.mu.Unlock()

	_, err := io.WriteString(w, b.String())
	return err
}

func tagOf(c container) string {
	if el, ok := c.(*Element); ok {
		return el.tag
	}
	return ""
}

// writeNode serializes one node. Caller holds the document lock.
func writeNode(b *strings.Builder, n host.Node, raw bool) {
	switch v := n.(type) {
	case *Text:
		if raw {
			b.WriteString(v.data)
		} else {
			b.WriteString(escapeHTML(v.data))
		}
	case *ShadowRoot:
		b.WriteString(`<template shadowrootmode="`)
		b.WriteString(string(v.mode))
		b.WriteString(`">`)
		for _, c := range v.children {
			writeNode(b, c, false)
		}
		b.WriteString("</template>")
	case *Element:
		writeElement(b, v)
	}
}

func writeElement(b *strings.Builder, el *Element) {
	b.WriteByte('<')
	b.WriteString(el.tag)
	for _, a := range el.attrs {
		if a.name == "style" && len(el.style.order) > 0 {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.name)
		if a.value != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.value))
			b.WriteByte('"')
		}
	}
	if len(el.style.order) > 0 {
		b.WriteString(` style="`)
		b.WriteString(escapeAttr(el.style.cssTextLocked()))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidElements[el.tag] && el.ns == "" {
		return
	}
	if el.shadow != nil {
		writeNode(b, el.shadow, false)
	}
	raw := rawTextElements[el.tag]
	for _, c := range el.children {
		writeNode(b, c, raw)
	}
	b.WriteString("</")
	b.WriteString(el.tag)
	b.WriteByte('>')
}

// escapeHTML escapes text for inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for inclusion in a double-quoted attribute value.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// NodeSnapshot is a JSON-friendly copy of a subtree.
type NodeSnapshot struct {
	ID        uint64            `json:"id"`
	Type      string            `json:"type"`
	Tag       string            `json:"tag,omitempty"`
	Namespace string            `json:"namespace,omitempty"`
	Text      string            `json:"text,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Props     map[string]string `json:"props,omitempty"`
	Style     string            `json:"style,omitempty"`
	Listeners []string          `json:"listeners,omitempty"`
	Shadow    *NodeSnapshot     `json:"shadow,omitempty"`
	Children  []*NodeSnapshot   `json:"children,omitempty"`
}

// Snapshot copies the subtree rooted at n.
func Snapshot(n host.Node) *NodeSnapshot {
	d := asMem(n).base().doc
	d.mu.Lock()
	defer d.mu.Unlock()
	return snapshotLocked(n)
}

func snapshotLocked(n host.Node) *NodeSnapshot {
	switch v := n.(type) {
	case *Text:
		return &NodeSnapshot{ID: v.id, Type: "text", Text: v.data}
	case *ShadowRoot:
		s := &NodeSnapshot{ID: v.id, Type: "shadow", Text: string(v.mode)}
		for _, c := range v.children {
			s.Children = append(s.Children, snapshotLocked(c))
		}
		return s
	case *Element:
		s := &NodeSnapshot{ID: v.id, Type: "element", Tag: v.tag, Namespace: v.ns}
		if len(v.attrs) > 0 {
			s.Attrs = make(map[string]string, len(v.attrs))
			for _, a := range v.attrs {
				s.Attrs[a.name] = a.value
			}
		}
		if len(v.props) > 0 {
			s.Props = make(map[string]string, len(v.props))
			for k, p := range v.props {
				s.Props[k] = stringify(p)
			}
		}
		s.Style = v.style.cssTextLocked()
		for t := range v.listeners {
			s.Listeners = append(s.Listeners, t)
		}
		sort.Strings(s.Listeners)
		if v.shadow != nil {
			s.Shadow = snapshotLocked(v.shadow)
		}
		for _, c := range v.children {
			s.Children = append(s.Children, snapshotLocked(c))
		}
		return s
	}
	return nil
}
