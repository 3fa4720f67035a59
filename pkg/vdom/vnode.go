package vdom

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/livetree/pkg/host"
)

// TypeKind is the VNode type discriminator.
type TypeKind uint8

const (
	KindTag       TypeKind = iota // element by tag name
	KindRawHandle                 // live host node used as-is
	KindText                      // text node
)

// String returns the string representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case KindTag:
		return "Tag"
	case KindRawHandle:
		return "RawHandle"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// HostTagName is the tag that refers to the node being rendered into. It
// is never created or replaced.
const HostTagName = "host"

// Type is the variant describing what a VNode renders to.
type Type struct {
	kind   TypeKind
	tag    string
	handle host.Node
	text   string
}

// HostTag returns an element type.
func HostTag(name string) Type { return Type{kind: KindTag, tag: name} }

// RawHandle returns a type that renders to the given live node.
func RawHandle(n host.Node) Type { return Type{kind: KindRawHandle, handle: n} }

// TextValue returns a text type.
func TextValue(value string) Type { return Type{kind: KindText, text: value} }

// Kind returns the variant.
func (t Type) Kind() TypeKind { return t.kind }

// Tag returns the tag name of a KindTag type.
func (t Type) Tag() string { return t.tag }

// Handle returns the live node of a KindRawHandle type.
func (t Type) Handle() host.Node { return t.handle }

// Value returns the text of a KindText type.
func (t Type) Value() string { return t.text }

// String returns a short description of the type.
func (t Type) String() string {
	switch t.kind {
	case KindTag:
		return "<" + t.tag + ">"
	case KindRawHandle:
		return fmt.Sprintf("raw(%T)", t.handle)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// Props holds attributes, properties, event handlers and the reserved keys
// key, ref, style, shadowDom, is and children.
type Props map[string]any

// KeyIndex is the set of keys declared by a node's children.
type KeyIndex map[any]struct{}

// Has reports whether key is declared.
func (k KeyIndex) Has(key any) bool {
	_, ok := k[key]
	return ok
}

type stamp struct{}

// factoryStamp marks VNodes built by this package.
var factoryStamp = &stamp{}

// VNode describes one host node.
type VNode struct {
	Type     Type
	Props    Props
	Children []*VNode
	// Keys is nil unless at least one child has a key.
	Keys KeyIndex
	// Key is the child identity, nil when none.
	Key any
	// Shadow requests an open shadow root for the children.
	Shadow bool
	// Is is the customized built-in element name.
	Is string

	stamp *stamp
}

// Stamped reports whether v was built by this package.
func (v *VNode) Stamped() bool {
	return v != nil && v.stamp == factoryStamp
}

// IsRawHandle reports whether v renders to a live host node.
func (v *VNode) IsRawHandle() bool {
	return v != nil && v.Type.kind == KindRawHandle
}

// IsText reports whether v is a text node.
func (v *VNode) IsText() bool {
	return v != nil && v.Type.kind == KindText
}

// IsHost reports whether v is the passthrough for the render target.
func (v *VNode) IsHost() bool {
	return v != nil && v.Type.kind == KindTag && v.Type.tag == HostTagName
}

// Tag returns the tag name, or "" for text and raw handles.
func (v *VNode) Tag() string {
	if v == nil || v.Type.kind != KindTag {
		return ""
	}
	return v.Type.tag
}

// Text returns the text value of a text VNode.
func (v *VNode) Text() string {
	if v == nil {
		return ""
	}
	return v.Type.text
}

// String returns a short description for logs and test output.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Key != nil {
		return fmt.Sprintf("%s key=%v", v.Type, v.Key)
	}
	return v.Type.String()
}

// NormalizeKey makes key usable as a map key. Uncomparable keys are
// replaced by their formatted text.
func NormalizeKey(key any) any {
	if key == nil {
		return nil
	}
	if !reflect.ValueOf(key).Comparable() {
		return fmt.Sprintf("%v", key)
	}
	return key
}
