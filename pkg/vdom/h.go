package vdom

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vango-dev/livetree/pkg/host"
)

// H creates a VNode.
//
// typ is a tag name, a live host.Node (raw handle) or nil for a text node
// made of the children's text. Children are flattened recursively from
// []any, []*VNode and []string. nil (including nil Stringer pointers), bool,
// function and unrecognized values are dropped; strings, numbers and
// fmt.Stringer values become text nodes.
// When no children are passed, props["children"] supplies them.
//
// Children of a style element are reduced to a single text node holding
// their concatenated text.
func H(typ any, props Props, children ...any) *VNode {
	v := &VNode{Props: props, stamp: factoryStamp}

	switch t := typ.(type) {
	case nil:
		f := flattener{sanitize: true}
		f.addAll(children)
		v.Type = TextValue(f.text.String())
		return v
	case string:
		v.Type = HostTag(t)
	case host.Node:
		v.Type = RawHandle(t)
	case Type:
		v.Type = t
	default:
		panic(fmt.Sprintf("vdom: unsupported node type %T", typ))
	}

	if props != nil {
		v.Key = NormalizeKey(props["key"])
		v.Shadow, _ = props["shadowDom"].(bool)
		v.Is, _ = props["is"].(string)
		if len(children) == 0 {
			if c, ok := props["children"]; ok {
				children = []any{c}
			}
		}
	}

	f := flattener{sanitize: v.Type.kind == KindTag && v.Type.tag == "style"}
	f.addAll(children)
	if f.sanitize {
		if f.text.Len() > 0 {
			v.Children = []*VNode{Text(f.text.String())}
		}
	} else {
		v.Children = f.children
		v.Keys = f.keys
	}
	return v
}

// Text creates a text node.
func Text(value string) *VNode {
	return &VNode{Type: TextValue(value), stamp: factoryStamp}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates a VNode that renders to the given live node.
func Raw(n host.Node, props Props, children ...any) *VNode {
	return H(n, props, children...)
}

type flattener struct {
	sanitize bool
	children []*VNode
	keys     KeyIndex
	text     strings.Builder
}

func (f *flattener) addAll(list []any) {
	for _, c := range list {
		f.add(c)
	}
}

func (f *flattener) add(c any) {
	switch v := c.(type) {
	case nil, bool:
	case *VNode:
		if v == nil {
			return
		}
		if f.sanitize {
			if v.IsText() {
				f.text.WriteString(v.Text())
			}
			return
		}
		if v.Key != nil {
			if f.keys == nil {
				f.keys = make(KeyIndex)
			}
			f.keys[v.Key] = struct{}{}
		}
		f.children = append(f.children, v)
	case []*VNode:
		for _, n := range v {
			f.add(n)
		}
	case []any:
		f.addAll(v)
	case []string:
		for _, s := range v {
			f.addText(s)
		}
	case string:
		f.addText(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f.addText(fmt.Sprint(v))
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return
		}
		f.addText(v.String())
	}
}

func (f *flattener) addText(s string) {
	if f.sanitize {
		f.text.WriteString(s)
		return
	}
	f.children = append(f.children, Text(s))
}
