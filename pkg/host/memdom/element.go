package memdom

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/livetree/pkg/host"
)

type attr struct {
	name  string
	value string
}

// Element is an element node.
type Element struct {
	nodeBase

	tag      string
	ns       string
	children []host.Node

	attrs     []attr
	props     map[string]any
	listeners map[string][]host.EventListener
	style     *Style
	shadow    *ShadowRoot
}

var _ host.Element = (*Element)(nil)

func (e *Element) kids() *[]host.Node { return &e.children }

// NodeType implements host.Node.
func (e *Element) NodeType() host.NodeType { return host.ElementNode }

// ParentNode implements host.Node.
func (e *Element) ParentNode() host.Parent { return e.parentNode() }

// Remove implements host.Node.
func (e *Element) Remove() { remove(e) }

// LocalName implements host.Element.
func (e *Element) LocalName() string { return e.tag }

// NamespaceURI implements host.Element.
func (e *Element) NamespaceURI() string { return e.ns }

// ChildCount implements host.Parent.
func (e *Element) ChildCount() int { return childCount(e) }

// ChildAt implements host.Parent.
func (e *Element) ChildAt(i int) host.Node { return childAt(e, i) }

// InsertBefore implements host.Parent.
func (e *Element) InsertBefore(child, ref host.Node) { insertBefore(e, child, ref) }

// ReplaceChild implements host.Parent.
func (e *Element) ReplaceChild(newChild, oldChild host.Node) {
	replaceChild(e, newChild, oldChild)
}

// AppendChild implements host.Parent.
func (e *Element) AppendChild(child host.Node) { insertBefore(e, child, nil) }

// ShadowRoot implements host.Element.
func (e *Element) ShadowRoot() host.Parent {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.shadow == nil {
		return nil
	}
	return e.shadow
}

// AttachShadow implements host.Element. Attaching twice returns the
// existing root.
func (e *Element) AttachShadow(mode host.ShadowMode) host.Parent {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if e.shadow != nil {
		return e.shadow
	}
	s := &ShadowRoot{host: e, mode: mode}
	s.init(e.doc)
	e.shadow = s
	e.doc.record(Mutation{Kind: MutAttachShadow, Target: e.id, Node: describe(e), Value: string(mode)})
	return s
}

// ============================================================================
// Properties
// ============================================================================

type propKind uint8

const (
	propNone    propKind = iota
	propReflect          // string property mirrored to an attribute
	propFlag             // boolean property mirrored to attribute presence
	propState            // live state not mirrored to attributes
)

// reflectedAttr maps reflected property names to attribute names.
var reflectedAttr = map[string]string{
	"id":          "id",
	"className":   "class",
	"title":       "title",
	"lang":        "lang",
	"dir":         "dir",
	"slot":        "slot",
	"tabIndex":    "tabindex",
	"name":        "name",
	"placeholder": "placeholder",
	"type":        "type",
	"href":        "href",
	"src":         "src",
	"alt":         "alt",
	"width":       "width",
	"height":      "height",
	"htmlFor":     "for",
	"label":       "label",
	"hidden":      "hidden",
	"disabled":    "disabled",
	"readOnly":    "readonly",
	"required":    "required",
	"multiple":    "multiple",
	"autofocus":   "autofocus",
}

var globalProps = map[string]propKind{
	"id":        propReflect,
	"className": propReflect,
	"title":     propReflect,
	"lang":      propReflect,
	"dir":       propReflect,
	"slot":      propReflect,
	"tabIndex":  propReflect,
	"hidden":    propFlag,
}

var tagProps = map[string]map[string]propKind{
	"input": {
		"value": propState, "checked": propState, "type": propReflect, "name": propReflect,
		"placeholder": propReflect, "disabled": propFlag, "readOnly": propFlag,
		"required": propFlag, "multiple": propFlag, "autofocus": propFlag,
		"width": propReflect, "height": propReflect, "src": propReflect,
	},
	"textarea": {
		"value": propState, "name": propReflect, "placeholder": propReflect,
		"disabled": propFlag, "readOnly": propFlag, "required": propFlag,
	},
	"select": {
		"value": propState, "name": propReflect, "disabled": propFlag,
		"multiple": propFlag, "required": propFlag,
	},
	"option": {
		"selected": propState, "value": propReflect, "disabled": propFlag, "label": propReflect,
	},
	"button": {
		"type": propReflect, "name": propReflect, "value": propReflect, "disabled": propFlag,
	},
	"a":     {"href": propReflect},
	"img":   {"src": propReflect, "alt": propReflect, "width": propReflect, "height": propReflect},
	"label": {"htmlFor": propReflect},
	"form":  {"name": propReflect},
}

func (e *Element) nativeKind(name string) propKind {
	if e.ns == host.SVGNamespace {
		if name == "id" {
			return propReflect
		}
		return propNone
	}
	if k, ok := tagProps[e.tag][name]; ok {
		return k
	}
	return globalProps[name]
}

// HasProperty implements host.Element.
func (e *Element) HasProperty(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.nativeKind(name) != propNone {
		return true
	}
	_, ok := e.props[name]
	return ok
}

// Property implements host.Element.
func (e *Element) Property(name string) any {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.propertyLocked(name)
}

func (e *Element) propertyLocked(name string) any {
	switch e.nativeKind(name) {
	case propReflect:
		v, _ := e.attrLocked(reflectedAttr[name])
		return v
	case propFlag:
		_, ok := e.attrLocked(reflectedAttr[name])
		return ok
	case propState:
		if v, ok := e.props[name]; ok {
			return v
		}
		if name == "value" {
			return ""
		}
		return false
	}
	return e.props[name]
}

// SetProperty implements host.Element.
func (e *Element) SetProperty(name string, value any) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	switch e.nativeKind(name) {
	case propReflect:
		e.setAttrLocked(reflectedAttr[name], stringify(value))
	case propFlag:
		if truthy(value) {
			e.setAttrLocked(reflectedAttr[name], "")
		} else {
			e.removeAttrLocked(reflectedAttr[name])
		}
	case propState:
		if name == "value" {
			value = stringify(value)
		} else {
			value = truthy(value)
		}
		e.setPropLocked(name, value)
	default:
		e.setPropLocked(name, value)
	}
	e.doc.record(Mutation{Kind: MutSetProperty, Target: e.id, Node: describe(e), Name: name, Value: stringify(value)})
}

func (e *Element) setPropLocked(name string, value any) {
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[name] = value
}

// Input simulates a user editing a form control: the live value changes
// and an input event is dispatched.
func (e *Element) Input(value string) {
	e.SetProperty("value", value)
	e.doc.Dispatch(e, "input", value)
}

// ============================================================================
// Attributes
// ============================================================================

// Attribute implements host.Element.
func (e *Element) Attribute(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.attrLocked(name)
}

func (e *Element) attrLocked(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// SetAttribute implements host.Element.
func (e *Element) SetAttribute(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.setAttrLocked(name, value)
	e.doc.record(Mutation{Kind: MutSetAttribute, Target: e.id, Node: describe(e), Name: name, Value: value})
}

func (e *Element) setAttrLocked(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attr{name: name, value: value})
}

// RemoveAttribute implements host.Element.
func (e *Element) RemoveAttribute(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.removeAttrLocked(name) {
		e.doc.record(Mutation{Kind: MutRemoveAttribute, Target: e.id, Node: describe(e), Name: name})
	}
}

func (e *Element) removeAttrLocked(name string) bool {
	for i, a := range e.attrs {
		if a.name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Attributes returns the attributes in insertion order as name/value pairs.
func (e *Element) Attributes() [][2]string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	out := make([][2]string, len(e.attrs))
	for i, a := range e.attrs {
		out[i] = [2]string{a.name, a.value}
	}
	return out
}

// ============================================================================
// Events
// ============================================================================

// AddEventListener implements host.Element. Adding the same listener twice
// for one type has no effect.
func (e *Element) AddEventListener(eventType string, listener host.EventListener) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for _, l := range e.listeners[eventType] {
		if l == listener {
			return
		}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]host.EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
	e.doc.record(Mutation{Kind: MutAddListener, Target: e.id, Node: describe(e), Name: eventType})
}

// RemoveEventListener implements host.Element.
func (e *Element) RemoveEventListener(eventType string, listener host.EventListener) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	ls := e.listeners[eventType]
	for i, l := range ls {
		if l == listener {
			e.listeners[eventType] = append(ls[:i], ls[i+1:]...)
			if len(e.listeners[eventType]) == 0 {
				delete(e.listeners, eventType)
			}
			e.doc.record(Mutation{Kind: MutRemoveListener, Target: e.id, Node: describe(e), Name: eventType})
			return
		}
	}
}

// ListenerCount returns the number of native listeners for eventType.
func (e *Element) ListenerCount(eventType string) int {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return len(e.listeners[eventType])
}

// Click dispatches a click event at the element.
func (e *Element) Click() *host.Event {
	return e.doc.Dispatch(e, "click", nil)
}

// Style implements host.Element.
func (e *Element) Style() host.Style { return e.style }

// stringify converts a property or attribute value to text.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		if isFunc(v) {
			return "function"
		}
		return fmt.Sprintf("%v", v)
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
