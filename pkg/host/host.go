// Package host defines the retained host tree the reconciler mutates.
//
// The interfaces mirror the subset of a document object model the engine
// relies on: element and text creation (with an optional namespace and a
// custom-element upgrade hint), shadow roots, attributes, properties,
// event listeners, inline style, and the insert/replace/append/remove
// child operations. The engine never assumes any other capability, so any
// retained tree that implements these interfaces can be reconciled.
//
// package memdom provides a complete in-memory implementation.
package host

// NodeType identifies the concrete kind of a host node.
type NodeType uint8

const (
	ElementNode  NodeType = 1
	TextNode     NodeType = 3
	FragmentNode NodeType = 11 // shadow roots
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// SVGNamespace is the namespace used for elements created inside <svg>.
const SVGNamespace = "http://www.w3.org/2000/svg"

// ShadowMode is the encapsulation mode of a shadow root.
type ShadowMode string

const (
	ShadowOpen   ShadowMode = "open"
	ShadowClosed ShadowMode = "closed"
)

// Node is any node of the host tree.
type Node interface {
	NodeType() NodeType
	OwnerDocument() Document
	// ParentNode returns the parent, or nil when detached.
	ParentNode() Parent
	// Remove detaches the node from its parent. No-op when detached.
	Remove()
}

// Parent is a node that holds an ordered list of children: elements and
// shadow roots.
type Parent interface {
	Node
	ChildCount() int
	// ChildAt returns the child at index i, or nil when out of range.
	ChildAt(i int) Node
	// InsertBefore inserts child before ref. A nil ref appends. A child that
	// is already attached anywhere is moved.
	InsertBefore(child, ref Node)
	ReplaceChild(newChild, oldChild Node)
	AppendChild(child Node)
}

// Text is a text node.
type Text interface {
	Node
	Data() string
	SetData(data string)
}

// Element is an element node.
type Element interface {
	Parent

	LocalName() string
	NamespaceURI() string

	// ShadowRoot returns the attached shadow root, or nil.
	ShadowRoot() Parent
	AttachShadow(mode ShadowMode) Parent

	// HasProperty reports whether name is a settable property of the
	// element, either native or previously assigned.
	HasProperty(name string) bool
	Property(name string) any
	SetProperty(name string, value any)

	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)

	AddEventListener(eventType string, listener EventListener)
	RemoveEventListener(eventType string, listener EventListener)

	Style() Style
}

// Style is the inline style declaration of an element.
type Style interface {
	// SetProperty sets a declaration by its CSS name (e.g. "--gap",
	// "background-color").
	SetProperty(name, value, priority string)
	RemoveProperty(name string)
	// Set assigns a declaration by its script name (e.g. "backgroundColor").
	// An empty value removes it.
	Set(name, value string)
	CSSText() string
	SetCSSText(text string)
}

// Document creates nodes.
type Document interface {
	// CreateElement creates an element. A non-empty is requests a
	// customized built-in element.
	CreateElement(tag, is string) Element
	CreateElementNS(namespace, tag string) Element
	CreateTextNode(data string) Text
}

// Event is dispatched to event listeners.
type Event struct {
	Type          string
	Target        Node
	CurrentTarget Node
	Detail        any

	stopped bool
}

// StopPropagation stops the event from bubbling further.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// EventListener receives events. Implementations are compared by identity
// when removed.
type EventListener interface {
	HandleEvent(e *Event)
}

// ListenerFunc adapts a function to EventListener. Function values are not
// comparable, so a ListenerFunc can only be removed through the pointer it
// was registered with.
type ListenerFunc func(e *Event)

// HandleEvent implements EventListener.
func (f *ListenerFunc) HandleEvent(e *Event) {
	(*f)(e)
}
