package memdom

import (
	"strconv"
	"sync"

	"github.com/vango-dev/livetree/pkg/host"
)

// MutationKind is the type of a recorded host mutation.
type MutationKind string

const (
	MutCreateElement   MutationKind = "create-element"
	MutCreateText      MutationKind = "create-text"
	MutInsert          MutationKind = "insert"
	MutMove            MutationKind = "move"
	MutReplace         MutationKind = "replace"
	MutRemove          MutationKind = "remove"
	MutSetText         MutationKind = "set-text"
	MutSetAttribute    MutationKind = "set-attribute"
	MutRemoveAttribute MutationKind = "remove-attribute"
	MutSetProperty     MutationKind = "set-property"
	MutSetStyle        MutationKind = "set-style"
	MutAddListener     MutationKind = "add-listener"
	MutRemoveListener  MutationKind = "remove-listener"
	MutAttachShadow    MutationKind = "attach-shadow"
)

// Mutation is one recorded host operation.
type Mutation struct {
	Seq     uint64       `json:"seq"`
	Kind    MutationKind `json:"kind"`
	Target  uint64       `json:"target"`
	Node    string       `json:"node"`
	Name    string       `json:"name,omitempty"`
	Value   string       `json:"value,omitempty"`
	Related uint64       `json:"related,omitempty"`
}

// Document owns every node it creates and the mutation log.
type Document struct {
	mu sync.Mutex

	nextID  uint64
	nextSeq uint64

	mutations []Mutation
	observers map[uint64]func(Mutation)
	nextObs   uint64
}

var _ host.Document = (*Document)(nil)

// New creates an empty document.
func New() *Document {
	return &Document{
		observers: make(map[uint64]func(Mutation)),
	}
}

// CreateElement implements host.Document.
func (d *Document) CreateElement(tag, is string) host.Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := d.newElement(tag, "")
	if is != "" {
		el.attrs = append(el.attrs, attr{name: "is", value: is})
	}
	d.record(Mutation{Kind: MutCreateElement, Target: el.id, Node: describe(el), Value: is})
	return el
}

// CreateElementNS implements host.Document.
func (d *Document) CreateElementNS(namespace, tag string) host.Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := d.newElement(tag, namespace)
	d.record(Mutation{Kind: MutCreateElement, Target: el.id, Node: describe(el), Name: namespace})
	return el
}

// CreateTextNode implements host.Document.
func (d *Document) CreateTextNode(data string) host.Text {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := &Text{data: data}
	t.init(d)
	d.record(Mutation{Kind: MutCreateText, Target: t.id, Node: describe(t), Value: data})
	return t
}

func (d *Document) newElement(tag, namespace string) *Element {
	el := &Element{
		tag: tag,
		ns:  namespace,
	}
	el.init(d)
	el.style = &Style{el: el, decls: make(map[string]decl)}
	return el
}

func (d *Document) allocID() uint64 {
	d.nextID++
	return d.nextID
}

// record appends a mutation and notifies observers. Caller holds d.mu.
func (d *Document) record(m Mutation) {
	d.nextSeq++
	m.Seq = d.nextSeq
	d.mutations = append(d.mutations, m)
	for _, fn := range d.observers {
		fn(m)
	}
}

// Mutations returns a copy of the mutation log.
func (d *Document) Mutations() []Mutation {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Mutation, len(d.mutations))
	copy(out, d.mutations)
	return out
}

// ResetMutations clears the mutation log.
func (d *Document) ResetMutations() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutations = nil
}

// Count returns how many logged mutations have one of the given kinds.
// With no kinds it returns the log length.
func (d *Document) Count(kinds ...MutationKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(kinds) == 0 {
		return len(d.mutations)
	}
	n := 0
	for _, m := range d.mutations {
		for _, k := range kinds {
			if m.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Observe registers fn to receive every future mutation. fn runs with the
// document locked and must not call back into it. The returned function
// unregisters it.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextObs++
	id := d.nextObs
	d.observers[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.observers, id)
	}
}

// Dispatch fires an event of the given type at target and bubbles it
// through its ancestors. Shadow roots forward to their host element.
// Listeners run without the document lock held.
func (d *Document) Dispatch(target host.Node, eventType string, detail any) *host.Event {
	type step struct {
		node      host.Node
		listeners []host.EventListener
	}

	d.mu.Lock()
	var path []step
	for n := target; n != nil; {
		switch v := n.(type) {
		case *Element:
			ls := v.listeners[eventType]
			path = append(path, step{node: v, listeners: append([]host.EventListener(nil), ls...)})
			if v.parent != nil {
				n = v.parent
			} else {
				n = nil
			}
		case *ShadowRoot:
			n = v.host
		case *Text:
			if v.parent != nil {
				n = v.parent
			} else {
				n = nil
			}
		default:
			n = nil
		}
	}
	d.mu.Unlock()

	ev := &host.Event{Type: eventType, Target: target, Detail: detail}
	for _, s := range path {
		ev.CurrentTarget = s.node
		for _, l := range s.listeners {
			l.HandleEvent(ev)
		}
		if ev.Stopped() {
			break
		}
	}
	return ev
}

func describe(n host.Node) string {
	switch v := n.(type) {
	case *Element:
		return v.tag + "#" + strconv.FormatUint(v.id, 10)
	case *Text:
		return "#text#" + strconv.FormatUint(v.id, 10)
	case *ShadowRoot:
		return "#shadow-root#" + strconv.FormatUint(v.id, 10)
	default:
		return "?"
	}
}
