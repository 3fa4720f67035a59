package reconcile

import (
	"reflect"

	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/vdom"
)

// diff creates or updates the node for next.
func (e *Engine) diff(rc *passCtx, current host.Node, next *vdom.VNode, svg bool) host.Node {
	var rec *Record
	if current != nil {
		rec = e.Record(rc.pass, current)
		// Same VNode as last time: the subtree is unchanged.
		if rec != nil && rec.VNode == next {
			return current
		}
	}
	if next == nil || !next.Stamped() {
		return current
	}

	svg = svg || next.Tag() == "svg"

	isNew := false
	switch {
	case next.IsHost():
	case next.IsRawHandle():
		isNew = current != next.Type.Handle()
	case next.IsText():
		isNew = current == nil || current.NodeType() != host.TextNode
	default:
		el, ok := current.(host.Element)
		isNew = !ok || el.LocalName() != next.Tag()
	}

	if isNew {
		switch {
		case next.IsRawHandle():
			current = next.Type.Handle()
		case next.IsText():
			e.observer.ObserveMutation(OpCreate)
			return rc.document().CreateTextNode(next.Text())
		case svg:
			current = rc.document().CreateElementNS(host.SVGNamespace, next.Tag())
			e.observer.ObserveMutation(OpCreate)
		default:
			current = rc.document().CreateElement(next.Tag(), next.Is)
			e.observer.ObserveMutation(OpCreate)
		}
		rec = e.Record(rc.pass, current)
	}
	if current == nil {
		return nil
	}

	if t, ok := current.(host.Text); ok {
		if next.IsText() && t.Data() != next.Text() {
			t.SetData(next.Text())
			e.observer.ObserveMutation(OpSetText)
		}
		return current
	}

	el, ok := current.(host.Element)
	if !ok {
		return current
	}

	var prevProps vdom.Props
	var prevChildren []*vdom.VNode
	if rec != nil && rec.VNode != nil {
		prevProps = rec.VNode.Props
		prevChildren = rec.VNode.Children
	}
	// A raw handle moved to a new slot keeps its registry, since prevProps
	// still describe the listeners it has attached.
	var handlers *Handlers
	if rec != nil && rec.Handlers != nil {
		handlers = rec.Handlers
	} else {
		handlers = newHandlers(el)
	}

	if next.Shadow && el.ShadowRoot() == nil {
		el.AttachShadow(host.ShadowOpen)
		e.observer.ObserveMutation(OpAttachShadow)
	}

	if !sameProps(prevProps, next.Props) {
		e.patchProperties(el, prevProps, next.Props, handlers, svg)
	}

	if !sameChildren(prevChildren, next.Children) {
		var parent host.Parent = el
		if next.Shadow {
			parent = el.ShadowRoot()
		}
		e.reconcileChildren(rc, parent, next.Children, next.Keys, svg)
	}

	e.setRecord(rc.pass, el, &Record{VNode: next, Handlers: handlers})
	return el
}

// sameProps reports whether a and b are the same map, or both empty.
func sameProps(a, b vdom.Props) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

// sameChildren reports whether a and b share their backing array and
// length, or are both empty.
func sameChildren(a, b []*vdom.VNode) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return len(a) == len(b) && &a[0] == &b[0]
}
