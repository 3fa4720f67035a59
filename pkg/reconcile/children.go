package reconcile

import (
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/vdom"
)

// reconcileChildren makes the children of parent match children.
//
// With a key index, live children whose key is not declared are removed
// and the rest are matched by key and moved into place. Children without a
// key are skipped in a keyed list. Without an index, children are matched
// by position and the surplus is removed from the tail.
func (e *Engine) reconcileChildren(rc *passCtx, parent host.Parent, children []*vdom.VNode, keys vdom.KeyIndex, svg bool) {
	var resolved map[any]host.Node
	if keys != nil {
		resolved = make(map[any]host.Node, len(keys))
		for i := 0; i < parent.ChildCount(); {
			child := parent.ChildAt(i)
			if k := e.KeyOf(child); k != nil && keys.Has(k) {
				resolved[k] = child
				i++
				continue
			}
			e.removeChild(child)
		}
	} else {
		for n := parent.ChildCount(); n > len(children); n-- {
			e.removeChild(parent.ChildAt(n - 1))
		}
	}

	for i, child := range children {
		occupant := parent.ChildAt(i)

		var node host.Node
		if keys != nil {
			if child.Key == nil {
				continue
			}
			node = resolved[child.Key]
			if node != nil && node != occupant {
				parent.InsertBefore(node, occupant)
				e.observer.ObserveMutation(OpMove)
			}
		} else {
			node = occupant
		}

		next := e.diff(rc, node, child, svg)
		switch {
		case next == nil:
		case node == nil:
			parent.InsertBefore(next, parent.ChildAt(i))
			e.observer.ObserveMutation(OpInsert)
		case next != node:
			parent.ReplaceChild(next, node)
			e.observer.ObserveMutation(OpReplace)
			e.Release(node)
		}
	}
}

func (e *Engine) removeChild(child host.Node) {
	child.Remove()
	e.observer.ObserveMutation(OpRemove)
	e.Release(child)
}
