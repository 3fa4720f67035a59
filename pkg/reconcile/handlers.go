package reconcile

import (
	"sort"
	"sync"

	"github.com/vango-dev/livetree/pkg/host"
)

// Handlers is the per-node event registry. It is the single native
// listener attached to the node for every event type it handles, so
// swapping a handler only updates the registry entry.
type Handlers struct {
	node host.Element

	mu  sync.Mutex
	fns map[string]any
}

var _ host.EventListener = (*Handlers)(nil)

func newHandlers(node host.Element) *Handlers {
	return &Handlers{node: node, fns: make(map[string]any)}
}

// HandleEvent implements host.EventListener. Handlers may be
// func(*host.Event), func() or a host.EventListener.
func (h *Handlers) HandleEvent(ev *host.Event) {
	h.mu.Lock()
	fn := h.fns[ev.Type]
	h.mu.Unlock()

	switch f := fn.(type) {
	case func(*host.Event):
		f(ev)
	case func():
		f()
	case host.EventListener:
		f.HandleEvent(ev)
	}
}

// Types returns the registered event types in order.
func (h *Handlers) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.fns))
	for t := range h.fns {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// set registers fn for eventType, or unregisters it when fn is empty. It
// reports whether the native listener was added or removed.
func (h *Handlers) set(eventType string, fn any) (added, removed bool) {
	h.mu.Lock()
	_, had := h.fns[eventType]
	if isEmptyHandler(fn) {
		delete(h.fns, eventType)
	} else {
		h.fns[eventType] = fn
	}
	h.mu.Unlock()

	switch {
	case !had && !isEmptyHandler(fn):
		h.node.AddEventListener(eventType, h)
		return true, false
	case had && isEmptyHandler(fn):
		h.node.RemoveEventListener(eventType, h)
		return false, true
	}
	return false, false
}

// detach removes the native listener for every type and returns how many
// were removed.
func (h *Handlers) detach() int {
	types := h.Types()
	h.mu.Lock()
	h.fns = make(map[string]any)
	h.mu.Unlock()
	for _, t := range types {
		h.node.RemoveEventListener(t, h)
	}
	return len(types)
}

// eventType returns the event type of an on* property: the name after
// "on-" or "on".
func eventType(key string) string {
	if len(key) > 2 && key[2] == '-' {
		return key[3:]
	}
	return key[2:]
}

func isEventKey(key string) bool {
	return len(key) > 2 && key[0] == 'o' && key[1] == 'n'
}

func isEmptyHandler(fn any) bool {
	if fn == nil {
		return true
	}
	return isFunc(fn) && isNilFunc(fn)
}
