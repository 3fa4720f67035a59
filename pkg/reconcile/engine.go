package reconcile

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/vdom"
)

// PassID identifies an independent render root.
type PassID uint64

// DefaultPass is the pass used by the package-level Render.
const DefaultPass PassID = 0

var passCounter atomic.Uint64

// NewPassID returns a process-unique pass ID.
func NewPassID() PassID {
	return PassID(passCounter.Add(1))
}

// Record is what the engine remembers about a node for one pass.
type Record struct {
	// VNode is the last VNode reconciled onto the node.
	VNode *vdom.VNode
	// Handlers is the node's event registry.
	Handlers *Handlers
}

// Option configures an Engine.
type Option func(*Engine)

// WithDocument sets the document used when no existing node can supply
// one.
func WithDocument(doc host.Document) Option {
	return func(e *Engine) { e.doc = doc }
}

// WithObserver reports passes and host operations to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine reconciles VNodes onto host nodes.
type Engine struct {
	doc      host.Document
	observer Observer
	logger   *slog.Logger

	mu      sync.Mutex
	records map[host.Node]map[PassID]*Record
	keys    map[host.Node]any
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		observer: nopObserver{},
		logger:   slog.Default().With("component", "reconcile"),
		records:  make(map[host.Node]map[PassID]*Record),
		keys:     make(map[host.Node]any),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Default returns the engine used by the package-level Render.
func Default() *Engine { return defaultEngine }

// Render reconciles vnode onto target with the default engine. The pass
// defaults to DefaultPass.
func Render(vnode *vdom.VNode, target host.Node, pass ...PassID) host.Node {
	p := DefaultPass
	if len(pass) > 0 {
		p = pass[0]
	}
	return defaultEngine.Render(vnode, target, p)
}

// Render reconciles vnode onto target under pass and returns the resulting
// node. Rendering a Host VNode patches target itself; any other element
// VNode whose tag differs from target yields a new detached node.
func (e *Engine) Render(vnode *vdom.VNode, target host.Node, pass PassID) host.Node {
	start := time.Now()
	out := e.Reconcile(pass, target, vnode, false)
	d := time.Since(start)
	e.observer.ObservePass(pass, d)
	e.logger.Debug("render pass", "pass", uint64(pass), "root", vnode.String(), "duration", d)
	return out
}

// Reconcile creates or updates the node for next. current may be nil, in
// which case a node is created. The returned node may differ from
// current; placing it is the caller's job.
func (e *Engine) Reconcile(pass PassID, current host.Node, next *vdom.VNode, svg bool) host.Node {
	rc := &passCtx{pass: pass, doc: e.doc}
	if current != nil {
		if d := current.OwnerDocument(); d != nil {
			rc.doc = d
		}
	}
	return e.diff(rc, current, next, svg)
}

// Record returns the render record of node for pass, or nil.
func (e *Engine) Record(pass PassID, node host.Node) *Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.records[node][pass]
}

// KeyOf returns the key the engine assigned to node, or nil.
func (e *Engine) KeyOf(node host.Node) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.keys[node]
}

// Release drops every record and key of node and its descendants and
// detaches the engine's event listeners from them.
func (e *Engine) Release(node host.Node) {
	var nodes []host.Node
	collect(node, &nodes)

	var handlers []*Handlers
	e.mu.Lock()
	for _, n := range nodes {
		for _, rec := range e.records[n] {
			if rec.Handlers != nil {
				handlers = append(handlers, rec.Handlers)
			}
		}
		delete(e.records, n)
		delete(e.keys, n)
	}
	e.mu.Unlock()

	for _, h := range handlers {
		for n := h.detach(); n > 0; n-- {
			e.observer.ObserveMutation(OpRemoveListener)
		}
	}
}

func collect(n host.Node, out *[]host.Node) {
	if n == nil {
		return
	}
	*out = append(*out, n)
	if el, ok := n.(host.Element); ok {
		if root := el.ShadowRoot(); root != nil {
			for i := 0; i < root.ChildCount(); i++ {
				collect(root.ChildAt(i), out)
			}
		}
	}
	if p, ok := n.(host.Parent); ok {
		for i := 0; i < p.ChildCount(); i++ {
			collect(p.ChildAt(i), out)
		}
	}
}

func (e *Engine) setRecord(pass PassID, node host.Node, rec *Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.records[node]
	if m == nil {
		m = make(map[PassID]*Record)
		e.records[node] = m
	}
	m[pass] = rec
}

func (e *Engine) setKey(node host.Node, key any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if key == nil {
		delete(e.keys, node)
		return
	}
	e.keys[node] = key
}

// passCtx carries per-call state through one reconciliation.
type passCtx struct {
	pass PassID
	doc  host.Document
}

func (rc *passCtx) document() host.Document {
	if rc.doc == nil {
		panic("reconcile: no document to create nodes with")
	}
	return rc.doc
}
