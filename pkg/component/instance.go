package component

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	errs "github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/hooks"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/reconcile"
	"github.com/vango-dev/livetree/pkg/scheduler"
	"github.com/vango-dev/livetree/pkg/vdom"
)

const defaultTracerName = "livetree"

// Props holds named values.
type Props map[string]any

// View is the input of a render function.
type View struct {
	// Props holds the observed properties.
	Props Props
	// State holds everything merged through SetState.
	State Props
	// Children are the nodes the host element held when it was mounted.
	Children []host.Node
	// Slots maps a child's slot attribute to the child.
	Slots map[string]host.Node
}

// Definition describes a component.
type Definition struct {
	Name string
	// Render returns the tree to reconcile onto the host element. A result
	// that is not a Host VNode becomes the host's only child. It runs with
	// the instance's hooks controller current.
	Render func(View) *vdom.VNode
	// Props lists the observed property names. Dashed names are stored
	// in camel case.
	Props []string
	// ReceiveProps is called with the next props of a mounted instance.
	// Returning false stores them without requesting a pass.
	ReceiveProps func(next Props) bool
}

// Option configures an Instance.
type Option func(*Instance)

// WithEngine sets the reconcile engine.
func WithEngine(e *reconcile.Engine) Option {
	return func(i *Instance) {
		if e != nil {
			i.engine = e
		}
	}
}

// WithRecorder reports renders and update requests to r.
func WithRecorder(r Recorder) Option {
	return func(i *Instance) {
		if r != nil {
			i.recorder = r
		}
	}
}

// WithTracer sets the tracer used for render spans.
func WithTracer(t trace.Tracer) Option {
	return func(i *Instance) {
		if t != nil {
			i.tracer = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Instance) {
		if l != nil {
			i.logger = l
		}
	}
}

// Instance is a mounted component.
type Instance struct {
	def      Definition
	el       host.Element
	queue    scheduler.Deferrer
	engine   *reconcile.Engine
	pass     reconcile.PassID
	ctrl     *hooks.Controller
	sched    *scheduler.Scheduler
	recorder Recorder
	tracer   trace.Tracer
	logger   *slog.Logger

	mu        sync.Mutex
	props     Props
	state     Props
	children  []host.Node
	slots     map[string]host.Node
	mounted   bool
	unmounted bool
	renders   int
	err       error
}

// New creates an instance of def on el. Passes run as tasks of q.
func New(def Definition, el host.Element, q scheduler.Deferrer, opts ...Option) *Instance {
	if def.Name == "" {
		def.Name = el.LocalName()
	}
	i := &Instance{
		def:      def,
		el:       el,
		queue:    q,
		engine:   reconcile.Default(),
		pass:     reconcile.NewPassID(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(defaultTracerName),
		props:    Props{},
		state:    Props{},
		slots:    map[string]host.Node{},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = slog.Default().With("component", def.Name)
	}
	i.ctrl = hooks.New(i.Update, el, hooks.WithLogger(i.logger))
	i.sched = scheduler.New(q, i.commit)
	return i
}

// Element returns the host element.
func (i *Instance) Element() host.Element { return i.el }

// Pass returns the render pass ID of the instance.
func (i *Instance) Pass() reconcile.PassID { return i.pass }

// Controller returns the hooks controller.
func (i *Instance) Controller() *hooks.Controller { return i.ctrl }

// Scheduler returns the pass scheduler.
func (i *Instance) Scheduler() *scheduler.Scheduler { return i.sched }

// Mount captures the element's current children and requests the first
// pass. Mounting an unmounted instance requests a pass with the retained
// hook state.
func (i *Instance) Mount() {
	i.mu.Lock()
	if i.mounted && !i.unmounted {
		i.mu.Unlock()
		return
	}
	first := !i.mounted
	i.mounted = true
	i.unmounted = false
	i.mu.Unlock()

	if first {
		i.captureChildren()
	}
	i.logger.Debug("mount", "pass", uint64(i.pass))
	i.Update()
}

func (i *Instance) captureChildren() {
	var children []host.Node
	for i.el.ChildCount() > 0 {
		child := i.el.ChildAt(0)
		child.Remove()
		children = append(children, child)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.children = children
	for _, child := range children {
		if el, ok := child.(host.Element); ok {
			if name, ok := el.Attribute("slot"); ok && name != "" {
				i.slots[name] = el
			}
		}
	}
}

// Unmount dispatches the Unmount phase and releases the rendered subtree.
// It runs as a task of the queue so it never interleaves with a pass.
func (i *Instance) Unmount() {
	i.mu.Lock()
	if !i.mounted || i.unmounted {
		i.mu.Unlock()
		return
	}
	i.unmounted = true
	i.mu.Unlock()

	i.queue.Defer(func() {
		i.ctrl.Unmount()
		i.engine.Release(i.el)
		i.logger.Debug("unmount", "pass", uint64(i.pass))
	})
}

// SetProps replaces the observed props. Names not listed in the
// definition are ignored.
func (i *Instance) SetProps(props Props) {
	next := Props{}
	for name, v := range props {
		if i.observes(name) {
			next[camelCase(name)] = v
		}
	}
	i.receive(next)
}

// SetProp sets one observed prop, keeping the others.
func (i *Instance) SetProp(name string, value any) {
	if !i.observes(name) {
		return
	}
	i.mu.Lock()
	next := make(Props, len(i.props)+1)
	for k, v := range i.props {
		next[k] = v
	}
	i.mu.Unlock()
	next[camelCase(name)] = value
	i.receive(next)
}

func (i *Instance) receive(next Props) {
	i.mu.Lock()
	mounted := i.mounted && !i.unmounted
	i.props = next
	i.mu.Unlock()

	if !mounted {
		return
	}
	if i.def.ReceiveProps != nil && !i.def.ReceiveProps(next) {
		return
	}
	i.Update()
}

func (i *Instance) observes(name string) bool {
	for _, p := range i.def.Props {
		if p == name {
			return true
		}
	}
	return false
}

// SetState merges delta into the state and requests a pass. A nil delta
// is ignored.
func (i *Instance) SetState(delta Props) {
	if delta == nil {
		return
	}
	i.mu.Lock()
	for k, v := range delta {
		i.state[k] = v
	}
	i.mu.Unlock()
	i.Update()
}

// Update requests a pass. Requests made before the pass runs merge into
// it. It does nothing before Mount or after Unmount.
func (i *Instance) Update() {
	i.mu.Lock()
	live := i.mounted && !i.unmounted
	i.mu.Unlock()
	if !live {
		return
	}
	scheduled := i.sched.Request()
	i.recorder.UpdateRequested(i.def.Name, scheduled)
}

// Err returns the error of the last pass.
func (i *Instance) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// Renders returns the number of committed passes.
func (i *Instance) Renders() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.renders
}

func (i *Instance) view() View {
	i.mu.Lock()
	defer i.mu.Unlock()
	v := View{
		Props:    make(Props, len(i.props)),
		State:    make(Props, len(i.state)),
		Children: append([]host.Node(nil), i.children...),
		Slots:    make(map[string]host.Node, len(i.slots)),
	}
	for k, val := range i.props {
		v.Props[k] = val
	}
	for k, val := range i.state {
		v.State[k] = val
	}
	for k, n := range i.slots {
		v.Slots[k] = n
	}
	return v
}

func (i *Instance) commit() {
	i.mu.Lock()
	if i.unmounted {
		i.mu.Unlock()
		return
	}
	i.mu.Unlock()

	_, span := i.tracer.Start(
		context.Background(),
		"livetree.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("livetree.component", i.def.Name),
			attribute.Int64("livetree.pass", int64(i.pass)),
			attribute.Int("livetree.hooks", i.ctrl.Slots()),
		),
	)
	defer span.End()

	start := time.Now()
	err := i.render(i.view())
	d := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.logger.Error("render failed", "pass", uint64(i.pass), "error", err)
	} else {
		span.SetStatus(codes.Ok, "")
		i.logger.Debug("render", "pass", uint64(i.pass), "duration", d)
	}
	i.recorder.RenderCompleted(i.def.Name, d, err)

	i.mu.Lock()
	i.err = err
	if err == nil {
		i.renders++
	}
	i.mu.Unlock()
}

func (i *Instance) render(v View) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errs.New("E003").WithDetail(i.def.Name).Wrap(e)
				return
			}
			err = errs.New("E003").WithDetailf("%s: %v", i.def.Name, r)
		}
	}()

	body := i.def.Render
	if body == nil {
		body = func(View) *vdom.VNode { return nil }
	}
	tree, err := hooks.Load(i.ctrl, body, v)
	if err != nil {
		return err
	}
	switch {
	case tree == nil:
		tree = vdom.Host()
	case !tree.IsHost():
		tree = vdom.Host(tree)
	}
	i.engine.Render(tree, i.el, i.pass)
	i.ctrl.Updated()
	return nil
}

// String describes the instance for logs.
func (i *Instance) String() string {
	return fmt.Sprintf("component.Instance{name: %s, pass: %d}", i.def.Name, i.pass)
}

// camelCase converts "my-prop" to "myProp".
func camelCase(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	parts := strings.Split(name, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
