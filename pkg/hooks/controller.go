package hooks

import (
	"fmt"
	"log/slog"
	"reflect"

	errs "github.com/vango-dev/livetree/internal/errors"
)

// ErrHookOrder is returned by Load when hooks were called in a different
// order or number than on the first load. Match it with errors.Is.
var ErrHookOrder = errs.New("E002")

// SlotFunc receives a slot's state and the phase being dispatched and
// returns the new state.
type SlotFunc[S any] func(state S, phase Phase) S

type slot struct {
	typ      reflect.Type
	state    any
	dispatch func(Phase)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller holds the hook slots of one instance.
type Controller struct {
	render func()
	host   *Ref[any]
	logger *slog.Logger

	slots     []*slot
	cursor    int
	phase     Phase
	rendering bool
	loaded    bool
	mounted   bool
	prev      *Controller
}

// New creates a controller. render is returned by UseRender and called by
// state setters to request a new pass. host is returned by UseHost.
func New(render func(), host any, opts ...Option) *Controller {
	if render == nil {
		render = func() {}
	}
	c := &Controller{
		render: render,
		host:   &Ref[any]{Current: host},
		logger: slog.Default().With("component", "hooks"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slots returns the number of allocated slots.
func (c *Controller) Slots() int { return len(c.slots) }

// Mounted reports whether Updated has run at least once.
func (c *Controller) Mounted() bool { return c.mounted }

// Load runs body with c as the current controller. On the first load every
// accessed slot receives Mount, afterwards Update. It returns body's
// result, or ErrHookOrder when the hooks called differ from the first
// load. Other panics propagate.
func Load[A, R any](c *Controller, body func(A) R, arg A) (result R, err error) {
	c.begin()
	completed := false
	defer func() {
		c.end(completed)
		if r := recover(); r != nil {
			e, ok := r.(*errs.Error)
			if !ok || !e.Is(ErrHookOrder) {
				panic(r)
			}
			c.logger.Error("hook order changed", "detail", e.Detail)
			err = e
		}
	}()

	result = body(arg)
	completed = true
	if c.loaded && c.cursor < len(c.slots) {
		return result, errs.New("E002").WithDetailf("expected %d hooks, got %d", len(c.slots), c.cursor)
	}
	return result, nil
}

// Updated dispatches Mounted on the first call and Updated afterwards to
// every slot in order.
func (c *Controller) Updated() {
	p := Updated
	if !c.mounted {
		p = Mounted
		c.mounted = true
	}
	c.dispatch(p)
}

// Unmount dispatches Unmount to every slot in order. Slots are kept, so a
// later Load resumes with Update.
func (c *Controller) Unmount() {
	c.dispatch(Unmount)
}

func (c *Controller) dispatch(p Phase) {
	slots := append([]*slot(nil), c.slots...)
	for _, s := range slots {
		if s.dispatch != nil {
			s.dispatch(p)
		}
	}
}

func (c *Controller) begin() {
	c.prev = setCurrent(c)
	c.cursor = 0
	c.rendering = true
	c.phase = Update
	if !c.loaded {
		c.phase = Mount
		c.slots = nil
	}
}

// end leaves the render. A body that panicked does not count as a load,
// so the next Load still allocates slots.
func (c *Controller) end(completed bool) {
	c.rendering = false
	if completed {
		c.loaded = true
	}
	setCurrent(c.prev)
	c.prev = nil
}

// mustCurrent returns the controller rendering on this goroutine or panics
// with E001.
func mustCurrent(hook string) *Controller {
	c := current()
	if c == nil || !c.rendering {
		panic(errs.New("E001").WithDetailf("%s called outside a render body", hook))
	}
	return c
}

// UseHook claims the next slot. On first access the slot holds initial.
// Each phase dispatched to the slot, including the current Mount or
// Update, calls fn with the stored state and stores the result. With a nil
// fn the stored state is returned as is.
func UseHook[S any](fn SlotFunc[S], initial S) S {
	return useSlot(mustCurrent("UseHook"), fn, initial)
}

func useSlot[S any](c *Controller, fn SlotFunc[S], initial S) S {
	idx := c.cursor
	c.cursor++
	typ := reflect.TypeOf((*S)(nil)).Elem()

	var s *slot
	if idx < len(c.slots) {
		s = c.slots[idx]
		if s.typ != typ {
			panic(errs.New("E002").WithDetailf("hook %d changed from %s to %s", idx, s.typ, typ))
		}
	} else {
		if c.loaded {
			panic(errs.New("E002").WithDetailf("extra hook %s at index %d", typ, idx))
		}
		s = &slot{typ: typ, state: initial}
		c.slots = append(c.slots, s)
	}

	if fn == nil {
		s.dispatch = nil
		return as[S](s.state)
	}
	s.dispatch = func(p Phase) {
		s.state = fn(as[S](s.state), p)
	}
	s.dispatch(c.phase)
	return as[S](s.state)
}

func as[S any](v any) S {
	if v == nil {
		var zero S
		return zero
	}
	return v.(S)
}

// String describes the controller for logs.
func (c *Controller) String() string {
	return fmt.Sprintf("hooks.Controller{slots: %d, mounted: %v}", len(c.slots), c.mounted)
}
