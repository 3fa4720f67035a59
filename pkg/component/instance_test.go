package component

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	errs "github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/hooks"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/host/memdom"
	"github.com/vango-dev/livetree/pkg/reconcile"
	"github.com/vango-dev/livetree/pkg/scheduler"
	"github.com/vango-dev/livetree/pkg/vdom"
)

type fakeRecorder struct {
	mu        sync.Mutex
	renders   []error
	scheduled []bool
}

func (r *fakeRecorder) RenderCompleted(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, err)
}

func (r *fakeRecorder) UpdateRequested(_ string, scheduled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, scheduled)
}

type recordingSpan struct {
	noop.Span
	status codes.Code
	err    error
}

func (s *recordingSpan) SetStatus(c codes.Code, _ string)               { s.status = c }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.err = err }

type recordingTracer struct {
	noop.Tracer
	names []string
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	s := &recordingSpan{}
	t.names = append(t.names, name)
	t.spans = append(t.spans, s)
	return ctx, s
}

func setup(def Definition, opts ...Option) (*memdom.Document, host.Element, *scheduler.Queue, *Instance) {
	doc := memdom.New()
	el := doc.CreateElement("x-test", "")
	q := scheduler.NewQueue()
	opts = append([]Option{WithEngine(reconcile.NewEngine())}, opts...)
	return doc, el, q, New(def, el, q, opts...)
}

func TestMountDefersFirstRender(t *testing.T) {
	_, el, q, inst := setup(Definition{
		Render: func(View) *vdom.VNode { return vdom.P("hello") },
	})

	inst.Mount()
	if el.ChildCount() != 0 {
		t.Fatalf("ChildCount() = %d before drain, want 0", el.ChildCount())
	}
	q.Drain()

	if got, want := memdom.InnerHTML(el), "<p>hello</p>"; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
	if inst.Renders() != 1 {
		t.Errorf("Renders() = %d, want 1", inst.Renders())
	}
	if inst.Controller().Mounted() != true {
		t.Error("controller should be mounted after the first pass")
	}
}

func TestUpdateBeforeMountIgnored(t *testing.T) {
	_, _, q, inst := setup(Definition{Render: func(View) *vdom.VNode { return nil }})
	inst.Update()
	inst.SetState(Props{"a": 1})
	if q.Len() != 0 {
		t.Errorf("queue length = %d, want 0", q.Len())
	}
}

func TestSetStateCoalesces(t *testing.T) {
	rec := &fakeRecorder{}
	_, el, q, inst := setup(Definition{
		Render: func(v View) *vdom.VNode {
			return vdom.Host(vdom.Textf("%v-%v", v.State["a"], v.State["b"]))
		},
	}, WithRecorder(rec))
	inst.Mount()
	q.Drain()

	inst.SetState(Props{"a": 1})
	inst.SetState(Props{"b": 2})
	inst.SetState(nil)
	q.Drain()

	if got, want := memdom.InnerHTML(el), "1-2"; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
	if inst.Renders() != 2 {
		t.Errorf("Renders() = %d, want 2", inst.Renders())
	}
	if want := []bool{true, true, false}; !reflect.DeepEqual(rec.scheduled, want) {
		t.Errorf("scheduled = %v, want %v", rec.scheduled, want)
	}
	if len(rec.renders) != 2 {
		t.Errorf("renders recorded = %d, want 2", len(rec.renders))
	}
}

func TestSetPropsObservedOnly(t *testing.T) {
	var seen Props
	_, _, q, inst := setup(Definition{
		Props:  []string{"my-label", "count"},
		Render: func(v View) *vdom.VNode { seen = v.Props; return nil },
	})
	inst.SetProps(Props{"my-label": "x", "other": 1})
	inst.Mount()
	q.Drain()

	if want := (Props{"myLabel": "x"}); !reflect.DeepEqual(seen, want) {
		t.Errorf("props = %v, want %v", seen, want)
	}

	inst.SetProp("count", 3)
	inst.SetProp("other", 4)
	q.Drain()
	if want := (Props{"myLabel": "x", "count": 3}); !reflect.DeepEqual(seen, want) {
		t.Errorf("props = %v, want %v", seen, want)
	}
}

func TestReceivePropsCanSkipPass(t *testing.T) {
	_, _, q, inst := setup(Definition{
		Props:        []string{"v"},
		Render:       func(View) *vdom.VNode { return nil },
		ReceiveProps: func(next Props) bool { return next["v"] != "skip" },
	})
	inst.Mount()
	q.Drain()

	inst.SetProps(Props{"v": "skip"})
	q.Drain()
	if inst.Renders() != 1 {
		t.Errorf("Renders() = %d, want 1", inst.Renders())
	}
	inst.SetProps(Props{"v": "go"})
	q.Drain()
	if inst.Renders() != 2 {
		t.Errorf("Renders() = %d, want 2", inst.Renders())
	}
}

func TestHookStateDrivesRender(t *testing.T) {
	_, el, q, inst := setup(Definition{
		Render: func(View) *vdom.VNode {
			count := hooks.UseState(0)
			return vdom.Host(
				vdom.OnClick(func() { count.Update(func(n int) int { return n + 1 }) }),
				vdom.Textf("%d", count.Get()),
			)
		},
	})
	inst.Mount()
	q.Drain()

	mel := el.(*memdom.Element)
	mel.Click()
	mel.Click()
	q.Drain()

	if got := memdom.InnerHTML(el); got != "2" {
		t.Errorf("html = %q, want %q", got, "2")
	}
	if inst.Renders() != 2 {
		t.Errorf("Renders() = %d, want 2", inst.Renders())
	}
}

func TestChildrenAndSlots(t *testing.T) {
	doc := memdom.New()
	el := doc.CreateElement("x-card", "")
	title := doc.CreateElement("h1", "")
	title.SetAttribute("slot", "title")
	el.AppendChild(title)
	el.AppendChild(doc.CreateTextNode("body"))

	var view View
	q := scheduler.NewQueue()
	inst := New(Definition{
		Render: func(v View) *vdom.VNode {
			view = v
			return vdom.Host(vdom.Section(vdom.Raw(v.Slots["title"], nil)))
		},
	}, el, q, WithEngine(reconcile.NewEngine()))
	inst.Mount()
	q.Drain()

	if len(view.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(view.Children))
	}
	if view.Slots["title"] != title {
		t.Error("slot title should hold the h1")
	}
	if got, want := memdom.InnerHTML(el), `<section><h1 slot="title"></h1></section>`; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
}

func TestUnmountRunsCleanup(t *testing.T) {
	var log []string
	_, el, q, inst := setup(Definition{
		Render: func(View) *vdom.VNode {
			hooks.UseEffect(func() hooks.Cleanup {
				log = append(log, "run")
				return func() { log = append(log, "cleanup") }
			}, []any{})
			return vdom.Host(vdom.OnClick(func() {}))
		},
	})
	inst.Mount()
	q.Drain()

	inst.Unmount()
	inst.Unmount()
	q.Drain()

	if want := []string{"run", "cleanup"}; !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if n := el.(*memdom.Element).ListenerCount("click"); n != 0 {
		t.Errorf("click listeners = %d, want 0", n)
	}

	inst.Update()
	if q.Len() != 0 {
		t.Errorf("queue length = %d after unmount, want 0", q.Len())
	}
}

func TestRenderPanicBecomesError(t *testing.T) {
	rec := &fakeRecorder{}
	tracer := &recordingTracer{}
	_, _, q, inst := setup(Definition{
		Name:   "broken",
		Render: func(View) *vdom.VNode { panic("boom") },
	}, WithRecorder(rec), WithTracer(tracer))
	inst.Mount()
	q.Drain()

	err := inst.Err()
	if !errors.Is(err, errs.New("E003")) {
		t.Fatalf("Err() = %v, want E003", err)
	}
	if inst.Renders() != 0 {
		t.Errorf("Renders() = %d, want 0", inst.Renders())
	}
	if len(rec.renders) != 1 || rec.renders[0] == nil {
		t.Errorf("recorded renders = %v, want one error", rec.renders)
	}
	if len(tracer.spans) != 1 || tracer.spans[0].status != codes.Error || tracer.spans[0].err == nil {
		t.Errorf("span did not record the failure")
	}
	if inst.Scheduler().State() != scheduler.Idle {
		t.Errorf("State() = %v, want idle", inst.Scheduler().State())
	}
}

func TestHookOrderError(t *testing.T) {
	toggle := false
	_, _, q, inst := setup(Definition{
		Render: func(View) *vdom.VNode {
			hooks.UseState(1)
			if toggle {
				hooks.UseRef(0)
			}
			return nil
		},
	})
	inst.Mount()
	q.Drain()

	toggle = true
	inst.Update()
	q.Drain()

	if !errors.Is(inst.Err(), hooks.ErrHookOrder) {
		t.Errorf("Err() = %v, want ErrHookOrder", inst.Err())
	}
}

func TestRenderSpan(t *testing.T) {
	tracer := &recordingTracer{}
	_, _, q, inst := setup(Definition{Render: func(View) *vdom.VNode { return nil }}, WithTracer(tracer))
	inst.Mount()
	q.Drain()

	if want := []string{"livetree.render"}; !reflect.DeepEqual(tracer.names, want) {
		t.Errorf("spans = %v, want %v", tracer.names, want)
	}
	if tracer.spans[0].status != codes.Ok {
		t.Errorf("status = %v, want Ok", tracer.spans[0].status)
	}
}

func TestDefaultName(t *testing.T) {
	_, _, _, inst := setup(Definition{})
	want := fmt.Sprintf("component.Instance{name: x-test, pass: %d}", inst.Pass())
	if got := inst.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"label":     "label",
		"my-label":  "myLabel",
		"data-x-y":  "dataXY",
		"trailing-": "trailing",
		"a--b":      "aB",
	}
	for in, want := range tests {
		if got := camelCase(in); got != want {
			t.Errorf("camelCase(%q) = %q, want %q", in, got, want)
		}
	}
}
