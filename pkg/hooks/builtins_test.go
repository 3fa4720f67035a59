package hooks

import (
	"strings"
	"testing"
)

type harness struct {
	c       *Controller
	renders int
}

func newHarness() *harness {
	h := &harness{}
	h.c = New(func() { h.renders++ }, nil)
	return h
}

// cycle loads body and commits it.
func cycle[R any](t *testing.T, h *harness, body func(struct{}) R) R {
	t.Helper()
	r, err := Load(h.c, body, struct{}{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	h.c.Updated()
	return r
}

func TestUseState(t *testing.T) {
	h := newHarness()
	body := func(struct{}) *State[int] { return UseState(1) }

	s := cycle(t, h, body)
	if s.Get() != 1 {
		t.Errorf("Get() = %d, want 1", s.Get())
	}

	s.Set(1)
	if h.renders != 0 {
		t.Errorf("renders after same value = %d, want 0", h.renders)
	}
	s.Set(2)
	if h.renders != 1 {
		t.Errorf("renders = %d, want 1", h.renders)
	}
	s.Update(func(v int) int { return v + 10 })
	if s.Get() != 12 || h.renders != 2 {
		t.Errorf("Get() = %d renders = %d, want 12 and 2", s.Get(), h.renders)
	}

	again := cycle(t, h, body)
	if again != s || again.Get() != 12 {
		t.Error("state should keep identity and value across renders")
	}
}

func TestUseStateFuncInitOnce(t *testing.T) {
	h := newHarness()
	inits := 0
	body := func(struct{}) string {
		return UseStateFunc(func() string { inits++; return "x" }).Get()
	}
	cycle(t, h, body)
	cycle(t, h, body)
	if inits != 1 {
		t.Errorf("init calls = %d, want 1", inits)
	}
}

func TestUseEffectEveryRender(t *testing.T) {
	h := newHarness()
	var log []string
	body := func(struct{}) int {
		UseEffect(func() Cleanup {
			log = append(log, "run")
			return func() { log = append(log, "cleanup") }
		}, nil)
		return 0
	}

	cycle(t, h, body)
	cycle(t, h, body)
	Load(h.c, body, struct{}{})
	h.c.Unmount()

	want := "run cleanup run cleanup"
	if got := strings.Join(log, " "); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestUseEffectDeps(t *testing.T) {
	h := newHarness()
	runs, cleanups := 0, 0
	dep := 1
	body := func(struct{}) int {
		UseEffect(func() Cleanup {
			runs++
			return func() { cleanups++ }
		}, []any{dep})
		return 0
	}

	cycle(t, h, body)
	cycle(t, h, body)
	if runs != 1 || cleanups != 0 {
		t.Errorf("unchanged deps: runs=%d cleanups=%d, want 1/0", runs, cleanups)
	}

	dep = 2
	cycle(t, h, body)
	if runs != 2 || cleanups != 1 {
		t.Errorf("changed deps: runs=%d cleanups=%d, want 2/1", runs, cleanups)
	}

	h.c.Unmount()
	if cleanups != 2 {
		t.Errorf("cleanups after unmount = %d, want 2", cleanups)
	}

	cycle(t, h, body)
	if runs != 3 {
		t.Errorf("runs after remount = %d, want 3", runs)
	}
}

func TestUseEffectOnce(t *testing.T) {
	h := newHarness()
	runs := 0
	body := func(struct{}) int {
		UseEffect(func() Cleanup { runs++; return nil }, []any{})
		return 0
	}
	for i := 0; i < 3; i++ {
		cycle(t, h, body)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestUseEffectSetStateRequestsRender(t *testing.T) {
	h := newHarness()
	body := func(struct{}) int {
		s := UseState(0)
		UseEffect(func() Cleanup { s.Set(1); return nil }, []any{})
		return s.Get()
	}
	cycle(t, h, body)
	if h.renders != 1 {
		t.Errorf("renders = %d, want 1", h.renders)
	}
	if got := cycle(t, h, body); got != 1 {
		t.Errorf("state = %d, want 1", got)
	}
}

func TestUseRef(t *testing.T) {
	h := newHarness()
	body := func(struct{}) *Ref[int] { return UseRef(7) }
	r := cycle(t, h, body)
	r.Current = 9
	if again := cycle(t, h, body); again != r || again.Current != 9 {
		t.Error("ref should keep identity and value")
	}

	r.SetCurrent("wrong type")
	if r.Current != 9 {
		t.Errorf("Current = %d, want 9", r.Current)
	}
	r.SetCurrent(3)
	if r.Current != 3 {
		t.Errorf("Current = %d, want 3", r.Current)
	}
}

func TestUseMemo(t *testing.T) {
	h := newHarness()
	computes := 0
	dep := "a"
	body := func(struct{}) string {
		return UseMemo(func() string { computes++; return dep + "!" }, []any{dep})
	}

	if got := cycle(t, h, body); got != "a!" {
		t.Errorf("UseMemo() = %q, want a!", got)
	}
	cycle(t, h, body)
	if computes != 1 {
		t.Errorf("computes = %d, want 1", computes)
	}
	dep = "b"
	if got := cycle(t, h, body); got != "b!" || computes != 2 {
		t.Errorf("UseMemo() = %q computes = %d, want b! and 2", got, computes)
	}
}

func TestUseMemoNilDeps(t *testing.T) {
	h := newHarness()
	computes := 0
	body := func(struct{}) int {
		return UseMemo(func() int { computes++; return computes }, nil)
	}
	cycle(t, h, body)
	cycle(t, h, body)
	if computes != 2 {
		t.Errorf("computes = %d, want 2", computes)
	}
}

func TestUseCallback(t *testing.T) {
	h := newHarness()
	var got []func() int
	version := 0
	body := func(struct{}) int {
		v := version
		got = append(got, UseCallback(func() int { return v }, []any{0}))
		return 0
	}
	cycle(t, h, body)
	version = 1
	cycle(t, h, body)
	if got[1]() != 0 {
		t.Errorf("callback = %d, want the first identity returning 0", got[1]())
	}
}

func TestUseReducer(t *testing.T) {
	h := newHarness()
	step := 1
	body := func(struct{}) *Reducer[int, string] {
		s := step
		return UseReducer(func(state int, action string) int {
			switch action {
			case "inc":
				return state + s
			default:
				return state
			}
		}, 0)
	}

	r := cycle(t, h, body)
	r.Dispatch("inc")
	if r.State() != 1 || h.renders != 1 {
		t.Errorf("State() = %d renders = %d, want 1 and 1", r.State(), h.renders)
	}
	r.Dispatch("noop")
	if h.renders != 1 {
		t.Errorf("renders after no-op = %d, want 1", h.renders)
	}

	step = 5
	cycle(t, h, body)
	r.Dispatch("inc")
	if r.State() != 6 {
		t.Errorf("State() = %d, want 6 with the latest reducer", r.State())
	}
}

func TestUseStateSlices(t *testing.T) {
	h := newHarness()
	s := cycle(t, h, func(struct{}) *State[any] { return UseState[any]([]int{1}) })

	next := []int{1}
	s.Set(next)
	if h.renders != 1 {
		t.Errorf("renders after new slice = %d, want 1", h.renders)
	}
	s.Set(next)
	if h.renders != 1 {
		t.Errorf("renders after same slice = %d, want 1", h.renders)
	}
	s.Set(map[string]int{"a": 1})
	if h.renders != 2 {
		t.Errorf("renders after map = %d, want 2", h.renders)
	}
}

func TestUseReducerSlices(t *testing.T) {
	h := newHarness()
	r := cycle(t, h, func(struct{}) *Reducer[[]string, string] {
		return UseReducer(func(items []string, action string) []string {
			if action == "" {
				return items
			}
			return append(append([]string(nil), items...), action)
		}, nil)
	})

	r.Dispatch("a")
	if got := r.State(); len(got) != 1 || got[0] != "a" || h.renders != 1 {
		t.Errorf("State() = %v renders = %d, want [a] and 1", got, h.renders)
	}
	r.Dispatch("")
	if h.renders != 1 {
		t.Errorf("renders after unchanged slice = %d, want 1", h.renders)
	}
}
