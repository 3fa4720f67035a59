package scheduler

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Defer(func() {
		order = append(order, 1)
		q.Defer(func() { order = append(order, 3) })
	})
	q.Defer(func() { order = append(order, 2) })

	if n := q.Drain(); n != 3 {
		t.Errorf("Drain() = %d, want 3", n)
	}
	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueueRecoversPanics(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Defer(func() { panic("boom") })
	q.Defer(func() { ran = true })
	q.Defer(nil)

	if n := q.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if !ran {
		t.Error("task after a panicking task should run")
	}
}

func TestQueueRun(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	ran := make(chan struct{})
	q.Defer(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestSchedulerMergesPending(t *testing.T) {
	q := NewQueue()
	commits := 0
	s := New(q, func() { commits++ })

	if !s.Request() {
		t.Error("first Request() = false, want true")
	}
	if s.Request() || s.Request() {
		t.Error("requests while pending should merge")
	}
	if s.State() != Pending {
		t.Errorf("State() = %v, want pending", s.State())
	}

	q.Drain()
	if commits != 1 {
		t.Errorf("commits = %d, want 1", commits)
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestSchedulerFollowUpDuringCommit(t *testing.T) {
	q := NewQueue()
	commits := 0
	var s *Scheduler
	s = New(q, func() {
		commits++
		if commits == 1 {
			if s.State() != Committing {
				t.Errorf("State() = %v, want committing", s.State())
			}
			if !s.Request() {
				t.Error("first request during commit should schedule a follow-up")
			}
			if s.Request() {
				t.Error("second request during commit should merge")
			}
		}
	})

	s.Request()
	q.Drain()

	if commits != 2 {
		t.Errorf("commits = %d, want 2", commits)
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestSchedulerRecoversFromPanickingCommit(t *testing.T) {
	q := NewQueue()
	s := New(q, func() { panic("render failed") })
	s.Request()
	q.Drain()
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{Idle: "idle", Pending: "pending", Committing: "committing", State(7): "unknown"}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
