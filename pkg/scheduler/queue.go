package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Task is a unit of deferred work.
type Task func()

// Deferrer accepts tasks to run later.
type Deferrer interface {
	Defer(t Task)
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithLogger sets the logger used to report task panics.
func WithLogger(l *slog.Logger) QueueOption {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// Queue is a FIFO of deferred tasks.
type Queue struct {
	mu    sync.Mutex
	tasks []Task
	wake  chan struct{}

	drainMu sync.Mutex
	logger  *slog.Logger
}

var _ Deferrer = (*Queue)(nil)

// NewQueue creates an empty queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		tasks:  make([]Task, 0, 16),
		wake:   make(chan struct{}, 1),
		logger: slog.Default().With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Defer appends t. It is safe to call from any goroutine, including from
// inside a running task.
func (q *Queue) Defer(t Task) {
	if t == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs queued tasks until the queue is empty and returns how many
// ran. Only one drain runs at a time.
func (q *Queue) Drain() int {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	n := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return n
		}
		t := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.safeRun(t)
		n++
	}
}

func (q *Queue) safeRun(t Task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("deferred task panicked", "panic", fmt.Sprint(r))
		}
	}()
	t()
}

// Run drains the queue whenever tasks arrive until ctx is done. It
// returns ctx.Err().
func (q *Queue) Run(ctx context.Context) error {
	q.Drain()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
			q.Drain()
		}
	}
}
