// Package scheduler defers render passes to the end of the current turn.
//
// Queue is a FIFO of deferred tasks. Tasks deferred while the queue drains
// run in the same drain, after the tasks already queued. Run drains the
// queue from a dedicated goroutine whenever work arrives.
//
// Scheduler is the per-instance request state machine:
//
//	Idle        a request defers one pass and moves to Pending
//	Pending     requests merge into the deferred pass
//	Committing  the first request schedules exactly one follow-up pass
package scheduler
