package scheduler

import "sync"

// State is the request state of a Scheduler.
type State int32

const (
	Idle State = iota
	Pending
	Committing
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// Scheduler coalesces pass requests for one instance.
type Scheduler struct {
	d      Deferrer
	commit func()

	mu       sync.Mutex
	state    State
	followUp bool
}

// New creates a scheduler that runs commit through d.
func New(d Deferrer, commit func()) *Scheduler {
	return &Scheduler{d: d, commit: commit}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Request asks for a pass. It reports whether the request scheduled a new
// pass rather than merging into one already scheduled.
func (s *Scheduler) Request() bool {
	s.mu.Lock()
	switch s.state {
	case Idle:
		s.state = Pending
		s.mu.Unlock()
		s.d.Defer(s.run)
		return true
	case Committing:
		if s.followUp {
			s.mu.Unlock()
			return false
		}
		s.followUp = true
		s.mu.Unlock()
		return true
	default:
		s.mu.Unlock()
		return false
	}
}

func (s *Scheduler) run() {
	s.mu.Lock()
	s.state = Committing
	s.followUp = false
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		again := s.followUp
		s.followUp = false
		if again {
			s.state = Pending
		} else {
			s.state = Idle
		}
		s.mu.Unlock()
		if again {
			s.d.Defer(s.run)
		}
	}()
	s.commit()
}
