package hooks

import (
	"sync"

	"github.com/vango-dev/livetree/internal/shallow"
)

// Reducer holds state changed by dispatching actions.
type Reducer[S, A any] struct {
	mu      sync.Mutex
	state   S
	reducer func(S, A) S
	render  func()
}

// State returns the current state.
func (r *Reducer[S, A]) State() S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispatch applies the latest reducer to action and requests a render when
// the state changes.
func (r *Reducer[S, A]) Dispatch(action A) {
	r.mu.Lock()
	reducer, cur := r.reducer, r.state
	r.mu.Unlock()

	next := reducer(cur, action)
	if shallow.Same(next, cur) {
		return
	}
	r.mu.Lock()
	r.state = next
	r.mu.Unlock()
	r.render()
}

// UseReducer returns the reducer state of the next slot, initialized to
// initial on mount. reducer is refreshed on every render so it sees the
// render's scope.
func UseReducer[S, A any](reducer func(S, A) S, initial S) *Reducer[S, A] {
	c := mustCurrent("UseReducer")
	render := c.render
	r := useSlot(c, func(r *Reducer[S, A], p Phase) *Reducer[S, A] {
		if p == Mount {
			r = &Reducer[S, A]{state: initial, render: render}
		}
		return r
	}, nil)

	r.mu.Lock()
	r.reducer = reducer
	r.mu.Unlock()
	return r
}
