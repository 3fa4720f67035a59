package hooks

import (
	"sync"

	"github.com/vango-dev/livetree/internal/shallow"
)

// State is a value owned by a hook slot. Setting a different value
// requests a render.
type State[T any] struct {
	mu     sync.Mutex
	value  T
	render func()
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and requests a render when it differs from the current
// value. Maps, slices, functions and pointers differ when they are not the
// same reference.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	if shallow.Same(v, s.value) {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.mu.Unlock()
	s.render()
}

// Update computes the next value from the current one.
func (s *State[T]) Update(fn func(T) T) {
	s.mu.Lock()
	cur := s.value
	s.mu.Unlock()
	s.Set(fn(cur))
}

// UseState returns the state of the next slot, initialized to initial on
// mount.
func UseState[T any](initial T) *State[T] {
	return UseStateFunc(func() T { return initial })
}

// UseStateFunc is UseState with a lazily computed initial value. init runs
// only on mount.
func UseStateFunc[T any](init func() T) *State[T] {
	c := mustCurrent("UseState")
	render := c.render
	return useSlot(c, func(s *State[T], p Phase) *State[T] {
		if p == Mount {
			s = &State[T]{value: init(), render: render}
		}
		return s
	}, nil)
}
