package hooks

import "github.com/vango-dev/livetree/internal/shallow"

type memoSlot[T any] struct {
	deps     []any
	value    T
	computed bool
}

// UseMemo returns compute's result, recomputed on the first render, on
// every render when deps is nil, and whenever deps change.
func UseMemo[T any](compute func() T, deps []any) T {
	c := mustCurrent("UseMemo")
	s := useSlot(c, func(s *memoSlot[T], p Phase) *memoSlot[T] {
		if s == nil {
			s = &memoSlot[T]{}
		}
		return s
	}, nil)
	if !s.computed || s.deps == nil || !shallow.Equal(s.deps, deps) {
		s.value = compute()
		s.computed = true
	}
	s.deps = shallow.Copy(deps)
	return s.value
}

// UseCallback returns fn, keeping the first identity until deps change.
func UseCallback[F any](fn F, deps []any) F {
	return UseMemo(func() F { return fn }, deps)
}
