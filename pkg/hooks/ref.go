package hooks

// Ref is a mutable box that keeps its identity across renders.
type Ref[T any] struct {
	Current T
}

// SetCurrent stores node when it is a T. It lets a Ref receive the live
// node of an element through the ref property.
func (r *Ref[T]) SetCurrent(node any) {
	if v, ok := node.(T); ok {
		r.Current = v
	}
}

// UseRef returns the ref of the next slot, holding initial on mount.
func UseRef[T any](initial T) *Ref[T] {
	c := mustCurrent("UseRef")
	return useSlot(c, func(r *Ref[T], p Phase) *Ref[T] {
		if r == nil {
			r = &Ref[T]{Current: initial}
		}
		return r
	}, nil)
}

// UseRender returns the function that requests a new render pass.
func UseRender() func() {
	return mustCurrent("UseRender").render
}

// UseHost returns a ref holding the host the controller was created for.
// It does not claim a slot.
func UseHost() *Ref[any] {
	return mustCurrent("UseHost").host
}
