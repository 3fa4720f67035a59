package hooks

import "github.com/vango-dev/livetree/internal/shallow"

// Cleanup undoes an effect. It may be nil.
type Cleanup func()

type effectSlot struct {
	deps    []any
	cleanup Cleanup
}

// UseEffect runs fn after the render is committed.
//
// With nil deps fn runs after every render. Otherwise it runs after the
// first render and whenever deps differ from the previous render's deps,
// compared element by element. The previous cleanup runs before fn runs
// again. Unmount runs the last cleanup and forgets deps, so a remounted
// instance runs the effect again.
func UseEffect(fn func() Cleanup, deps []any) {
	c := mustCurrent("UseEffect")

	decided := false
	execute := false
	useSlot(c, func(s *effectSlot, p Phase) *effectSlot {
		if s == nil {
			s = &effectSlot{}
		}
		if !decided {
			decided = true
			execute = deps == nil || s.deps == nil || !shallow.Equal(deps, s.deps)
			s.deps = shallow.Copy(deps)
		}

		switch p {
		case Update, Unmount:
			if (execute || p == Unmount) && s.cleanup != nil {
				s.cleanup()
				s.cleanup = nil
			}
			if p == Unmount {
				s.deps = nil
			}
		case Mounted, Updated:
			if execute || p == Mounted {
				s.cleanup = fn()
			}
		}
		return s
	}, nil)
}
