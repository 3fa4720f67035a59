package hooks

import (
	"runtime"
	"sync"
)

// currentControllers maps goroutine IDs to the controller whose render
// body is running on that goroutine.
var currentControllers sync.Map

// goroutineID returns the ID of the calling goroutine, parsed from the
// runtime stack header "goroutine <id> ".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// current returns the controller rendering on this goroutine, or nil.
func current() *Controller {
	if c, ok := currentControllers.Load(goroutineID()); ok {
		return c.(*Controller)
	}
	return nil
}

// setCurrent installs c for this goroutine and returns the previous one.
func setCurrent(c *Controller) *Controller {
	gid := goroutineID()
	var prev *Controller
	if old, ok := currentControllers.Load(gid); ok {
		prev = old.(*Controller)
	}
	if c == nil {
		currentControllers.Delete(gid)
	} else {
		currentControllers.Store(gid, c)
	}
	return prev
}
