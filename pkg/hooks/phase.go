package hooks

// Phase is a lifecycle phase dispatched to hook slots.
type Phase uint8

const (
	Mount   Phase = 1 // first load, as each slot is accessed
	Mounted Phase = 2 // after the first render is committed
	Update  Phase = 3 // later loads
	Updated Phase = 4 // after later renders are committed
	Unmount Phase = 5 // teardown
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case Mount:
		return "mount"
	case Mounted:
		return "mounted"
	case Update:
		return "update"
	case Updated:
		return "updated"
	case Unmount:
		return "unmount"
	default:
		return "unknown"
	}
}
