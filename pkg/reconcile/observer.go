package reconcile

import "time"

// Op is a host operation issued by the engine.
type Op uint8

const (
	OpCreate         Op = iota + 1 // create an element or text node
	OpSetText                      // update text data
	OpSetAttr                      // set an attribute
	OpRemoveAttr                   // remove an attribute
	OpSetProp                      // assign a property
	OpStyle                        // change inline style
	OpAddListener                  // attach the native listener for an event type
	OpRemoveListener               // detach the native listener
	OpInsert                       // insert a new child
	OpMove                         // move a keyed child into position
	OpReplace                      // replace a child
	OpRemove                       // remove a child
	OpAttachShadow                 // attach a shadow root
	OpSetRef                       // deliver the node to a ref
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpSetText:
		return "set-text"
	case OpSetAttr:
		return "set-attr"
	case OpRemoveAttr:
		return "remove-attr"
	case OpSetProp:
		return "set-prop"
	case OpStyle:
		return "style"
	case OpAddListener:
		return "add-listener"
	case OpRemoveListener:
		return "remove-listener"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpReplace:
		return "replace"
	case OpRemove:
		return "remove"
	case OpAttachShadow:
		return "attach-shadow"
	case OpSetRef:
		return "set-ref"
	default:
		return "unknown"
	}
}

// AllOps lists every Op.
var AllOps = []Op{
	OpCreate, OpSetText, OpSetAttr, OpRemoveAttr, OpSetProp, OpStyle,
	OpAddListener, OpRemoveListener, OpInsert, OpMove, OpReplace, OpRemove,
	OpAttachShadow, OpSetRef,
}

// Observer receives engine activity. Implementations must be safe for
// concurrent use when the engine renders from several goroutines.
type Observer interface {
	ObservePass(pass PassID, d time.Duration)
	ObserveMutation(op Op)
}

type nopObserver struct{}

func (nopObserver) ObservePass(PassID, time.Duration) {}
func (nopObserver) ObserveMutation(Op)               {}

// Observers fans out to several observers.
type Observers []Observer

// ObservePass implements Observer.
func (o Observers) ObservePass(pass PassID, d time.Duration) {
	for _, ob := range o {
		ob.ObservePass(pass, d)
	}
}

// ObserveMutation implements Observer.
func (o Observers) ObserveMutation(op Op) {
	for _, ob := range o {
		ob.ObserveMutation(op)
	}
}
