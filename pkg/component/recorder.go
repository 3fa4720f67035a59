package component

import "time"

// Recorder receives instance level measurements.
type Recorder interface {
	// RenderCompleted is called after every pass.
	RenderCompleted(component string, d time.Duration, err error)
	// UpdateRequested is called for every render request. scheduled is
	// false when the request merged into a pending pass.
	UpdateRequested(component string, scheduled bool)
}

type nopRecorder struct{}

func (nopRecorder) RenderCompleted(string, time.Duration, error) {}
func (nopRecorder) UpdateRequested(string, bool)                 {}
