package engine

import "errors"

// State is the gesture lifecycle.
type State int32

const (
	Idle State = iota
	// Primed: trigger is down but the pointer has not left the drag slack
	Primed
	Scrolling
	// Stopping: deactivation requested, sampler not yet exited
	Stopping
)

func (s State) String() string {
	switch s {
	case Primed:
		return "primed"
	case Scrolling:
		return "scrolling"
	case Stopping:
		return "stopping"
	default:
		return "idle"
	}
}

var (
	// ErrSamplerBusy means the previous gesture's sampler has not exited yet
	ErrSamplerBusy = errors.New("previous sampler still running")

	// ErrPointerUnavailable means the anchor position could not be read
	ErrPointerUnavailable = errors.New("pointer position unavailable")
)
