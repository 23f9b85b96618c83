package engine

import "autoscroll/internal/input"

type eventKind int

const (
	evButtonDown eventKind = iota
	evButtonUp
	evMove
	evKeyDown
	evKeyUp
	evCancel
	evPause
	evReload
	evFlushStats
)

func (k eventKind) String() string {
	switch k {
	case evButtonDown:
		return "button-down"
	case evButtonUp:
		return "button-up"
	case evMove:
		return "move"
	case evKeyDown:
		return "key-down"
	case evKeyUp:
		return "key-up"
	case evCancel:
		return "cancel"
	case evPause:
		return "pause"
	case evReload:
		return "reload"
	case evFlushStats:
		return "flush-stats"
	}
	return "unknown"
}

// event is posted by value so the hook path never allocates.
type event struct {
	kind   eventKind
	button input.Button
	pos    input.Point
}

// queueSize bounds the hook-to-engine channel. A full queue drops the event
// and the physical input passes through untouched.
const queueSize = 1024
