package engine

import (
	"autoscroll/internal/config"
	"autoscroll/internal/input"
	"autoscroll/internal/keys"
)

// Interceptor decides, on the hook thread, which physical events the engine
// consumes. It reads only atomics, never blocks and never allocates; all
// transitions happen later on the engine goroutine. Its own fields are
// touched only by the hook thread.
type Interceptor struct {
	e *Engine

	swallowed  bool // trigger press was suppressed, so suppress its release
	keyHeld    bool // trigger key is down; repeats are not re-posted
	cancelHeld bool // cancel key press was suppressed
}

var _ input.Handler = (*Interceptor)(nil)

// Mouse handles one mouse notification and reports whether to suppress it.
func (i *Interceptor) Mouse(ev input.MouseEvent) bool {
	if ev.Injected {
		return false
	}
	cfg := i.e.Config.Get()
	paused := i.e.paused.Load()

	switch ev.Action {
	case input.MouseMove:
		if !paused && i.e.State() == Primed {
			i.e.post(event{kind: evMove, pos: input.Point{X: ev.X, Y: ev.Y}})
		}
		return false

	case input.MouseDown:
		if !isTrigger(ev.Button, cfg) || paused {
			return false
		}
		st := i.e.State()
		if st == Idle || (st == Scrolling && cfg.TriggerMode == config.Toggle) {
			if i.e.post(event{kind: evButtonDown, button: ev.Button, pos: input.Point{X: ev.X, Y: ev.Y}}) {
				i.swallowed = true
				return true
			}
		}
		return false

	case input.MouseUp:
		if !isTrigger(ev.Button, cfg) {
			return false
		}
		swallowed := i.swallowed
		i.swallowed = false
		if paused {
			return swallowed
		}
		st := i.e.State()
		if swallowed || st == Primed || st == Scrolling {
			posted := i.e.post(event{kind: evButtonUp, button: ev.Button})
			return swallowed || posted
		}
	}
	return false
}

// Key handles one keyboard notification and reports whether to suppress it.
func (i *Interceptor) Key(ev input.KeyEvent) bool {
	if ev.Injected {
		return false
	}
	cfg := i.e.Config.Get()
	code := keys.Code(ev.Code)
	paused := i.e.paused.Load()

	if code != keys.None && code == cfg.CancelKey {
		if !ev.Down {
			held := i.cancelHeld
			i.cancelHeld = false
			return held
		}
		if i.cancelHeld {
			return true
		}
		st := i.e.State()
		if !paused && (st == Primed || st == Scrolling) && i.e.post(event{kind: evCancel}) {
			i.cancelHeld = true
			return true
		}
		return false
	}

	if code == keys.None || code != cfg.TriggerKey {
		return false
	}
	suppress := !cfg.KeyboardPassthrough

	if ev.Down {
		if i.keyHeld {
			return suppress
		}
		if paused {
			return false
		}
		i.keyHeld = true
		i.e.post(event{kind: evKeyDown})
		return suppress
	}

	if !i.keyHeld {
		return false
	}
	i.keyHeld = false
	if !paused {
		i.e.post(event{kind: evKeyUp})
	}
	return suppress
}

func isTrigger(b input.Button, cfg *config.Config) bool {
	return b != input.ButtonNone && b == cfg.TriggerButton
}
