// Package engine recognizes scroll gestures and drives the scroll sampler.
//
// Three contexts cooperate. The hook thread runs the Interceptor, which only
// reads atomics and posts events. The engine goroutine (Run) owns every state
// transition and processes events in arrival order. While a gesture is
// scrolling, one sampler goroutine converts pointer displacement into wheel
// events and polls the state to know when to stop.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"autoscroll/internal/config"
	"autoscroll/internal/cursor"
	"autoscroll/internal/input"
	"autoscroll/internal/scrollmath"
	"autoscroll/internal/stats"
)

// ConfigSource publishes config snapshots and reloads them on request.
type ConfigSource interface {
	Get() *config.Config
	Load() error
}

// Cursor is the pointer shape override. Only the sampler calls it.
type Cursor interface {
	SetShape(s cursor.Shape)
	Restore()
}

// Overlay draws the scroll anchor indicator.
type Overlay interface {
	Show(center input.Point, ind config.Indicator)
	Hide()
}

// StatsSaver persists the scroll counters.
type StatsSaver interface {
	Save(st stats.Stats) error
}

// Deps are the engine's collaborators.
type Deps struct {
	Config   ConfigSource
	Injector input.Injector
	Pointer  input.Pointer
	Cursor   Cursor
	Overlay  Overlay
	Stats    StatsSaver
	Tally    *stats.Tally
}

// Engine owns the gesture state machine.
type Engine struct {
	Deps

	state   atomic.Int32
	paused  atomic.Bool
	dropped atomic.Uint64
	events  chan event

	// owned by the engine goroutine
	ctx     context.Context
	anchor  input.Point
	sampler *sampler
}

// New creates an idle engine. Call Run to start processing.
func New(d Deps) *Engine {
	return &Engine{
		Deps:   d,
		events: make(chan event, queueSize),
		ctx:    context.Background(),
	}
}

// State returns the current gesture state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Paused reports whether trigger handling is suspended.
func (e *Engine) Paused() bool {
	return e.paused.Load()
}

// Dropped returns how many events were lost to a full queue.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// Interceptor returns the hook-side handler feeding this engine. Only one
// should be installed at a time.
func (e *Engine) Interceptor() *Interceptor {
	return &Interceptor{e: e}
}

// SetPaused suspends or resumes trigger handling. Pausing also ends any
// gesture in progress.
func (e *Engine) SetPaused(paused bool) {
	if e.paused.Swap(paused) == paused {
		return
	}
	log.Printf("Engine: paused=%v", paused)
	if paused {
		e.command(evPause)
	}
}

// Reload asks the engine goroutine to re-read the config file.
func (e *Engine) Reload() {
	e.command(evReload)
}

// FlushStats asks the engine goroutine to persist the counters.
func (e *Engine) FlushStats() {
	e.command(evFlushStats)
}

// Counters returns the live scroll counters.
func (e *Engine) Counters() stats.Stats {
	return e.Tally.Snapshot()
}

func (e *Engine) command(kind eventKind) {
	if !e.post(event{kind: kind}) {
		log.Printf("Engine: event queue full, dropped %s", kind)
	}
}

// post enqueues without blocking and reports whether the event was accepted.
func (e *Engine) post(ev event) bool {
	select {
	case e.events <- ev:
		return true
	default:
		e.dropped.Add(1)
		return false
	}
}

// Run processes events until ctx is cancelled, then ends any gesture, waits
// for the sampler and saves the counters.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	log.Println("Engine: running")
	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return nil
		case ev := <-e.events:
			e.handle(ev)
		}
	}
}

func (e *Engine) handle(ev event) {
	cfg := e.Config.Get()
	st := e.State()

	switch ev.kind {
	case evButtonDown:
		switch {
		case st == Idle:
			e.anchor = ev.pos
			e.state.Store(int32(Primed))
		case st == Scrolling && cfg.TriggerMode == config.Toggle:
			e.stop(cfg)
		}

	case evButtonUp:
		switch {
		case st == Primed:
			e.state.Store(int32(Idle))
			if cfg.MousePassthrough {
				if err := e.Injector.Click(ev.button); err != nil {
					log.Printf("Engine: passthrough click failed: %v", err)
				}
			}
		case st == Scrolling && cfg.TriggerMode == config.Hold:
			e.stop(cfg)
		}

	case evMove:
		if st == Primed && scrollmath.ExceedsDrag(ev.pos.X-e.anchor.X, ev.pos.Y-e.anchor.Y, cfg.DragThreshold) {
			e.start(cfg)
		}

	case evKeyDown:
		switch {
		case st == Idle || st == Primed:
			e.start(cfg)
		case st == Scrolling && cfg.TriggerMode == config.Toggle:
			e.stop(cfg)
		}

	case evKeyUp:
		if st == Scrolling && cfg.TriggerMode == config.Hold {
			e.stop(cfg)
		}

	case evCancel, evPause:
		switch st {
		case Primed:
			e.state.Store(int32(Idle))
		case Scrolling:
			e.stop(cfg)
		}

	case evReload:
		if err := e.Config.Load(); err != nil {
			log.Printf("Engine: config reload: %v", err)
		}

	case evFlushStats:
		e.saveStats()
	}
}

// start moves Idle or Primed to Scrolling and launches a sampler. On failure
// the state is left unchanged: an Idle start stays Idle, and a Primed start
// stays Primed so the next move retries.
func (e *Engine) start(cfg *config.Config) {
	if err := e.tryStart(cfg); err != nil {
		log.Printf("Engine: cannot start scrolling: %v", err)
	}
}

func (e *Engine) tryStart(cfg *config.Config) error {
	anchor := e.anchor
	if e.State() == Idle {
		pos, err := e.Pointer.Position()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPointerUnavailable, err)
		}
		anchor = pos
	}

	if e.sampler != nil && !e.sampler.finished() {
		return ErrSamplerBusy
	}

	s := newSampler(e, anchor)
	e.sampler = s
	e.anchor = anchor
	e.state.Store(int32(Scrolling))
	if cfg.ShowIndicator {
		e.Overlay.Show(anchor, cfg.Indicator())
	}
	go s.run(e.ctx)
	return nil
}

// stop requests the sampler to exit. The sampler itself moves Stopping to Idle.
func (e *Engine) stop(cfg *config.Config) {
	if !e.state.CompareAndSwap(int32(Scrolling), int32(Stopping)) {
		return
	}
	e.Overlay.Hide()
	if cfg.FunStats {
		e.saveStats()
	}
}

func (e *Engine) shutdown() {
	if e.state.CompareAndSwap(int32(Scrolling), int32(Stopping)) {
		e.Overlay.Hide()
	}
	if e.sampler != nil {
		<-e.sampler.done
	}
	if e.State() == Primed {
		e.state.Store(int32(Idle))
	}
	e.saveStats()
	log.Println("Engine: stopped")
}

func (e *Engine) saveStats() {
	if err := e.Stats.Save(e.Tally.Snapshot()); err != nil {
		log.Printf("Engine: saving stats: %v", err)
	}
}
