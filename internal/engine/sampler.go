package engine

import (
	"context"
	"log"
	"time"

	"autoscroll/internal/config"
	"autoscroll/internal/cursor"
	"autoscroll/internal/input"
	"autoscroll/internal/scrollmath"
)

// sampler turns pointer displacement into wheel events for one gesture. It
// polls the engine state at the top of every cycle, so a stop request takes
// effect within one sampling interval.
type sampler struct {
	e      *Engine
	anchor input.Point
	shape  cursor.Shape
	warned bool
	done   chan struct{}
}

func newSampler(e *Engine, anchor input.Point) *sampler {
	return &sampler{e: e, anchor: anchor, done: make(chan struct{})}
}

func (s *sampler) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *sampler) run(ctx context.Context) {
	defer close(s.done)
	defer s.e.state.Store(int32(Idle))
	defer s.e.Cursor.Restore()

	cfg := s.e.Config.Get()
	timer := time.NewTimer(cfg.SampleInterval())
	defer timer.Stop()

	for s.e.State() == Scrolling {
		s.sample(cfg)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		cfg = s.e.Config.Get()
		timer.Reset(cfg.SampleInterval())
	}
}

// sample runs one cycle against the snapshot cfg.
func (s *sampler) sample(cfg *config.Config) {
	pos, err := s.e.Pointer.Position()
	if err != nil {
		return
	}
	dx, dy := pos.X-s.anchor.X, pos.Y-s.anchor.Y
	p := cfg.ScrollParams()

	if !scrollmath.DeadZoneActive(dx, dy, p) {
		s.setShape(cursor.All)
		return
	}

	vertical, horizontal := scrollmath.Deltas(dx, dy, p)
	outV, outH := vertical, horizontal
	if cfg.NaturalScrolling {
		outV, outH = -outV, -outH
	}

	// A stop that landed after the loop-top check suppresses this cycle's
	// output; only a stop racing the emit calls themselves can slip through.
	if s.e.State() != Scrolling {
		return
	}
	if outV != 0 {
		s.check(s.e.Injector.Wheel(outV))
	}
	if outH != 0 {
		s.check(s.e.Injector.HWheel(outH))
	}
	if cfg.FunStats {
		s.e.Tally.Record(vertical, horizontal)
	}

	s.setShape(cursor.ShapeFor(scrollmath.Classify(dx, dy)))
}

func (s *sampler) setShape(shape cursor.Shape) {
	if shape == s.shape {
		return
	}
	s.e.Cursor.SetShape(shape)
	s.shape = shape
}

func (s *sampler) check(err error) {
	if err != nil && !s.warned {
		s.warned = true
		log.Printf("Engine: wheel injection failed: %v", err)
	}
}
