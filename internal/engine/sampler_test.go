package engine

import (
	"reflect"
	"testing"
	"time"

	"autoscroll/internal/config"
	"autoscroll/internal/cursor"
	"autoscroll/internal/input"
	"autoscroll/internal/scrollmath"
	"autoscroll/internal/stats"
	"autoscroll/internal/testutil"
)

// linearConfig makes the ramp the identity so deltas equal displacement
func linearConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Sensitivity = 1
	cfg.RampExponent = 1
	cfg.DeadZoneShape = scrollmath.ShapeSquare
	cfg.DeadZone = 1
	return cfg
}

// newScrolling returns a harness in Scrolling with a sampler that is driven
// by hand rather than by its goroutine
func newScrolling(t *testing.T, cfg *config.Config) (*harness, *sampler) {
	h := newHarness(t, cfg)
	h.e.state.Store(int32(Scrolling))
	t.Cleanup(func() { h.e.state.Store(int32(Idle)) })
	return h, newSampler(h.e, input.Point{X: 100, Y: 100})
}

func TestSampleStatsCycle(t *testing.T) {
	h, s := newScrolling(t, linearConfig())
	h.ptr.Set(102, 103)
	s.sample(h.cfg.Get())

	want := []testutil.Call{{Name: "Wheel", Delta: -3}, {Name: "HWheel", Delta: 2}}
	if got := h.inj.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %+v, want %+v", got, want)
	}
	got := h.e.Tally.Snapshot()
	if got != (stats.Stats{TotalPixels: 5, Down: 3, Right: 2, SessionPixels: 5}) {
		t.Fatalf("stats = %+v", got)
	}
}

// TestSampleNaturalScrolling flips the emitted sign but not the accounting
func TestSampleNaturalScrolling(t *testing.T) {
	cfg := linearConfig()
	cfg.NaturalScrolling = true
	h, s := newScrolling(t, cfg)
	h.ptr.Set(102, 103)
	s.sample(cfg)

	want := []testutil.Call{{Name: "Wheel", Delta: 3}, {Name: "HWheel", Delta: -2}}
	if got := h.inj.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %+v, want %+v", got, want)
	}
	if st := h.e.Tally.Snapshot(); st.Down != 3 || st.Right != 2 {
		t.Fatalf("logical accounting lost: %+v", st)
	}
}

// TestSampleVerticalClamp: dy=-50 with the stock ramp clamps to +1
func TestSampleVerticalClamp(t *testing.T) {
	h, s := newScrolling(t, nil)
	h.ptr.Set(100, 50)
	s.sample(h.cfg.Get())

	want := []testutil.Call{{Name: "Wheel", Delta: 1}}
	if got := h.inj.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %+v, want %+v", got, want)
	}
	if got := h.backend.Applied(); !reflect.DeepEqual(got, []cursor.Shape{cursor.NS}) {
		t.Fatalf("cursor = %v, want [ns]", got)
	}
}

// TestSampleCrossAxis: inside the vertical arm only the wheel moves
func TestSampleCrossAxis(t *testing.T) {
	h, s := newScrolling(t, nil)
	h.ptr.Set(105, 150)
	s.sample(h.cfg.Get())

	calls := h.inj.Calls()
	if len(calls) != 1 || calls[0].Name != "Wheel" || calls[0].Delta >= 0 {
		t.Fatalf("calls = %+v, want a single downward wheel event", calls)
	}
}

func TestSampleDeadZone(t *testing.T) {
	h, s := newScrolling(t, nil)
	h.ptr.Set(104, 96)
	s.sample(h.cfg.Get())
	s.sample(h.cfg.Get())

	if calls := h.inj.Calls(); len(calls) != 0 {
		t.Fatalf("dead zone emitted %+v", calls)
	}
	if got := h.backend.Applied(); !reflect.DeepEqual(got, []cursor.Shape{cursor.All}) {
		t.Fatalf("cursor = %v, want [all] once", got)
	}
}

// TestSampleCursorChangesOnly applies a shape once per direction change
func TestSampleCursorChangesOnly(t *testing.T) {
	h, s := newScrolling(t, linearConfig())
	for _, p := range [][2]int{{150, 100}, {160, 102}, {100, 160}, {150, 150}, {150, 150}, {50, 150}} {
		h.ptr.Set(p[0], p[1])
		s.sample(h.cfg.Get())
	}
	want := []cursor.Shape{cursor.WE, cursor.NS, cursor.NWSE, cursor.NESW}
	if got := h.backend.Applied(); !reflect.DeepEqual(got, want) {
		t.Fatalf("cursor = %v, want %v", got, want)
	}
}

// TestSampleAfterStop: a stop landing before emission suppresses output
func TestSampleAfterStop(t *testing.T) {
	h, s := newScrolling(t, linearConfig())
	h.e.state.Store(int32(Stopping))
	h.ptr.Set(150, 150)
	s.sample(h.cfg.Get())
	if calls := h.inj.Calls(); len(calls) != 0 {
		t.Fatalf("emitted after stop: %+v", calls)
	}
	if st := h.e.Tally.Snapshot(); st.TotalPixels != 0 {
		t.Fatalf("accounted after stop: %+v", st)
	}
}

func TestSampleAccountingOff(t *testing.T) {
	cfg := linearConfig()
	cfg.FunStats = false
	h, s := newScrolling(t, cfg)
	h.ptr.Set(110, 100)
	s.sample(cfg)
	if len(h.inj.Calls()) != 1 {
		t.Fatalf("calls = %+v", h.inj.Calls())
	}
	if st := h.e.Tally.Snapshot(); st != (stats.Stats{}) {
		t.Fatalf("accounted with fun_stats off: %+v", st)
	}
}

// TestSamplerExit verifies the goroutine restores the cursor and forces Idle
func TestSamplerExit(t *testing.T) {
	h, s := newScrolling(t, nil)
	h.e.sampler = s
	h.ptr.Set(100, 100)
	go s.run(h.e.ctx)

	deadline := time.Now().Add(2 * time.Second)
	for len(h.backend.Applied()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sampler never applied a cursor")
		}
		time.Sleep(time.Millisecond)
	}
	h.e.state.Store(int32(Stopping))
	h.waitSampler(t)
	h.expectState(t, Idle)
	if h.backend.Restores() != 1 {
		t.Fatalf("restores = %d, want 1", h.backend.Restores())
	}
}
