package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoscroll/internal/config"
	"autoscroll/internal/cursor"
	"autoscroll/internal/input"
	"autoscroll/internal/stats"
	"autoscroll/internal/testutil"
)

type harness struct {
	e       *Engine
	cfg     *testutil.FakeConfig
	inj     *testutil.FakeInjector
	ptr     *testutil.FakePointer
	backend *testutil.FakeCursorBackend
	overlay *testutil.FakeOverlay
	saver   *testutil.FakeStatsSaver
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		cfg:     testutil.NewFakeConfig(cfg),
		inj:     &testutil.FakeInjector{},
		ptr:     &testutil.FakePointer{},
		backend: &testutil.FakeCursorBackend{},
		overlay: &testutil.FakeOverlay{},
		saver:   &testutil.FakeStatsSaver{},
	}
	h.e = New(Deps{
		Config:   h.cfg,
		Injector: h.inj,
		Pointer:  h.ptr,
		Cursor:   cursor.NewController(h.backend),
		Overlay:  h.overlay,
		Stats:    h.saver,
		Tally:    stats.NewTally(stats.Stats{}),
	})
	t.Cleanup(func() {
		if h.e.State() == Scrolling {
			h.e.state.Store(int32(Stopping))
		}
		h.waitSampler(t)
	})
	return h
}

func (h *harness) press(x, y int) {
	h.ptr.Set(x, y)
	h.e.handle(event{kind: evButtonDown, button: input.ButtonMiddle, pos: input.Point{X: x, Y: y}})
}

func (h *harness) move(x, y int) {
	h.ptr.Set(x, y)
	h.e.handle(event{kind: evMove, pos: input.Point{X: x, Y: y}})
}

func (h *harness) release() {
	h.e.handle(event{kind: evButtonUp, button: input.ButtonMiddle})
}

// waitSampler blocks until the current sampler (if any) has exited
func (h *harness) waitSampler(t *testing.T) {
	t.Helper()
	if h.e.sampler == nil {
		return
	}
	select {
	case <-h.e.sampler.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sampler did not exit")
	}
}

func (h *harness) expectState(t *testing.T, want State) {
	t.Helper()
	if got := h.e.State(); got != want {
		t.Fatalf("state = %s, want %s", got, want)
	}
}

// startScrolling primes at (100,100) and drags past the threshold
func (h *harness) startScrolling(t *testing.T) {
	t.Helper()
	h.press(100, 100)
	h.move(100+h.cfg.Get().DragThreshold+1, 100)
	h.expectState(t, Scrolling)
	// park the pointer back on the anchor so the sampler stays quiet
	h.ptr.Set(100, 100)
}

func TestOnlyActivateLeavesIdle(t *testing.T) {
	h := newHarness(t, nil)
	for _, ev := range []event{
		{kind: evMove, pos: input.Point{X: 500, Y: 500}},
		{kind: evButtonUp, button: input.ButtonMiddle},
		{kind: evKeyUp},
		{kind: evCancel},
		{kind: evPause},
		{kind: evFlushStats},
	} {
		h.e.handle(ev)
		h.expectState(t, Idle)
	}

	h.press(10, 20)
	h.expectState(t, Primed)
	if h.e.anchor != (input.Point{X: 10, Y: 20}) {
		t.Fatalf("anchor = %+v", h.e.anchor)
	}
}

// TestDragThreshold: primed at (100,100), a move to 100+threshold+1 scrolls
func TestDragThreshold(t *testing.T) {
	h := newHarness(t, nil)
	h.press(100, 100)

	h.move(140, 60)
	h.expectState(t, Primed)

	h.move(141, 100)
	h.expectState(t, Scrolling)

	shows := h.overlay.Shows()
	if len(shows) != 1 || shows[0] != (input.Point{X: 100, Y: 100}) {
		t.Fatalf("overlay shows = %v, want one at the anchor", shows)
	}
}

func TestReactivationIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.press(100, 100)
	h.press(300, 300)
	h.expectState(t, Primed)
	if h.e.anchor != (input.Point{X: 100, Y: 100}) {
		t.Fatalf("second press moved the anchor to %+v", h.e.anchor)
	}
}

func TestHoldModeSecondPressIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.startScrolling(t)
	h.press(100, 100)
	h.expectState(t, Scrolling)

	h.release()
	h.expectState(t, Stopping)
	h.waitSampler(t)
	h.expectState(t, Idle)
	if h.overlay.Visible() {
		t.Error("overlay still visible after stop")
	}
}

func TestToggleModeSecondPressStops(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TriggerMode = config.Toggle
	h := newHarness(t, cfg)
	h.startScrolling(t)

	h.release()
	h.expectState(t, Scrolling)

	h.press(100, 100)
	h.expectState(t, Stopping)
	h.waitSampler(t)
	h.expectState(t, Idle)
}

func TestPrimedReleasePassthrough(t *testing.T) {
	h := newHarness(t, nil)
	h.press(5, 5)
	h.release()
	h.expectState(t, Idle)

	calls := h.inj.Calls()
	if len(calls) != 1 || calls[0].Name != "Click" || calls[0].Button != input.ButtonMiddle {
		t.Fatalf("calls = %+v, want one middle click", calls)
	}

	cfg := config.DefaultConfig()
	cfg.MousePassthrough = false
	h.cfg.Set(cfg)
	h.inj.Reset()
	h.press(5, 5)
	h.release()
	if calls := h.inj.Calls(); len(calls) != 0 {
		t.Fatalf("passthrough disabled but got %+v", calls)
	}
}

func TestCancel(t *testing.T) {
	h := newHarness(t, nil)
	h.press(0, 0)
	h.e.handle(event{kind: evCancel})
	h.expectState(t, Idle)
	if len(h.inj.Calls()) != 0 {
		t.Fatal("cancel must not re-emit a click")
	}

	h.startScrolling(t)
	h.e.handle(event{kind: evCancel})
	h.expectState(t, Stopping)
	h.waitSampler(t)
	h.expectState(t, Idle)
}

func TestPauseEndsGesture(t *testing.T) {
	h := newHarness(t, nil)
	h.startScrolling(t)

	h.e.SetPaused(true)
	if !h.e.Paused() {
		t.Fatal("expected paused")
	}
	h.e.handle(<-h.e.events)
	h.expectState(t, Stopping)
	h.waitSampler(t)
	h.expectState(t, Idle)

	// resuming posts nothing
	h.e.SetPaused(false)
	select {
	case ev := <-h.e.events:
		t.Fatalf("unexpected event %s", ev.kind)
	default:
	}
}

func TestKeyTriggerHold(t *testing.T) {
	h := newHarness(t, nil)
	h.ptr.Set(400, 300)
	h.e.handle(event{kind: evKeyDown})
	h.expectState(t, Scrolling)
	if h.e.anchor != (input.Point{X: 400, Y: 300}) {
		t.Fatalf("anchor = %+v, want current pointer", h.e.anchor)
	}

	h.e.handle(event{kind: evKeyDown})
	h.expectState(t, Scrolling)

	h.e.handle(event{kind: evKeyUp})
	h.expectState(t, Stopping)
}

func TestKeyTriggerToggle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TriggerMode = config.Toggle
	h := newHarness(t, cfg)

	h.e.handle(event{kind: evKeyDown})
	h.e.handle(event{kind: evKeyUp})
	h.expectState(t, Scrolling)

	h.e.handle(event{kind: evKeyDown})
	h.expectState(t, Stopping)
}

func TestKeyTriggerFromPrimedUsesAnchor(t *testing.T) {
	h := newHarness(t, nil)
	h.press(50, 60)
	h.ptr.Set(70, 60)
	h.e.handle(event{kind: evKeyDown})
	h.expectState(t, Scrolling)
	if h.e.anchor != (input.Point{X: 50, Y: 60}) {
		t.Fatalf("anchor = %+v, want the primed anchor", h.e.anchor)
	}
}

func TestStartRollsBackWithoutPointer(t *testing.T) {
	h := newHarness(t, nil)
	h.ptr.Fail(errors.New("desktop locked"))
	h.e.handle(event{kind: evKeyDown})
	h.expectState(t, Idle)
	if len(h.overlay.Shows()) != 0 {
		t.Fatal("overlay shown for a failed start")
	}
}

func TestStartRollsBackWhileSamplerBusy(t *testing.T) {
	h := newHarness(t, nil)
	busy := newSampler(h.e, input.Point{})
	h.e.sampler = busy

	h.press(100, 100)
	h.move(200, 100)
	h.expectState(t, Primed)

	close(busy.done)
	h.move(201, 100)
	h.expectState(t, Scrolling)
}

func TestStopSavesStats(t *testing.T) {
	h := newHarness(t, nil)
	h.e.Tally.Record(4, 0)
	h.startScrolling(t)
	h.release()
	saved := h.saver.Saved()
	if len(saved) != 1 || saved[0].Up != 4 {
		t.Fatalf("saved = %+v", saved)
	}

	cfg := config.DefaultConfig()
	cfg.FunStats = false
	h.cfg.Set(cfg)
	h.waitSampler(t)
	h.startScrolling(t)
	h.release()
	if n := len(h.saver.Saved()); n != 1 {
		t.Fatalf("stats saved %d times with accounting off", n)
	}
}

func TestReloadAndFlush(t *testing.T) {
	h := newHarness(t, nil)
	h.e.Reload()
	h.e.FlushStats()
	h.e.handle(<-h.e.events)
	h.e.handle(<-h.e.events)
	if h.cfg.Loads() != 1 {
		t.Errorf("loads = %d, want 1", h.cfg.Loads())
	}
	if len(h.saver.Saved()) != 1 {
		t.Errorf("saves = %d, want 1", len(h.saver.Saved()))
	}
}

func TestRunShutdown(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.e.Run(ctx) }()

	h.ptr.Set(100, 100)
	h.e.post(event{kind: evKeyDown})
	deadline := time.Now().Add(2 * time.Second)
	for h.e.State() != Scrolling {
		if time.Now().After(deadline) {
			t.Fatal("engine never started scrolling")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	h.expectState(t, Idle)
	if len(h.saver.Saved()) == 0 {
		t.Error("stats not saved on shutdown")
	}
	if h.backend.Restores() > 1 {
		t.Errorf("cursor restored %d times", h.backend.Restores())
	}
}

func TestQueueFullDrops(t *testing.T) {
	h := newHarness(t, nil)
	for i := 0; i < queueSize; i++ {
		if !h.e.post(event{kind: evFlushStats}) {
			t.Fatalf("post %d rejected early", i)
		}
	}
	if h.e.post(event{kind: evFlushStats}) {
		t.Fatal("post accepted on a full queue")
	}
	if h.e.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", h.e.Dropped())
	}
}
