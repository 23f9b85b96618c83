// Package testutil holds recording fakes for the engine's collaborators.
package testutil

import (
	"sync"
	"sync/atomic"

	"autoscroll/internal/config"
	"autoscroll/internal/cursor"
	"autoscroll/internal/input"
	"autoscroll/internal/stats"
)

// Call records a single injected action.
type Call struct {
	Name   string
	Delta  int
	Button input.Button
}

// FakeInjector implements input.Injector and records calls for tests.
type FakeInjector struct {
	mu    sync.Mutex
	calls []Call
	Err   error
}

// Ensure FakeInjector implements the interface.
var _ input.Injector = (*FakeInjector)(nil)

// Wheel records a vertical wheel delta.
func (f *FakeInjector) Wheel(delta int) error {
	return f.record(Call{Name: "Wheel", Delta: delta})
}

// HWheel records a horizontal wheel delta.
func (f *FakeInjector) HWheel(delta int) error {
	return f.record(Call{Name: "HWheel", Delta: delta})
}

// Click records a re-emitted click.
func (f *FakeInjector) Click(b input.Button) error {
	return f.record(Call{Name: "Click", Button: b})
}

func (f *FakeInjector) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.Err
}

// Calls returns a copy of the recorded calls.
func (f *FakeInjector) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Reset forgets the recorded calls.
func (f *FakeInjector) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// FakePointer implements input.Pointer with a settable position.
type FakePointer struct {
	mu  sync.Mutex
	pos input.Point
	err error
}

var _ input.Pointer = (*FakePointer)(nil)

// Set moves the fake pointer.
func (f *FakePointer) Set(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = input.Point{X: x, Y: y}
}

// Fail makes subsequent reads return err; nil restores normal reads.
func (f *FakePointer) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Position returns the current fake position.
func (f *FakePointer) Position() (input.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, f.err
}

// FakeCursorBackend implements cursor.Backend and counts overrides.
type FakeCursorBackend struct {
	mu       sync.Mutex
	applied  []cursor.Shape
	restores int
	Err      error
}

var _ cursor.Backend = (*FakeCursorBackend)(nil)

// Apply records an override.
func (f *FakeCursorBackend) Apply(s cursor.Shape) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, s)
	return f.Err
}

// Restore records a restore.
func (f *FakeCursorBackend) Restore() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restores++
	return nil
}

// Applied returns every shape applied so far.
func (f *FakeCursorBackend) Applied() []cursor.Shape {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cursor.Shape(nil), f.applied...)
}

// Restores returns how many times the override was removed.
func (f *FakeCursorBackend) Restores() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.restores
}

// FakeOverlay records indicator visibility.
type FakeOverlay struct {
	mu      sync.Mutex
	shows   []input.Point
	hides   int
	visible bool
	last    config.Indicator
}

// Show records the indicator being shown at center.
func (f *FakeOverlay) Show(center input.Point, ind config.Indicator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows = append(f.shows, center)
	f.visible = true
	f.last = ind
}

// Hide records the indicator being hidden.
func (f *FakeOverlay) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hides++
	f.visible = false
}

// Shows returns every center the indicator was shown at.
func (f *FakeOverlay) Shows() []input.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]input.Point(nil), f.shows...)
}

// Visible reports whether the indicator is currently shown.
func (f *FakeOverlay) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// FakeStatsSaver records saved snapshots.
type FakeStatsSaver struct {
	mu    sync.Mutex
	saved []stats.Stats
}

// Save records st.
func (f *FakeStatsSaver) Save(st stats.Stats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, st)
	return nil
}

// Saved returns every snapshot saved so far.
func (f *FakeStatsSaver) Saved() []stats.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stats.Stats(nil), f.saved...)
}

// FakeConfig serves a fixed snapshot and counts reloads.
type FakeConfig struct {
	cfg   atomic.Pointer[config.Config]
	loads atomic.Int32
	// OnLoad, if set, supplies the snapshot published by Load.
	OnLoad func() *config.Config
}

// NewFakeConfig serves cfg, or the defaults when cfg is nil.
func NewFakeConfig(cfg *config.Config) *FakeConfig {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	f := &FakeConfig{}
	f.cfg.Store(cfg)
	return f
}

// Get returns the current snapshot.
func (f *FakeConfig) Get() *config.Config {
	return f.cfg.Load()
}

// Set replaces the snapshot.
func (f *FakeConfig) Set(cfg *config.Config) {
	f.cfg.Store(cfg)
}

// Load counts the reload and publishes OnLoad's snapshot if provided.
func (f *FakeConfig) Load() error {
	f.loads.Add(1)
	if f.OnLoad != nil {
		f.cfg.Store(f.OnLoad())
	}
	return nil
}

// Loads returns how many times Load was called.
func (f *FakeConfig) Loads() int {
	return int(f.loads.Load())
}
