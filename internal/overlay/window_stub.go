//go:build !windows

package overlay

import (
	"autoscroll/internal/config"
	"autoscroll/internal/input"
)

// Window is a no-op overlay for platforms without layered windows.
type Window struct{}

// New returns an overlay.
func New() *Window {
	return &Window{}
}

// Start always fails with input.ErrUnsupported; Show and Hide stay no-ops.
func (w *Window) Start() error { return input.ErrUnsupported }

func (w *Window) Show(center input.Point, ind config.Indicator) {}
func (w *Window) Hide()                                         {}
func (w *Window) Close()                                        {}
