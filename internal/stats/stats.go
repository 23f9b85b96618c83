// Package stats keeps the lifetime scroll counters and their on-disk file.
package stats

import (
	"fmt"
	"sync/atomic"
)

// Stats is a point-in-time copy of the scroll counters.
type Stats struct {
	TotalPixels   uint64 `yaml:"total_pixels"`
	Up            uint64 `yaml:"dir_up"`
	Down          uint64 `yaml:"dir_down"`
	Left          uint64 `yaml:"dir_left"`
	Right         uint64 `yaml:"dir_right"`
	SessionPixels uint64 `yaml:"session_pixels"`
}

// Meters converts the total to virtual metres, assuming 96 pixels per inch
func (s Stats) Meters() float64 {
	return float64(s.TotalPixels) * 0.0254 / 96.0
}

// Report renders the counters for the "View Stats" dialog
func (s Stats) Report() string {
	return fmt.Sprintf("Autoscroll Statistics\n\n"+
		"Total Scrolled: %.2f virtual metres\n"+
		"Total Pixels: %d\n\n"+
		"Session Pixels (Unuploaded): %d\n\n"+
		"Direction Breakdown:\n"+
		"  Up: %d\n  Down: %d\n  Left: %d\n  Right: %d",
		s.Meters(), s.TotalPixels, s.SessionPixels,
		s.Up, s.Down, s.Left, s.Right)
}

// UploadPrompt is the body of the "Upload Stats" confirmation dialog
func (s Stats) UploadPrompt() string {
	return fmt.Sprintf("To contribute to the Global Counter:\n\n"+
		"1. Click 'Yes' to copy the upload command.\n"+
		"2. Paste it into a PowerShell window.\n\n"+
		"Pending Upload: %d pixels\n\n"+
		"NOTE: The application will automatically restart upon successful upload.",
		s.SessionPixels)
}

// UploadCommand builds the PowerShell one-liner that uploads statsPath
func UploadCommand(statsPath, scriptURL string) string {
	return fmt.Sprintf("powershell -NoProfile -Command \"& { `$WASPath='%s'; irm %s | iex }\"",
		statsPath, scriptURL)
}

// Tally accumulates counters from the sampler without locks. Counters only
// grow; the file is the place where they are reset.
type Tally struct {
	total   atomic.Uint64
	up      atomic.Uint64
	down    atomic.Uint64
	left    atomic.Uint64
	right   atomic.Uint64
	session atomic.Uint64
}

// NewTally starts a tally from previously saved counters
func NewTally(seed Stats) *Tally {
	t := &Tally{}
	t.total.Store(seed.TotalPixels)
	t.up.Store(seed.Up)
	t.down.Store(seed.Down)
	t.left.Store(seed.Left)
	t.right.Store(seed.Right)
	t.session.Store(seed.SessionPixels)
	return t
}

// Record adds one sampling cycle. vertical and horizontal are the logical
// wheel deltas before any natural-scrolling inversion: positive vertical is
// up, positive horizontal is right.
func (t *Tally) Record(vertical, horizontal int) {
	v, h := magnitude(vertical), magnitude(horizontal)
	if v+h == 0 {
		return
	}
	t.total.Add(v + h)
	t.session.Add(v + h)

	switch {
	case vertical > 0:
		t.up.Add(v)
	case vertical < 0:
		t.down.Add(v)
	}
	switch {
	case horizontal > 0:
		t.right.Add(h)
	case horizontal < 0:
		t.left.Add(h)
	}
}

// Snapshot copies the counters
func (t *Tally) Snapshot() Stats {
	return Stats{
		TotalPixels:   t.total.Load(),
		Up:            t.up.Load(),
		Down:          t.down.Load(),
		Left:          t.left.Load(),
		Right:         t.right.Load(),
		SessionPixels: t.session.Load(),
	}
}

func magnitude(v int) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
