//go:build !windows

package cursor

import "errors"

var errNoSystemCursor = errors.New("system cursor override requires Windows")

// SystemBackend does nothing off Windows.
type SystemBackend struct{}

// NewSystemBackend returns the platform backend.
func NewSystemBackend() *SystemBackend {
	return &SystemBackend{}
}

func (b *SystemBackend) Apply(s Shape) error { return errNoSystemCursor }
func (b *SystemBackend) Restore() error      { return nil }
