//go:build !windows

package input

// Hook is a no-op on platforms without low-level hooks.
type Hook struct{}

// NewHook creates a hook that reports to h.
func NewHook(h Handler) *Hook {
	return &Hook{}
}

// Start always fails with ErrUnsupported.
func (h *Hook) Start() error {
	return ErrUnsupported
}

// Stop does nothing.
func (h *Hook) Stop() {}
