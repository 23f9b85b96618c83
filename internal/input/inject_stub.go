//go:build !windows

package input

// SendInputInjector is a no-op on platforms without SendInput.
type SendInputInjector struct{}

// NewInjector returns the platform injector.
func NewInjector() *SendInputInjector {
	return &SendInputInjector{}
}

func (s *SendInputInjector) Wheel(delta int) error  { return ErrUnsupported }
func (s *SendInputInjector) HWheel(delta int) error { return ErrUnsupported }
func (s *SendInputInjector) Click(b Button) error   { return ErrUnsupported }
