//go:build !windows

package autostart

func enable(cmd string) error { return ErrUnsupported }
func disable() error          { return ErrUnsupported }
func isEnabled() bool         { return false }
