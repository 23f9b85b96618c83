// Package autostart registers the program to start at user logon.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// valueName is the entry name under the Run key
const valueName = "autoscroll"

// ErrUnsupported is returned on platforms without a Run key.
var ErrUnsupported = errors.New("autostart is only supported on Windows")

// Enable starts the current executable at logon, passing args through
func Enable(args ...string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return enable(commandLine(execPath, args))
}

// Disable removes the logon entry. Removing a missing entry is not an error.
func Disable() error {
	return disable()
}

// IsEnabled reports whether a logon entry exists for this program
func IsEnabled() bool {
	return isEnabled()
}

// commandLine quotes every part that contains a space
func commandLine(exe string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, p := range append([]string{exe}, args...) {
		if strings.ContainsAny(p, " \t") {
			p = `"` + p + `"`
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
