//go:build !windows

// Package osutils wraps the small pieces of desktop integration the tray
// needs: dialogs, the clipboard, opening files, and privilege checks.
package osutils

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
)

// IsAdmin is a stub for non-Windows platforms
func IsAdmin() bool {
	return false
}

// ShowMessage logs the message; there is no native dialog here
func ShowMessage(title, text string) {
	log.Printf("%s: %s", title, text)
}

// ShowWarning logs the warning
func ShowWarning(title, text string) {
	log.Printf("%s: %s", title, text)
}

// Confirm always declines
func Confirm(title, text string) bool {
	log.Printf("%s: %s (declined, no dialog support)", title, text)
	return false
}

// CopyText is not supported off Windows
func CopyText(text string) error {
	return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
}

// OpenFile hands path to the desktop's opener
func OpenFile(path string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	return exec.Command(opener, path).Start()
}
