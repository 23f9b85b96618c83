//go:build windows

// Package osutils wraps the small pieces of desktop integration the tray
// needs: dialogs, the clipboard, opening files, and privilege checks.
package osutils

import (
	"errors"
	"fmt"
	"log"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// IsAdmin checks if the current process has administrative privileges
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token)
	if err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err = windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}

// ShowMessage shows a modal information box
func ShowMessage(title, text string) {
	messageBox(title, text, win.MB_OK|win.MB_ICONINFORMATION)
}

// ShowWarning shows a modal warning box
func ShowWarning(title, text string) {
	messageBox(title, text, win.MB_OK|win.MB_ICONWARNING)
}

// Confirm asks a yes/no question and reports whether the user chose yes
func Confirm(title, text string) bool {
	return messageBox(title, text, win.MB_YESNO|win.MB_ICONINFORMATION) == win.IDYES
}

func messageBox(title, text string, flags uint32) int32 {
	t, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return 0
	}
	c, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0
	}
	return win.MessageBox(0, t, c, flags)
}

// CopyText places text on the clipboard as Unicode
func CopyText(text string) error {
	utf16, err := windows.UTF16FromString(text)
	if err != nil {
		return err
	}
	size := uintptr(len(utf16)) * unsafe.Sizeof(utf16[0])

	if !win.OpenClipboard(0) {
		return errors.New("clipboard is in use")
	}
	defer win.CloseClipboard()

	if !win.EmptyClipboard() {
		return errors.New("EmptyClipboard failed")
	}

	hMem := win.GlobalAlloc(win.GMEM_MOVEABLE, size)
	if hMem == 0 {
		return errors.New("GlobalAlloc failed")
	}
	p := win.GlobalLock(hMem)
	if p == nil {
		win.GlobalFree(hMem)
		return errors.New("GlobalLock failed")
	}
	win.MoveMemory(p, unsafe.Pointer(&utf16[0]), size)
	win.GlobalUnlock(hMem)

	// the clipboard owns the memory once SetClipboardData succeeds
	if win.SetClipboardData(win.CF_UNICODETEXT, win.HANDLE(hMem)) == 0 {
		win.GlobalFree(hMem)
		return errors.New("SetClipboardData failed")
	}
	return nil
}

// OpenFile opens path in its associated editor, falling back to the default
// "open" handler when no editor is registered
func OpenFile(path string) error {
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	const swShowNormal = 1

	for _, verb := range []string{"edit", "open"} {
		v, _ := windows.UTF16PtrFromString(verb)
		if err = windows.ShellExecute(0, v, file, nil, nil, swShowNormal); err == nil {
			return nil
		}
		log.Printf("OS: ShellExecute(%s, %s) failed: %v", verb, path, err)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
