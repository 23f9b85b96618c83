//go:build windows

package input

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var procSendInput = user32.NewProc("SendInput")

const (
	inputMouse = 0

	mouseeventfMiddleDown = 0x0020
	mouseeventfMiddleUp   = 0x0040
	mouseeventfXDown      = 0x0080
	mouseeventfXUp        = 0x0100
	mouseeventfWheel      = 0x0800
	mouseeventfHWheel     = 0x1000

	xbutton1 = 0x0001
	xbutton2 = 0x0002
)

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// inputRecord mirrors INPUT for the mouse arm of the union, which is the
// largest member, so natural alignment yields the Win32 size on both 386
// and amd64.
type inputRecord struct {
	Type uint32
	Mi   mouseInput
}

// SendInputInjector emits synthetic wheel and button events through SendInput.
// Events it produces carry LLMHF_INJECTED and are ignored by our own hook.
type SendInputInjector struct{}

// NewInjector returns the platform injector.
func NewInjector() *SendInputInjector {
	return &SendInputInjector{}
}

// Wheel emits one vertical wheel event. Positive scrolls content up.
func (s *SendInputInjector) Wheel(delta int) error {
	return send(wheelInput(mouseeventfWheel, delta))
}

// HWheel emits one horizontal wheel event. Positive scrolls right.
func (s *SendInputInjector) HWheel(delta int) error {
	return send(wheelInput(mouseeventfHWheel, delta))
}

// Click re-emits a full press and release of b.
func (s *SendInputInjector) Click(b Button) error {
	var down, up, data uint32
	switch b {
	case ButtonMiddle:
		down, up = mouseeventfMiddleDown, mouseeventfMiddleUp
	case ButtonX1:
		down, up, data = mouseeventfXDown, mouseeventfXUp, xbutton1
	case ButtonX2:
		down, up, data = mouseeventfXDown, mouseeventfXUp, xbutton2
	default:
		return fmt.Errorf("click: unsupported button %s", b)
	}
	return send(
		inputRecord{Type: inputMouse, Mi: mouseInput{MouseData: data, DwFlags: down}},
		inputRecord{Type: inputMouse, Mi: mouseInput{MouseData: data, DwFlags: up}},
	)
}

func wheelInput(flag uint32, delta int) inputRecord {
	return inputRecord{
		Type: inputMouse,
		Mi: mouseInput{
			MouseData: uint32(int32(delta)),
			DwFlags:   flag,
		},
	}
}

func send(inputs ...inputRecord) error {
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		if err == windows.ERROR_SUCCESS {
			err = errors.New("input blocked by another thread")
		}
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}
