//go:build windows

package input

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle     = kernel32.NewProc("GetModuleHandleW")
	procGetCurrentThreadID  = kernel32.NewProc("GetCurrentThreadId")
)

const (
	hcAction = 0

	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit        = 0x0012
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmMouseMove   = 0x0200
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C

	llmhfInjected = 0x01
	llkhfInjected = 0x10
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msllHookStruct struct {
	Point       struct{ X, Y int32 }
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type winMsg struct {
	Hwnd    syscall.Handle
	Message uint32
	Wparam  uintptr
	Lparam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// Only one hook pair can be live per process; the callbacks are created once
// because the runtime never frees them.
var (
	active       atomic.Pointer[Hook]
	callbackOnce sync.Once
	mouseCB      uintptr
	keyboardCB   uintptr
)

// Hook installs system-wide low-level mouse and keyboard hooks on a dedicated
// OS thread and forwards every event to a Handler.
type Hook struct {
	handler  Handler
	threadID uint32
	done     chan struct{}
}

// NewHook creates a hook that reports to h. Nothing is installed until Start.
func NewHook(h Handler) *Hook {
	return &Hook{handler: h}
}

// Start installs both hooks and starts the message pump. It returns once the
// hooks are live, or with an error if either could not be registered.
func (h *Hook) Start() error {
	if !active.CompareAndSwap(nil, h) {
		return errors.New("input hook already running")
	}
	callbackOnce.Do(func() {
		mouseCB = syscall.NewCallback(mouseProc)
		keyboardCB = syscall.NewCallback(keyboardProc)
	})

	h.done = make(chan struct{})
	errc := make(chan error, 1)

	// Hooks must be registered in the same thread that runs the message loop
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(h.done)

		tid, _, _ := procGetCurrentThreadID.Call()
		h.threadID = uint32(tid)

		hMod, _, _ := procGetModuleHandle.Call(0)
		mouseHook, _, err := procSetWindowsHookEx.Call(whMouseLL, mouseCB, hMod, 0)
		if mouseHook == 0 {
			errc <- fmt.Errorf("install mouse hook: %w", err)
			return
		}
		defer procUnhookWindowsHookEx.Call(mouseHook)

		keyboardHook, _, err := procSetWindowsHookEx.Call(whKeyboardLL, keyboardCB, hMod, 0)
		if keyboardHook == 0 {
			errc <- fmt.Errorf("install keyboard hook: %w", err)
			return
		}
		defer procUnhookWindowsHookEx.Call(keyboardHook)

		errc <- nil
		log.Println("Input Hook: low-level mouse and keyboard hooks installed")

		var msg winMsg
		for {
			ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) <= 0 {
				break
			}
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			procDispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
		}
		log.Println("Input Hook: message loop exited, hooks removed")
	}()

	if err := <-errc; err != nil {
		<-h.done
		active.CompareAndSwap(h, nil)
		return err
	}
	return nil
}

// Stop removes the hooks and waits for the hook thread to exit.
func (h *Hook) Stop() {
	if h.done == nil {
		return
	}
	procPostThreadMessage.Call(uintptr(h.threadID), wmQuit, 0, 0)
	<-h.done
	active.CompareAndSwap(h, nil)
}

func mouseProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == hcAction {
		if h := active.Load(); h != nil && h.mouse(wParam, lParam) {
			return 1
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == hcAction {
		if h := active.Load(); h != nil && h.key(wParam, lParam) {
			return 1
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// mouse translates one notification. A panic in the handler degrades to
// passing the event through.
func (h *Hook) mouse(wParam, lParam uintptr) (suppress bool) {
	defer func() {
		if recover() != nil {
			suppress = false
		}
	}()

	ms := (*msllHookStruct)(unsafe.Pointer(lParam))
	ev := MouseEvent{
		X:        int(ms.Point.X),
		Y:        int(ms.Point.Y),
		Injected: ms.Flags&llmhfInjected != 0,
	}
	switch wParam {
	case wmMouseMove:
		ev.Action = MouseMove
	case wmMButtonDown:
		ev.Action, ev.Button = MouseDown, ButtonMiddle
	case wmMButtonUp:
		ev.Action, ev.Button = MouseUp, ButtonMiddle
	case wmXButtonDown, wmXButtonUp:
		ev.Action = MouseDown
		if wParam == wmXButtonUp {
			ev.Action = MouseUp
		}
		ev.Button = ButtonX2
		if ms.MouseData>>16 == 1 {
			ev.Button = ButtonX1
		}
	default:
		return false
	}
	return h.handler.Mouse(ev)
}

func (h *Hook) key(wParam, lParam uintptr) (suppress bool) {
	defer func() {
		if recover() != nil {
			suppress = false
		}
	}()

	kbd := (*kbdllHookStruct)(unsafe.Pointer(lParam))
	var down bool
	switch wParam {
	case wmKeyDown, wmSysKeyDown:
		down = true
	case wmKeyUp, wmSysKeyUp:
	default:
		return false
	}
	return h.handler.Key(KeyEvent{
		Code:     kbd.VkCode,
		Down:     down,
		Injected: kbd.Flags&llkhfInjected != 0,
	})
}
