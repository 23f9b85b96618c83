//go:build windows

package overlay

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"autoscroll/internal/config"
	"autoscroll/internal/input"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procRegisterClassEx     = user32.NewProc("RegisterClassExW")
	procCreateWindowEx      = user32.NewProc("CreateWindowExW")
	procDefWindowProc       = user32.NewProc("DefWindowProcW")
	procDestroyWindow       = user32.NewProc("DestroyWindow")
	procShowWindow          = user32.NewProc("ShowWindow")
	procUpdateLayeredWindow = user32.NewProc("UpdateLayeredWindow")
	procGetDC               = user32.NewProc("GetDC")
	procReleaseDC           = user32.NewProc("ReleaseDC")
	procPostMessage         = user32.NewProc("PostMessageW")
	procPostQuitMessage     = user32.NewProc("PostQuitMessage")
	procGetMessage          = user32.NewProc("GetMessageW")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")

	gdi32                  = windows.NewLazySystemDLL("gdi32.dll")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procDeleteDC           = gdi32.NewProc("DeleteDC")

	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle = kernel32.NewProc("GetModuleHandleW")
)

const (
	wsPopup = 0x80000000

	wsExTopmost     = 0x00000008
	wsExTransparent = 0x00000020
	wsExToolWindow  = 0x00000080
	wsExLayered     = 0x00080000
	wsExNoActivate  = 0x08000000

	swHide           = 0
	swShowNoActivate = 4

	wmDestroy = 0x0002
	wmClose   = 0x0010
	wmApp     = 0x8000
	wmShow    = wmApp + 1
	wmHide    = wmApp + 2

	ulwAlpha   = 0x02
	acSrcOver  = 0x00
	acSrcAlpha = 0x01

	dibRGBColors = 0
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type point struct{ X, Y int32 }

type size struct{ CX, CY int32 }

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

type winMsg struct {
	Hwnd    windows.HWND
	Message uint32
	Wparam  uintptr
	Lparam  uintptr
	Time    uint32
	Pt      point
}

// Window is the indicator overlay. It owns a dedicated OS thread running the
// window's message loop; Show and Hide only post messages to it.
type Window struct {
	mu      sync.Mutex
	hwnd    uintptr
	center  input.Point
	ind     config.Indicator
	cached  *Bitmap
	cacheOf config.Indicator
	done    chan struct{}
}

// New returns an overlay. Call Start before Show.
func New() *Window {
	return &Window{}
}

// Start creates the window on its own thread.
func (w *Window) Start() error {
	errc := make(chan error, 1)
	w.done = make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(w.done)

		hwnd, err := w.create()
		if err != nil {
			errc <- err
			return
		}
		w.mu.Lock()
		w.hwnd = hwnd
		w.mu.Unlock()
		errc <- nil

		var msg winMsg
		for {
			ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) <= 0 {
				break
			}
			procDispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
		}
	}()

	return <-errc
}

func (w *Window) create() (uintptr, error) {
	hInst, _, _ := procGetModuleHandle.Call(0)
	className, _ := windows.UTF16PtrFromString("AutoscrollOverlay")

	wc := wndClassEx{
		WndProc:   windows.NewCallback(w.wndProc),
		Instance:  windows.Handle(hInst),
		ClassName: className,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))
	if atom, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
		return 0, fmt.Errorf("RegisterClassEx: %w", err)
	}

	hwnd, _, err := procCreateWindowEx.Call(
		wsExLayered|wsExTransparent|wsExToolWindow|wsExTopmost|wsExNoActivate,
		uintptr(unsafe.Pointer(className)),
		0,
		wsPopup,
		0, 0, 0, 0,
		0, 0, hInst, 0,
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx: %w", err)
	}
	return hwnd, nil
}

// Show centres the indicator on center.
func (w *Window) Show(center input.Point, ind config.Indicator) {
	w.mu.Lock()
	w.center, w.ind = center, ind
	hwnd := w.hwnd
	w.mu.Unlock()
	if hwnd != 0 {
		procPostMessage.Call(hwnd, wmShow, 0, 0)
	}
}

// Hide removes the indicator from the screen.
func (w *Window) Hide() {
	w.mu.Lock()
	hwnd := w.hwnd
	w.mu.Unlock()
	if hwnd != 0 {
		procPostMessage.Call(hwnd, wmHide, 0, 0)
	}
}

// Close destroys the window and waits for its thread to exit.
func (w *Window) Close() {
	w.mu.Lock()
	hwnd := w.hwnd
	w.mu.Unlock()
	if hwnd == 0 || w.done == nil {
		return
	}
	procPostMessage.Call(hwnd, wmClose, 0, 0)
	<-w.done
}

func (w *Window) wndProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	switch msg {
	case wmShow:
		if err := w.present(hwnd); err != nil {
			log.Printf("Overlay: %v", err)
		}
		return 0
	case wmHide:
		procShowWindow.Call(hwnd, swHide)
		return 0
	case wmClose:
		procDestroyWindow.Call(hwnd)
		return 0
	case wmDestroy:
		w.mu.Lock()
		w.hwnd = 0
		w.mu.Unlock()
		procPostQuitMessage.Call(0)
		return 0
	}
	ret, _, _ := procDefWindowProc.Call(hwnd, msg, wParam, lParam)
	return ret
}

// present pushes the rendered indicator into the layered window and shows it
func (w *Window) present(hwnd uintptr) error {
	w.mu.Lock()
	center, ind := w.center, w.ind
	if w.cached == nil || w.cacheOf != ind {
		w.cached, w.cacheOf = Render(ind), ind
	}
	bmp := w.cached
	w.mu.Unlock()

	screen, _, _ := procGetDC.Call(0)
	if screen == 0 {
		return errors.New("GetDC failed")
	}
	defer procReleaseDC.Call(0, screen)

	mem, _, _ := procCreateCompatibleDC.Call(screen)
	if mem == 0 {
		return errors.New("CreateCompatibleDC failed")
	}
	defer procDeleteDC.Call(mem)

	bi := bitmapInfoHeader{
		Width:    int32(bmp.Side),
		Height:   -int32(bmp.Side), // top-down
		Planes:   1,
		BitCount: 32,
	}
	bi.Size = uint32(unsafe.Sizeof(bi))

	var bits unsafe.Pointer
	dib, _, err := procCreateDIBSection.Call(mem, uintptr(unsafe.Pointer(&bi)), dibRGBColors,
		uintptr(unsafe.Pointer(&bits)), 0, 0)
	if dib == 0 || bits == nil {
		return fmt.Errorf("CreateDIBSection: %w", err)
	}
	defer procDeleteObject.Call(dib)

	copy(unsafe.Slice((*byte)(bits), len(bmp.Pix)), bmp.Pix)

	old, _, _ := procSelectObject.Call(mem, dib)
	defer procSelectObject.Call(mem, old)

	half := int32(bmp.Side / 2)
	dst := point{X: int32(center.X) - half, Y: int32(center.Y) - half}
	src := point{}
	sz := size{CX: int32(bmp.Side), CY: int32(bmp.Side)}
	blend := blendFunction{BlendOp: acSrcOver, SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}

	ok, _, err := procUpdateLayeredWindow.Call(hwnd, screen,
		uintptr(unsafe.Pointer(&dst)), uintptr(unsafe.Pointer(&sz)),
		mem, uintptr(unsafe.Pointer(&src)), 0,
		uintptr(unsafe.Pointer(&blend)), ulwAlpha)
	if ok == 0 {
		return fmt.Errorf("UpdateLayeredWindow: %w", err)
	}
	procShowWindow.Call(hwnd, swShowNoActivate)
	return nil
}
