//go:build windows

package cursor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procLoadCursor           = user32.NewProc("LoadCursorW")
	procLoadCursorFromFile   = user32.NewProc("LoadCursorFromFileW")
	procCopyIcon             = user32.NewProc("CopyIcon")
	procSetSystemCursor      = user32.NewProc("SetSystemCursor")
	procSystemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

const (
	ocrNormal = 32512

	idcSizeNWSE = 32642
	idcSizeNESW = 32643
	idcSizeWE   = 32644
	idcSizeNS   = 32645
	idcSizeAll  = 32646

	spiSetCursors  = 0x0057
	spifSendChange = 0x0002
)

// sources lists the large cursor file under %SystemRoot%\Cursors for each
// shape and the stock cursor used when the file cannot be loaded.
var sources = map[Shape]struct {
	file  string
	stock uintptr
}{
	All:  {"", idcSizeAll},
	NS:   {"lns.cur", idcSizeNS},
	WE:   {"lwe.cur", idcSizeWE},
	NWSE: {"lnwse.cur", idcSizeNWSE},
	NESW: {"lnesw.cur", idcSizeNESW},
}

// SystemBackend swaps the OCR_NORMAL system cursor.
type SystemBackend struct {
	once    sync.Once
	handles map[Shape]uintptr
}

// NewSystemBackend returns the Win32 backend. Cursor resources are loaded on
// first use.
func NewSystemBackend() *SystemBackend {
	return &SystemBackend{}
}

func (b *SystemBackend) load() {
	b.handles = make(map[Shape]uintptr, len(sources))
	dir := filepath.Join(os.Getenv("SystemRoot"), "Cursors")
	for shape, src := range sources {
		var h uintptr
		if src.file != "" {
			if p, err := windows.UTF16PtrFromString(filepath.Join(dir, src.file)); err == nil {
				h, _, _ = procLoadCursorFromFile.Call(uintptr(unsafe.Pointer(p)))
			}
		}
		if h == 0 {
			h, _, _ = procLoadCursor.Call(0, src.stock)
		}
		b.handles[shape] = h
	}
}

// Apply installs a copy of the cursor for s as the normal arrow.
// SetSystemCursor destroys the handle it is given, hence the copy.
func (b *SystemBackend) Apply(s Shape) error {
	b.once.Do(b.load)
	h := b.handles[s]
	if h == 0 {
		return fmt.Errorf("no cursor resource for %s", s)
	}
	cp, _, err := procCopyIcon.Call(h)
	if cp == 0 {
		return fmt.Errorf("CopyIcon: %w", err)
	}
	if ok, _, err := procSetSystemCursor.Call(cp, ocrNormal); ok == 0 {
		return fmt.Errorf("SetSystemCursor: %w", err)
	}
	return nil
}

// Restore reloads the user's cursor scheme.
func (b *SystemBackend) Restore() error {
	if ok, _, err := procSystemParametersInfo.Call(spiSetCursors, 0, 0, spifSendChange); ok == 0 {
		return fmt.Errorf("SystemParametersInfo(SPI_SETCURSORS): %w", err)
	}
	return nil
}
