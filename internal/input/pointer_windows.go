//go:build windows

package input

import (
	"errors"

	"github.com/lxn/win"
)

// CursorPointer reads the system cursor position.
type CursorPointer struct{}

// NewPointer returns the platform pointer reader.
func NewPointer() *CursorPointer {
	return &CursorPointer{}
}

// Position returns the cursor position in screen coordinates.
func (CursorPointer) Position() (Point, error) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return Point{}, errors.New("GetCursorPos failed")
	}
	return Point{X: int(pt.X), Y: int(pt.Y)}, nil
}
