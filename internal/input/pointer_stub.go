//go:build !windows

package input

// CursorPointer is unavailable off Windows.
type CursorPointer struct{}

// NewPointer returns the platform pointer reader.
func NewPointer() *CursorPointer {
	return &CursorPointer{}
}

func (CursorPointer) Position() (Point, error) {
	return Point{}, ErrUnsupported
}
