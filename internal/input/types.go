// Package input provides system-wide input capture and synthetic input
// injection.
package input

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupported is returned on platforms without low-level input support.
var ErrUnsupported = errors.New("input hooks are only supported on Windows")

// Point is a screen position in physical pixels.
type Point struct {
	X, Y int
}

// Button identifies a mouse button that can act as the scroll trigger.
type Button int

const (
	ButtonNone Button = iota
	ButtonMiddle
	ButtonX1
	ButtonX2
)

// String returns the config spelling of the button
func (b Button) String() string {
	switch b {
	case ButtonMiddle:
		return "middle"
	case ButtonX1:
		return "x1"
	case ButtonX2:
		return "x2"
	default:
		return "none"
	}
}

// ParseButton parses "none", "middle", "x1"/"mouse4" or "x2"/"mouse5"
func ParseButton(v string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "off", "":
		return ButtonNone, nil
	case "middle", "mouse3":
		return ButtonMiddle, nil
	case "x1", "mouse4":
		return ButtonX1, nil
	case "x2", "mouse5":
		return ButtonX2, nil
	}
	return ButtonNone, fmt.Errorf("unknown mouse button %q", v)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (b *Button) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseButton(raw)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (b Button) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

// MouseAction is the kind of a captured mouse event
type MouseAction int

const (
	MouseMove MouseAction = iota
	MouseDown
	MouseUp
)

// MouseEvent is a translated low-level mouse notification.
type MouseEvent struct {
	Action   MouseAction
	Button   Button // ButtonNone for moves and buttons we do not track
	X, Y     int
	Injected bool // synthesized by SendInput, ours or another program's
}

// KeyEvent is a translated low-level keyboard notification.
type KeyEvent struct {
	Code     uint32 // virtual-key code
	Down     bool
	Injected bool
}

// Handler decides, synchronously on the hook thread, whether a physical
// event is consumed. Implementations must return quickly and must not block.
type Handler interface {
	Mouse(ev MouseEvent) (suppress bool)
	Key(ev KeyEvent) (suppress bool)
}

// Injector emits synthetic input.
type Injector interface {
	Wheel(delta int) error
	HWheel(delta int) error
	Click(b Button) error
}

// Pointer reads the current cursor position.
type Pointer interface {
	Position() (Point, error)
}
