// Package scrollmath converts pointer displacement into wheel deltas.
package scrollmath

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Shape selects the geometry of a dead zone or indicator
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeCross
)

// String returns the config spelling of the shape
func (s Shape) String() string {
	switch s {
	case ShapeSquare:
		return "square"
	case ShapeCross:
		return "cross"
	default:
		return "circle"
	}
}

// ParseShape parses "circle", "square" or "cross" (case-insensitive)
func ParseShape(v string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "circle":
		return ShapeCircle, nil
	case "square":
		return ShapeSquare, nil
	case "cross":
		return ShapeCross, nil
	}
	return ShapeCircle, fmt.Errorf("unknown shape %q", v)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (s *Shape) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseShape(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (s Shape) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Params holds the scroll-relevant part of the engine configuration.
type Params struct {
	MinScroll      int
	MaxScroll      int
	Sensitivity    float64
	RampExponent   float64
	DeadZoneShape  Shape
	DeadZone       int
	CrossThickness int

	// Touchpad is reserved for touchpad-style emission and does not change
	// the current ramp.
	Touchpad bool
}

// DeadZoneActive reports whether (dx, dy) lies outside the dead zone.
func DeadZoneActive(dx, dy int, p Params) bool {
	switch p.DeadZoneShape {
	case ShapeSquare:
		return abs(dx) > p.DeadZone || abs(dy) > p.DeadZone
	case ShapeCross:
		return abs(dx) > p.CrossThickness || abs(dy) > p.CrossThickness
	default:
		return math.Hypot(float64(dx), float64(dy)) > float64(p.DeadZone)
	}
}

// Ramp maps one displacement component to a signed wheel magnitude.
// The result is zero for a zero delta, otherwise |result| lies in
// [MinScroll, MaxScroll] and carries the sign of delta.
func Ramp(delta int, p Params) int {
	if delta == 0 {
		return 0
	}
	raw := float64(abs(delta)) * p.Sensitivity
	ramped := math.Pow(raw, p.RampExponent)

	var res int
	switch {
	case math.IsNaN(ramped):
		res = p.MinScroll
	case ramped >= float64(p.MaxScroll):
		res = p.MaxScroll
	default:
		res = int(ramped)
	}
	if res < p.MinScroll {
		res = p.MinScroll
	}
	if res > p.MaxScroll {
		res = p.MaxScroll
	}
	if delta < 0 {
		return -res
	}
	return res
}

// Deltas returns the vertical and horizontal wheel deltas for a displacement
// that is already outside the dead zone. Screen-down maps to a negative
// vertical delta. Under ShapeCross an axis whose component stays inside the
// cross arm is forced to zero.
func Deltas(dx, dy int, p Params) (vertical, horizontal int) {
	if p.DeadZoneShape == ShapeCross {
		switch {
		case abs(dx) <= p.CrossThickness:
			return -Ramp(dy, p), 0
		case abs(dy) <= p.CrossThickness:
			return 0, Ramp(dx, p)
		}
	}
	return -Ramp(dy, p), Ramp(dx, p)
}

// ExceedsDrag reports whether a primed gesture moved past the drag slack on
// either axis.
func ExceedsDrag(dx, dy, threshold int) bool {
	return abs(dx) > threshold || abs(dy) > threshold
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
