package scrollmath

import "math"

// Direction classifies motion for cursor feedback.
type Direction int

const (
	// DirNeutral means active but inside the dead zone.
	DirNeutral Direction = iota
	DirHorizontal
	DirVertical
	// DirDiagonalDown covers ↘ and ↖ (dx and dy share a sign).
	DirDiagonalDown
	// DirDiagonalUp covers ↗ and ↙.
	DirDiagonalUp
)

func (d Direction) String() string {
	switch d {
	case DirHorizontal:
		return "horizontal"
	case DirVertical:
		return "vertical"
	case DirDiagonalDown:
		return "diagonal-down"
	case DirDiagonalUp:
		return "diagonal-up"
	default:
		return "neutral"
	}
}

// Classify buckets the angle of (dx, dy) into 45° sectors centred on the
// axes and diagonals. Callers only classify outside the dead zone.
func Classify(dx, dy int) Direction {
	angle := math.Abs(math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi)
	switch {
	case angle <= 22.5 || angle >= 157.5:
		return DirHorizontal
	case angle >= 67.5 && angle <= 112.5:
		return DirVertical
	case (dx > 0 && dy > 0) || (dx < 0 && dy < 0):
		return DirDiagonalDown
	default:
		return DirDiagonalUp
	}
}
