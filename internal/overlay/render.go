// Package overlay draws the scroll anchor indicator in a click-through,
// always-on-top layered window.
package overlay

import (
	"math"

	"autoscroll/internal/config"
	"autoscroll/internal/scrollmath"
)

// Bitmap is a square, top-down, premultiplied BGRA image ready for
// UpdateLayeredWindow.
type Bitmap struct {
	Side int
	Pix  []byte
}

// At returns the premultiplied B, G, R, A bytes at (x, y).
func (b *Bitmap) At(x, y int) (uint8, uint8, uint8, uint8) {
	i := (y*b.Side + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// samples per axis for coverage anti-aliasing
const subsamples = 4

// Render rasterizes ind. The indicator spans 2*Size pixels centred in a
// bitmap with a 2 pixel margin on each side.
func Render(ind config.Indicator) *Bitmap {
	s := ind.Size
	if s < 1 {
		s = 1
	}
	side := s*2 + 4
	bmp := &Bitmap{Side: side, Pix: make([]byte, side*side*4)}

	mid := float64(side) / 2
	inside := shapeTest(ind, float64(s))

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			hits := 0
			for sy := 0; sy < subsamples; sy++ {
				for sx := 0; sx < subsamples; sx++ {
					px := float64(x) + (float64(sx)+0.5)/subsamples - mid
					py := float64(y) + (float64(sy)+0.5)/subsamples - mid
					if inside(px, py) {
						hits++
					}
				}
			}
			if hits == 0 {
				continue
			}
			alpha := float64(ind.A) * float64(hits) / (subsamples * subsamples)
			i := (y*side + x) * 4
			bmp.Pix[i+0] = premul(ind.B, alpha)
			bmp.Pix[i+1] = premul(ind.G, alpha)
			bmp.Pix[i+2] = premul(ind.R, alpha)
			bmp.Pix[i+3] = uint8(math.Round(alpha))
		}
	}
	return bmp
}

// shapeTest returns a predicate over coordinates relative to the centre
func shapeTest(ind config.Indicator, s float64) func(x, y float64) bool {
	half := ind.Thickness / 2
	if half < 0.5 {
		half = 0.5
	}

	switch ind.Shape {
	case scrollmath.ShapeSquare:
		if ind.Filled {
			return func(x, y float64) bool {
				return math.Abs(x) <= s && math.Abs(y) <= s
			}
		}
		return func(x, y float64) bool {
			m := math.Max(math.Abs(x), math.Abs(y))
			return math.Abs(m-s) <= half
		}

	case scrollmath.ShapeCross:
		t := float64(ind.CrossThickness)
		return func(x, y float64) bool {
			ax, ay := math.Abs(x), math.Abs(y)
			return (ax <= s && ay <= t) || (ax <= t && ay <= s)
		}

	default:
		if ind.Filled {
			return func(x, y float64) bool {
				return math.Hypot(x, y) <= s
			}
		}
		return func(x, y float64) bool {
			return math.Abs(math.Hypot(x, y)-s) <= half
		}
	}
}

func premul(c uint8, alpha float64) uint8 {
	return uint8(math.Round(float64(c) * alpha / 255))
}
