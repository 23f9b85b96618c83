package tray

import (
	"encoding/binary"
	"math"
)

const iconSize = 16

type rgba struct{ r, g, b, a uint8 }

var (
	iconBody   = rgba{60, 60, 60, 255}
	iconArrow  = rgba{255, 255, 255, 255}
	iconPaused = rgba{220, 30, 30, 255}
)

// Icon renders the 16x16 32-bit tray icon: a dark disc with up and down
// arrows around a centre dot. The paused variant adds a red cross.
func Icon(paused bool) []byte {
	var px [iconSize][iconSize]rgba

	const c = (iconSize - 1) / 2.0
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			if math.Hypot(float64(x)-c, float64(y)-c) <= 7.6 {
				px[y][x] = iconBody
			}
		}
	}

	// arrows: rows 2..4 point up, rows 11..13 point down
	for i := 0; i < 3; i++ {
		for x := 7 - i; x <= 8+i; x++ {
			px[2+i][x] = iconArrow
			px[13-i][x] = iconArrow
		}
	}
	for y := 7; y <= 8; y++ {
		px[y][7], px[y][8] = iconArrow, iconArrow
	}

	if paused {
		for i := 1; i < iconSize-1; i++ {
			for _, x := range []int{i, i + 1} {
				if x < iconSize-1 {
					px[i][x] = iconPaused
					px[i][iconSize-1-x] = iconPaused
				}
			}
		}
	}

	return encodeICO(&px)
}

// encodeICO wraps a single bottom-up BGRA image in an ICO container with an
// all-zero AND mask, so transparency comes from alpha
func encodeICO(px *[iconSize][iconSize]rgba) []byte {
	const (
		headerLen = 6 + 16
		dibLen    = 40
		pixelLen  = iconSize * iconSize * 4
		maskLen   = iconSize * 4 // 16 rows of 2 bytes padded to 4
		imageLen  = dibLen + pixelLen + maskLen
	)
	out := make([]byte, headerLen+imageLen)
	le := binary.LittleEndian

	// ICONDIR
	le.PutUint16(out[2:], 1) // type: icon
	le.PutUint16(out[4:], 1) // count

	// ICONDIRENTRY
	out[6], out[7] = iconSize, iconSize
	le.PutUint16(out[10:], 1)  // planes
	le.PutUint16(out[12:], 32) // bpp
	le.PutUint32(out[14:], imageLen)
	le.PutUint32(out[18:], headerLen)

	// BITMAPINFOHEADER, height doubled for the mask
	dib := out[headerLen:]
	le.PutUint32(dib[0:], dibLen)
	le.PutUint32(dib[4:], iconSize)
	le.PutUint32(dib[8:], iconSize*2)
	le.PutUint16(dib[12:], 1)
	le.PutUint16(dib[14:], 32)
	le.PutUint32(dib[20:], pixelLen+maskLen)

	pixels := dib[dibLen:]
	for y := 0; y < iconSize; y++ {
		row := pixels[(iconSize-1-y)*iconSize*4:]
		for x := 0; x < iconSize; x++ {
			p := px[y][x]
			row[x*4+0], row[x*4+1], row[x*4+2], row[x*4+3] = p.b, p.g, p.r, p.a
		}
	}
	return out
}
