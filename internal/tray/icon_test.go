package tray

import (
	"encoding/binary"
	"testing"
)

func TestIconLayout(t *testing.T) {
	icon := Icon(false)
	if len(icon) != 1150 {
		t.Fatalf("len = %d, want 1150", len(icon))
	}
	le := binary.LittleEndian
	if le.Uint16(icon[2:]) != 1 || le.Uint16(icon[4:]) != 1 {
		t.Fatalf("bad ICONDIR: % x", icon[:6])
	}
	if size := le.Uint32(icon[14:]); int(size)+22 != len(icon) {
		t.Fatalf("entry size %d does not match payload", size)
	}
	if le.Uint32(icon[22:]) != 40 || le.Uint32(icon[30:]) != 32 {
		t.Fatalf("bad DIB header: % x", icon[22:34])
	}
}

// pixel returns the BGRA bytes of (x, y) counted from the top-left
func pixel(icon []byte, x, y int) []byte {
	off := 62 + ((iconSize-1-y)*iconSize+x)*4
	return icon[off : off+4]
}

func TestIconPausedCross(t *testing.T) {
	normal, paused := Icon(false), Icon(true)

	if p := pixel(normal, 0, 0); p[3] != 0 {
		t.Errorf("corner should be transparent, got % x", p)
	}
	if p := pixel(normal, 7, 8); p[0] != 255 || p[1] != 255 || p[2] != 255 {
		t.Errorf("centre dot should be white, got % x", p)
	}
	if p := pixel(paused, 4, 4); p[2] != 220 || p[0] != 30 {
		t.Errorf("paused icon should have a red diagonal at (4,4), got % x", p)
	}
	if p := pixel(normal, 4, 4); p[2] == 220 {
		t.Error("normal icon has the paused cross")
	}
}
