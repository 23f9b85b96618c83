package cursor_test

import (
	"errors"
	"reflect"
	"testing"

	"autoscroll/internal/cursor"
	"autoscroll/internal/scrollmath"
	"autoscroll/internal/testutil"
)

// TestSetShapeIdempotent: the same shape twice overrides once
func TestSetShapeIdempotent(t *testing.T) {
	b := &testutil.FakeCursorBackend{}
	c := cursor.NewController(b)

	c.SetShape(cursor.NS)
	c.SetShape(cursor.NS)
	if got := b.Applied(); !reflect.DeepEqual(got, []cursor.Shape{cursor.NS}) {
		t.Fatalf("applied = %v, want [ns]", got)
	}

	c.SetShape(cursor.WE)
	if c.Current() != cursor.WE || len(b.Applied()) != 2 {
		t.Fatalf("current = %s, applied = %v", c.Current(), b.Applied())
	}
}

func TestRestoreIdempotent(t *testing.T) {
	b := &testutil.FakeCursorBackend{}
	c := cursor.NewController(b)

	c.Restore()
	if b.Restores() != 0 {
		t.Fatal("restored with no override active")
	}

	c.SetShape(cursor.All)
	c.Restore()
	c.Restore()
	if b.Restores() != 1 {
		t.Fatalf("restores = %d, want 1", b.Restores())
	}
	if c.Current() != cursor.None {
		t.Fatalf("current = %s after restore", c.Current())
	}

	c.SetShape(cursor.None)
	if b.Restores() != 1 {
		t.Fatal("SetShape(None) with nothing active restored again")
	}
}

// TestBackendFailureNotRetried keeps the failed shape as current
func TestBackendFailureNotRetried(t *testing.T) {
	b := &testutil.FakeCursorBackend{Err: errors.New("access denied")}
	c := cursor.NewController(b)
	c.SetShape(cursor.NWSE)
	c.SetShape(cursor.NWSE)
	if len(b.Applied()) != 1 {
		t.Fatalf("applied = %v", b.Applied())
	}
	c.Restore()
	if b.Restores() != 1 {
		t.Fatal("restore skipped after a failed apply")
	}
}

func TestShapeFor(t *testing.T) {
	tests := map[scrollmath.Direction]cursor.Shape{
		scrollmath.DirNeutral:      cursor.All,
		scrollmath.DirHorizontal:   cursor.WE,
		scrollmath.DirVertical:     cursor.NS,
		scrollmath.DirDiagonalDown: cursor.NWSE,
		scrollmath.DirDiagonalUp:   cursor.NESW,
	}
	for d, want := range tests {
		if got := cursor.ShapeFor(d); got != want {
			t.Errorf("ShapeFor(%s) = %s, want %s", d, got, want)
		}
	}
}
