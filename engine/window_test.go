package engine

import (
	"testing"
	"time"
)

func TestTumblingAssignment(t *testing.T) {
	a := TumblingWindows(time.Minute)

	base := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	windows := a.assign(base.Add(15 * time.Second))

	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if !windows[0].Start.Equal(base) {
		t.Errorf("expected start %v, got %v", base, windows[0].Start)
	}
	if !windows[0].End.Equal(base.Add(time.Minute)) {
		t.Errorf("expected end %v, got %v", base.Add(time.Minute), windows[0].End)
	}
}

func TestTumblingAssignmentBoundary(t *testing.T) {
	// Left inclusive, right exclusive: an element exactly on a boundary
	// belongs to the window starting there.
	a := TumblingWindows(time.Minute)

	boundary := time.Date(2024, 3, 1, 10, 31, 0, 0, time.UTC)
	windows := a.assign(boundary)

	if !windows[0].Start.Equal(boundary) {
		t.Errorf("boundary element assigned to window starting %v, want %v", windows[0].Start, boundary)
	}
}

func TestSlidingAssignment(t *testing.T) {
	a := SlidingWindows(time.Minute, 20*time.Second)

	at := time.Date(2024, 3, 1, 10, 30, 50, 0, time.UTC)
	windows := a.assign(at)

	if len(windows) != 3 {
		t.Fatalf("expected 3 overlapping windows, got %d", len(windows))
	}
	for _, w := range windows {
		if at.Before(w.Start) || !at.Before(w.End) {
			t.Errorf("element at %v not inside window [%v, %v)", at, w.Start, w.End)
		}
	}
}

func TestSlidingAssignmentClampsSlide(t *testing.T) {
	a := SlidingWindows(time.Minute, 0)

	at := time.Date(2024, 3, 1, 10, 30, 50, 0, time.UTC)
	windows := a.assign(at)

	if len(windows) != 1 {
		t.Fatalf("zero slide should degenerate to tumbling windows, got %d windows", len(windows))
	}
	if got := windows[0].End.Sub(windows[0].Start); got != time.Minute {
		t.Errorf("expected window length %v, got %v", time.Minute, got)
	}
}

func TestDefaultTriggers(t *testing.T) {
	if _, ok := TumblingWindows(time.Second).defaultTrigger().(ProcessingTimeTrigger); !ok {
		t.Error("tumbling windows should default to the processing-time trigger")
	}
	if _, ok := CountWindows(5).defaultTrigger().(countTrigger); !ok {
		t.Error("count windows should default to the count trigger")
	}
}

func TestMaxTimestamp(t *testing.T) {
	end := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	w := Window{Start: end.Add(-time.Minute), End: end}
	if !w.MaxTimestamp().Before(end) {
		t.Error("MaxTimestamp must lie before the exclusive end")
	}
}
