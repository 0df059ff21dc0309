package engine

import (
	"time"
)

// Window is a half-open time interval [Start, End). Elements are assigned
// to windows by a WindowAssigner; the zero Window is used for count windows,
// which have no temporal bounds.
type Window struct {
	Start time.Time
	End   time.Time
}

// MaxTimestamp returns the last instant that still belongs to the window.
func (w Window) MaxTimestamp() time.Time {
	return w.End.Add(-time.Nanosecond)
}

type assignerKind int

const (
	assignTumbling assignerKind = iota
	assignSliding
	assignSession
	assignCount
)

// WindowAssigner is the configuration object that decides which window(s)
// an incoming element belongs to. Assignment follows a left-inclusive,
// right-exclusive principle: an element exactly on a boundary falls into
// the window starting at that boundary.
type WindowAssigner struct {
	kind  assignerKind
	size  time.Duration
	slide time.Duration
	gap   time.Duration
	count int
}

// TumblingWindows assigns each element to exactly one fixed-size,
// non-overlapping window aligned to the epoch.
func TumblingWindows(size time.Duration) WindowAssigner {
	return WindowAssigner{kind: assignTumbling, size: size}
}

// SlidingWindows assigns each element to every window of the given size
// whose start lies within (t-size, t], spaced slide apart. When slide
// equals size this degenerates to tumbling windows; a non-positive slide
// is clamped to the window size.
func SlidingWindows(size, slide time.Duration) WindowAssigner {
	if slide <= 0 {
		slide = size
	}
	return WindowAssigner{kind: assignSliding, size: size, slide: slide}
}

// SessionWindows assigns each element to a per-key session that closes
// after the given gap of inactivity. Overlapping sessions are merged.
func SessionWindows(gap time.Duration) WindowAssigner {
	return WindowAssigner{kind: assignSession, gap: gap}
}

// CountWindows groups elements per key into windows of exactly n elements.
func CountWindows(n int) WindowAssigner {
	if n < 1 {
		n = 1
	}
	return WindowAssigner{kind: assignCount, count: n}
}

// assign returns the windows an element observed at t belongs to.
// Count windows are handled by the operator directly and session windows
// start as a single [t, t+gap) candidate later merged per key.
func (a WindowAssigner) assign(t time.Time) []Window {
	switch a.kind {
	case assignTumbling:
		start := t.Truncate(a.size)
		return []Window{{Start: start, End: start.Add(a.size)}}
	case assignSliding:
		windows := make([]Window, 0, int(a.size/a.slide))
		last := t.Truncate(a.slide)
		for start := last; start.After(t.Add(-a.size)); start = start.Add(-a.slide) {
			windows = append(windows, Window{Start: start, End: start.Add(a.size)})
		}
		return windows
	case assignSession:
		return []Window{{Start: t, End: t.Add(a.gap)}}
	default:
		return []Window{{}}
	}
}

// defaultTrigger returns the trigger used when none is configured.
func (a WindowAssigner) defaultTrigger() Trigger {
	if a.kind == assignCount {
		return CountTrigger(a.count)
	}
	return ProcessingTimeTrigger{}
}

// tickInterval is how often the operator checks time-based triggers.
func (a WindowAssigner) tickInterval() time.Duration {
	var d time.Duration
	switch a.kind {
	case assignTumbling:
		d = a.size
	case assignSliding:
		d = a.slide
	case assignSession:
		d = a.gap / 2
	default:
		return 0
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}
