package streambind

import (
	"time"

	"github.com/streambind/streambind/engine"
)

// Keyed wraps an engine KeyedStream. Windowing methods forward the
// assigner configuration unchanged.
type Keyed[K comparable, T any] struct {
	ks *engine.KeyedStream[K, T]
}

// Window applies an explicit window assigner.
func (k Keyed[K, T]) Window(assigner engine.WindowAssigner) Windowed[K, T] {
	return Windowed[K, T]{ws: k.ks.Window(assigner)}
}

// TumblingWindow groups elements into fixed, non-overlapping windows.
func (k Keyed[K, T]) TumblingWindow(size time.Duration) Windowed[K, T] {
	return k.Window(engine.TumblingWindows(size))
}

// SlidingWindow groups elements into overlapping windows of the given
// size, spaced slide apart.
func (k Keyed[K, T]) SlidingWindow(size, slide time.Duration) Windowed[K, T] {
	return k.Window(engine.SlidingWindows(size, slide))
}

// SessionWindow groups elements into per-key sessions closed by a gap of
// inactivity.
func (k Keyed[K, T]) SessionWindow(gap time.Duration) Windowed[K, T] {
	return k.Window(engine.SessionWindows(gap))
}

// CountWindow groups elements per key into windows of exactly n elements.
func (k Keyed[K, T]) CountWindow(n int) Windowed[K, T] {
	return k.Window(engine.CountWindows(n))
}

// Native returns the wrapped engine keyed stream.
func (k Keyed[K, T]) Native() *engine.KeyedStream[K, T] {
	return k.ks
}
