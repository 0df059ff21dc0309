package streambind

import (
	"time"

	"github.com/streambind/streambind/engine"
)

// Windowed wraps an engine WindowedStream. Configuration methods forward
// unchanged; evaluation methods adapt the wrapper's function shapes to
// the engine's and forward.
type Windowed[K comparable, T any] struct {
	ws *engine.WindowedStream[K, T]
}

// Trigger overrides the assigner's default trigger.
func (w Windowed[K, T]) Trigger(t engine.Trigger) Windowed[K, T] {
	w.ws.WithTrigger(t)
	return w
}

// Evictor sets an evictor applied before each pane evaluation.
func (w Windowed[K, T]) Evictor(e engine.Evictor) Windowed[K, T] {
	w.ws.WithEvictor(e)
	return w
}

// AllowedLateness keeps a fired pane open for the given extra duration.
func (w Windowed[K, T]) AllowedLateness(d time.Duration) Windowed[K, T] {
	w.ws.WithAllowedLateness(d)
	return w
}

// Native returns the wrapped engine windowed stream.
func (w Windowed[K, T]) Native() *engine.WindowedStream[K, T] {
	return w.ws
}

// Reduce folds each fired window with fn and emits the reduced element.
func (w Windowed[K, T]) Reduce(fn func(T, T) T) Stream[T] {
	if fn == nil {
		panic("streambind: Reduce called with nil function")
	}
	return Wrap(engine.WindowReduce(w.ws, reduceFunc[T](fn)))
}

// Aggregate folds each fired window through the aggregate function and
// emits the extracted result.
func Aggregate[K comparable, T, A, R any](w Windowed[K, T], agg AggregateFunction[T, A, R]) Stream[R] {
	if agg.Create == nil || agg.Add == nil || agg.Result == nil {
		panic("streambind: Aggregate called with incomplete aggregate function")
	}
	return Wrap(engine.WindowAggregate(w.ws, aggregateAdapter[T, A, R]{agg: agg}))
}

// Apply evaluates the window function closure over each fired window.
func Apply[K comparable, T, R any](w Windowed[K, T], fn WindowFunc[K, T, R]) Stream[R] {
	if fn == nil {
		panic("streambind: Apply called with nil function")
	}
	return Wrap(engine.WindowApply(w.ws, newWindowFunctionAdapter(funcProcessWindow[K, T, R](fn))))
}

// Process evaluates the window function over each fired window. The
// function's rich lifecycle, if implemented, is forwarded to the engine.
func Process[K comparable, T, R any](w Windowed[K, T], fn ProcessWindowFunction[K, T, R]) Stream[R] {
	if fn == nil {
		panic("streambind: Process called with nil function")
	}
	return Wrap(engine.WindowApply(w.ws, newWindowFunctionAdapter(fn)))
}

// ReduceProcess pre-aggregates each window with reduce; the window
// function then sees a single-element sequence holding the reduced value.
func ReduceProcess[K comparable, T, R any](w Windowed[K, T], reduce func(T, T) T, fn ProcessWindowFunction[K, T, R]) Stream[R] {
	if reduce == nil || fn == nil {
		panic("streambind: ReduceProcess called with nil function")
	}
	return Wrap(engine.WindowReduceApply(w.ws, reduceFunc[T](reduce), newWindowFunctionAdapter(fn)))
}

// aggregateAdapter maps the wrapper's struct-of-closures aggregate shape
// onto the engine's interface.
type aggregateAdapter[T, A, R any] struct {
	agg AggregateFunction[T, A, R]
}

func (a aggregateAdapter[T, A, R]) CreateAccumulator() A {
	return a.agg.Create()
}

func (a aggregateAdapter[T, A, R]) Add(acc A, value T) A {
	return a.agg.Add(acc, value)
}

func (a aggregateAdapter[T, A, R]) Result(acc A) R {
	return a.agg.Result(acc)
}

func (a aggregateAdapter[T, A, R]) Merge(x, y A) A {
	if a.agg.Merge == nil {
		return x
	}
	return a.agg.Merge(x, y)
}
