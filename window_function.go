package streambind

import (
	"iter"
	"time"

	"github.com/streambind/streambind/engine"
)

// Context is the per-invocation view a window function gets of the
// engine's window context. Every accessor is an uncached pass-through
// read of live operator state.
type Context struct {
	wc *engine.WindowContext
}

// Window returns the window being evaluated.
func (c *Context) Window() engine.Window {
	return c.wc.Window()
}

// ProcessingTime reads the engine clock at call time.
func (c *Context) ProcessingTime() time.Time {
	return c.wc.CurrentProcessingTime()
}

// Watermark returns the operator's current watermark.
func (c *Context) Watermark() time.Time {
	return c.wc.CurrentWatermark()
}

// WindowState returns state scoped to this (key, window) pane.
func (c *Context) WindowState() engine.KeyedState {
	return c.wc.WindowState()
}

// GlobalState returns state scoped to the current key across windows.
func (c *Context) GlobalState() engine.KeyedState {
	return c.wc.GlobalState()
}

// windowFunctionAdapter translates the engine's per-window invocation
// (key, window, iterable, collector, context) into the wrapper convention
// (key, context, restartable sequence, emitter). Elements are forwarded
// exactly once per pass, in the order the engine supplies them; errors
// from the wrapped function propagate unchanged.
type windowFunctionAdapter[K comparable, T, R any] struct {
	fn ProcessWindowFunction[K, T, R]
}

func newWindowFunctionAdapter[K comparable, T, R any](fn ProcessWindowFunction[K, T, R]) *windowFunctionAdapter[K, T, R] {
	return &windowFunctionAdapter[K, T, R]{fn: fn}
}

func (a *windowFunctionAdapter[K, T, R]) Apply(key K, _ engine.Window, input engine.Iterable[T], out engine.Collector[R], wc *engine.WindowContext) error {
	items := func(yield func(T) bool) {
		it := input.Iterator()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
	return a.fn.ProcessWindow(key, &Context{wc: wc}, items, &collectorEmitter[R]{out: out, wc: wc})
}

// Lifecycle hooks are forwarded only when the wrapped function implements
// the rich lifecycle itself; otherwise they are no-ops.

func (a *windowFunctionAdapter[K, T, R]) SetRuntimeContext(rc *engine.RuntimeContext) {
	if rich, ok := a.fn.(RichFunction); ok {
		rich.SetRuntimeContext(rc)
	}
}

func (a *windowFunctionAdapter[K, T, R]) Open() error {
	if rich, ok := a.fn.(RichFunction); ok {
		return rich.Open()
	}
	return nil
}

func (a *windowFunctionAdapter[K, T, R]) Close() error {
	if rich, ok := a.fn.(RichFunction); ok {
		return rich.Close()
	}
	return nil
}

// funcProcessWindow lets a WindowFunc closure stand in where the interface
// form is expected. Closures carry no lifecycle.
type funcProcessWindow[K comparable, T, R any] func(key K, ctx *Context, items iter.Seq[T], out Emitter[R]) error

func (f funcProcessWindow[K, T, R]) ProcessWindow(key K, ctx *Context, items iter.Seq[T], out Emitter[R]) error {
	return f(key, ctx, items, out)
}

// collectorEmitter forwards emitted values to the engine collector and
// side-output writes, tag and value unmodified, to the window context.
type collectorEmitter[R any] struct {
	out engine.Collector[R]
	wc  *engine.WindowContext
}

func (e *collectorEmitter[R]) Emit(value R) {
	e.out.Collect(value)
}

func (e *collectorEmitter[R]) EmitTo(tag engine.OutputTag, value any) {
	e.wc.Output(tag, value)
}
