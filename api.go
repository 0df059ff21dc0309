// Package streambind is a fluent, Go-native surface over the engine
// package's operator-graph API. It adapts plain closures, iter.Seq
// sequences, and small serializer adapters to the engine's function-object
// and iterable/collector conventions, and forwards everything else
// unchanged: the engine owns window assignment, triggering, eviction,
// keyed state, and execution.
//
// Basic usage:
//
//	env := engine.NewEnv()
//	words := streambind.FromSlice(env, []WordCount{{"go", 1}, {"go", 2}})
//
//	keyed := streambind.KeyBy(words, func(wc WordCount) string { return wc.Word })
//	sums, err := keyed.CountWindow(2).SumField("Count")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := sums.Collect(ctx)
//
// Every wrapper method is a synchronous forward into the engine graph
// builder; no goroutine, state, or scheduling lives in this package.
package streambind

import (
	"iter"

	"github.com/streambind/streambind/engine"
)

// Emitter is the output sink a window function writes to. Emit forwards to
// the engine collector; EmitTo forwards tag and value unmodified to the
// engine's side-output channel.
type Emitter[R any] interface {
	Emit(value R)
	EmitTo(tag engine.OutputTag, value any)
}

// WindowFunc is the closure form of a window function: invoked once per
// (key, window) evaluation with a restartable sequence of the window's
// elements. Re-ranging over items yields the same elements in the same
// order.
type WindowFunc[K comparable, T, R any] func(key K, ctx *Context, items iter.Seq[T], out Emitter[R]) error

// ProcessWindowFunction is the interface form of a window function. An
// implementation may additionally satisfy RichFunction; its lifecycle is
// then forwarded to the engine, otherwise the hooks are no-ops.
type ProcessWindowFunction[K comparable, T, R any] interface {
	ProcessWindow(key K, ctx *Context, items iter.Seq[T], out Emitter[R]) error
}

// AggregateFunction folds elements into an accumulator and extracts a
// result when the window fires. Merge may be nil when accumulators are
// never merged.
type AggregateFunction[T, A, R any] struct {
	Create func() A
	Add    func(acc A, value T) A
	Result func(acc A) R
	Merge  func(a, b A) A
}

// RichFunction is the optional lifecycle a wrapped function may implement.
type RichFunction = engine.RichFunction

// RuntimeContext identifies the operator a rich function runs in.
type RuntimeContext = engine.RuntimeContext

// OutputTag names a side output.
type OutputTag = engine.OutputTag

// NewOutputTag creates a side-output tag.
func NewOutputTag(id string) OutputTag {
	return engine.NewOutputTag(id)
}
