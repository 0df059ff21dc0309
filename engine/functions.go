package engine

// The engine invokes user logic through function objects. The fluent layer
// above adapts plain closures to these interfaces; the engine itself only
// ever sees the interface shape.

// MapFunction transforms one element into one element.
type MapFunction[In, Out any] interface {
	Map(value In) (Out, error)
}

// FilterFunction decides whether an element is kept.
type FilterFunction[T any] interface {
	Filter(value T) (bool, error)
}

// FlatMapFunction transforms one element into zero or more elements,
// emitted through the supplied collector.
type FlatMapFunction[In, Out any] interface {
	FlatMap(value In, out Collector[Out]) error
}

// KeySelector extracts the partition key of an element.
type KeySelector[T any, K comparable] interface {
	Key(value T) K
}

// ReduceFunction combines two elements of the same type into one.
type ReduceFunction[T any] interface {
	Reduce(a, b T) (T, error)
}

// AggregateFunction incrementally folds elements into an accumulator and
// extracts a result when a window fires.
type AggregateFunction[In, Acc, Out any] interface {
	CreateAccumulator() Acc
	Add(acc Acc, value In) Acc
	Result(acc Acc) Out
	Merge(a, b Acc) Acc
}

// WindowFunction is invoked once per (key, window) evaluation with the
// window's buffered elements and an output collector. Side outputs and
// per-key state are reached through the window context.
type WindowFunction[K comparable, In, Out any] interface {
	Apply(key K, window Window, input Iterable[In], out Collector[Out], wc *WindowContext) error
}

// RichFunction is the optional lifecycle every function object may carry.
// The engine calls SetRuntimeContext and Open before the first invocation
// of a function that implements it, and Close after the last.
type RichFunction interface {
	SetRuntimeContext(rc *RuntimeContext)
	Open() error
	Close() error
}

// openFunction runs the rich lifecycle prologue when fn implements it.
func openFunction(fn any, rc *RuntimeContext) error {
	rich, ok := fn.(RichFunction)
	if !ok {
		return nil
	}
	rich.SetRuntimeContext(rc)
	return rich.Open()
}

// closeFunction runs the rich lifecycle epilogue when fn implements it.
func closeFunction(fn any) error {
	if rich, ok := fn.(RichFunction); ok {
		return rich.Close()
	}
	return nil
}
