package streambind

import (
	"context"
	"iter"

	"github.com/streambind/streambind/engine"
)

// Stream wraps an engine DataStream with a closure-based surface. Every
// method adapts its argument and forwards to the engine graph builder.
type Stream[T any] struct {
	ds *engine.DataStream[T]
}

// Wrap exposes an existing engine stream through the fluent surface.
func Wrap[T any](ds *engine.DataStream[T]) Stream[T] {
	return Stream[T]{ds: ds}
}

// FromSlice creates a bounded stream over the given elements.
func FromSlice[T any](env *engine.Env, items []T) Stream[T] {
	return Wrap(engine.FromSlice(env, items))
}

// FromChannel creates a stream reading from ch until it closes.
func FromChannel[T any](env *engine.Env, ch <-chan T) Stream[T] {
	return Wrap(engine.FromChannel(env, ch))
}

// Native returns the wrapped engine stream.
func (s Stream[T]) Native() *engine.DataStream[T] {
	return s.ds
}

// Filter keeps the elements fn accepts.
func (s Stream[T]) Filter(fn func(T) bool) Stream[T] {
	if fn == nil {
		panic("streambind: Filter called with nil function")
	}
	return Wrap(engine.Filter(s.ds, filterFunc[T](fn)))
}

// Map transforms every element one-to-one.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	if fn == nil {
		panic("streambind: Map called with nil function")
	}
	return Wrap(engine.Map(s.ds, mapFunc[T, U](fn)))
}

// FlatMap transforms every element into the sequence fn yields for it.
// The adapter drains the sequence into the engine's collector.
func FlatMap[T, U any](s Stream[T], fn func(T) iter.Seq[U]) Stream[U] {
	if fn == nil {
		panic("streambind: FlatMap called with nil function")
	}
	return Wrap(engine.FlatMap(s.ds, flatMapFunc[T, U](fn)))
}

// KeyBy partitions the stream by the key fn extracts.
func KeyBy[T any, K comparable](s Stream[T], fn func(T) K) Keyed[K, T] {
	if fn == nil {
		panic("streambind: KeyBy called with nil function")
	}
	return Keyed[K, T]{ks: engine.KeyBy(s.ds, keyFunc[T, K](fn))}
}

// SideOutput returns the values emitted to tag during execution. Valid
// once a terminal operation on this stream has returned.
func (s Stream[T]) SideOutput(tag OutputTag) []any {
	return s.ds.SideOutput(tag)
}

// SideOutputAs returns the values emitted to tag that are of type R, in
// emission order. Values of other types are skipped.
func SideOutputAs[R any, T any](s Stream[T], tag OutputTag) []R {
	var out []R
	for _, v := range s.SideOutput(tag) {
		if r, ok := v.(R); ok {
			out = append(out, r)
		}
	}
	return out
}

// Collect runs the graph and gathers the stream's elements.
func (s Stream[T]) Collect(ctx context.Context) ([]T, error) {
	return s.ds.Collect(ctx)
}

// ForEach runs the graph, invoking fn for every element in order.
func (s Stream[T]) ForEach(ctx context.Context, fn func(T)) error {
	return s.ds.ForEach(ctx, fn)
}

// Closure adapters to the engine's function-object convention.

type mapFunc[In, Out any] func(In) Out

func (f mapFunc[In, Out]) Map(v In) (Out, error) {
	return f(v), nil
}

type filterFunc[T any] func(T) bool

func (f filterFunc[T]) Filter(v T) (bool, error) {
	return f(v), nil
}

type flatMapFunc[In, Out any] func(In) iter.Seq[Out]

func (f flatMapFunc[In, Out]) FlatMap(v In, out engine.Collector[Out]) error {
	for item := range f(v) {
		out.Collect(item)
	}
	return nil
}

type keyFunc[T any, K comparable] func(T) K

func (f keyFunc[T, K]) Key(v T) K {
	return f(v)
}

type reduceFunc[T any] func(T, T) T

func (f reduceFunc[T]) Reduce(a, b T) (T, error) {
	return f(a, b), nil
}
