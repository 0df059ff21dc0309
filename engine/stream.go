package engine

import (
	"context"

	"github.com/google/uuid"
)

// DataStream is a lazily-built operator chain producing elements of type T.
// Nothing runs until a terminal operation (Collect, ForEach) opens the
// chain; each operator then gets its own goroutine, closes its output when
// its input closes, and honors run cancellation.
type DataStream[T any] struct {
	env  *Env
	id   string
	name string
	open func(rc *runContext) <-chan T
	side *sideOutputBuffer
}

func newDataStream[T any](env *Env, name string, open func(rc *runContext) <-chan T) *DataStream[T] {
	return &DataStream[T]{
		env:  env,
		id:   uuid.NewString(),
		name: name,
		open: open,
	}
}

// Env returns the environment this stream was built in.
func (s *DataStream[T]) Env() *Env {
	return s.env
}

// Name returns the descriptive name of the stream's last operator.
func (s *DataStream[T]) Name() string {
	return s.name
}

// runtime builds the RuntimeContext passed to rich functions of one operator.
func (e *Env) runtime(id, name string) *RuntimeContext {
	return &RuntimeContext{
		operatorID: id,
		name:       name,
		clock:      e.clock,
		logger:     e.logger.With("operator", name, "id", id),
	}
}

// FromSlice creates a bounded source stream over the given elements.
func FromSlice[T any](env *Env, items []T) *DataStream[T] {
	return newDataStream(env, "slice-source", func(rc *runContext) <-chan T {
		out := make(chan T, env.chanSize)
		go func() {
			defer close(out)
			for _, item := range items {
				select {
				case out <- item:
				case <-rc.ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

// FromChannel creates a source stream reading from ch until it closes.
// The channel can back a single execution only.
func FromChannel[T any](env *Env, ch <-chan T) *DataStream[T] {
	return newDataStream(env, "channel-source", func(rc *runContext) <-chan T {
		out := make(chan T, env.chanSize)
		go func() {
			defer close(out)
			for {
				select {
				case item, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- item:
					case <-rc.ctx.Done():
						return
					}
				case <-rc.ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

// Map applies a one-to-one transformation to every element.
func Map[In, Out any](s *DataStream[In], fn MapFunction[In, Out]) *DataStream[Out] {
	env := s.env
	ds := newDataStream(env, "map", func(rc *runContext) <-chan Out {
		in := s.open(rc)
		out := make(chan Out, env.chanSize)
		go func() {
			defer close(out)
			for {
				select {
				case item, ok := <-in:
					if !ok {
						return
					}
					mapped, err := fn.Map(item)
					if err != nil {
						rc.fail(err)
						return
					}
					select {
					case out <- mapped:
					case <-rc.ctx.Done():
						return
					}
				case <-rc.ctx.Done():
					return
				}
			}
		}()
		return out
	})
	ds.side = s.side
	return ds
}

// Filter keeps the elements the function accepts.
func Filter[T any](s *DataStream[T], fn FilterFunction[T]) *DataStream[T] {
	env := s.env
	ds := newDataStream(env, "filter", func(rc *runContext) <-chan T {
		in := s.open(rc)
		out := make(chan T, env.chanSize)
		go func() {
			defer close(out)
			for {
				select {
				case item, ok := <-in:
					if !ok {
						return
					}
					keep, err := fn.Filter(item)
					if err != nil {
						rc.fail(err)
						return
					}
					if !keep {
						continue
					}
					select {
					case out <- item:
					case <-rc.ctx.Done():
						return
					}
				case <-rc.ctx.Done():
					return
				}
			}
		}()
		return out
	})
	ds.side = s.side
	return ds
}

// FlatMap applies a one-to-many transformation, emitting through a collector.
func FlatMap[In, Out any](s *DataStream[In], fn FlatMapFunction[In, Out]) *DataStream[Out] {
	env := s.env
	ds := newDataStream(env, "flatmap", func(rc *runContext) <-chan Out {
		in := s.open(rc)
		out := make(chan Out, env.chanSize)
		go func() {
			defer close(out)
			collector := &chanCollector[Out]{rc: rc, out: out}
			for {
				select {
				case item, ok := <-in:
					if !ok {
						return
					}
					if err := fn.FlatMap(item, collector); err != nil {
						rc.fail(err)
						return
					}
				case <-rc.ctx.Done():
					return
				}
			}
		}()
		return out
	})
	ds.side = s.side
	return ds
}

// KeyBy partitions the stream by the selector's key. Downstream window
// operators maintain state per key.
func KeyBy[T any, K comparable](s *DataStream[T], selector KeySelector[T, K]) *KeyedStream[K, T] {
	return &KeyedStream[K, T]{
		env:      s.env,
		upstream: s.open,
		selector: selector,
	}
}

// SideOutput returns the values emitted to the given tag. It is populated
// once a terminal operation on this stream (or one derived from it) has
// returned.
func (s *DataStream[T]) SideOutput(tag OutputTag) []any {
	if s.side == nil {
		return nil
	}
	return s.side.get(tag)
}

// Collect runs the graph and gathers every element of the stream. It
// returns the first operator error, if any.
func (s *DataStream[T]) Collect(ctx context.Context) ([]T, error) {
	var items []T
	err := s.ForEach(ctx, func(item T) {
		items = append(items, item)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ForEach runs the graph, invoking fn for every element in order.
func (s *DataStream[T]) ForEach(ctx context.Context, fn func(T)) error {
	rc := newRunContext(ctx)
	defer rc.cancel()

	for item := range s.open(rc) {
		fn(item)
	}
	if err := rc.error(); err != nil {
		return err
	}
	return ctx.Err()
}
