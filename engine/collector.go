package engine

// Collector receives the output of a function invocation.
type Collector[T any] interface {
	Collect(value T)
}

// Iterator walks a finite sequence of elements.
type Iterator[T any] interface {
	// Next returns the next element, or ok=false when exhausted.
	Next() (value T, ok bool)
}

// Iterable is a restartable finite sequence: every call to Iterator starts
// a fresh pass over the same elements in the same order.
type Iterable[T any] interface {
	Iterator() Iterator[T]
}

// sliceIterable adapts a buffered window pane to the Iterable contract.
type sliceIterable[T any] struct {
	items []T
}

// NewSliceIterable wraps a slice as an Iterable. The slice is not copied;
// callers must not mutate it while iterating.
func NewSliceIterable[T any](items []T) Iterable[T] {
	return &sliceIterable[T]{items: items}
}

func (s *sliceIterable[T]) Iterator() Iterator[T] {
	return &sliceIterator[T]{items: s.items}
}

type sliceIterator[T any] struct {
	items []T
	pos   int
}

func (it *sliceIterator[T]) Next() (T, bool) {
	if it.pos >= len(it.items) {
		var zero T
		return zero, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

// chanCollector forwards collected values to an operator output channel,
// honoring run cancellation.
type chanCollector[T any] struct {
	rc  *runContext
	out chan<- T
}

func (c *chanCollector[T]) Collect(value T) {
	select {
	case c.out <- value:
	case <-c.rc.ctx.Done():
	}
}
