package streambind

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/streambind/streambind/engine"
)

// Aggregation shortcuts: a field position or name plus an aggregation
// kind, translated into the engine's built-in positional reduction. Field
// names resolve to positions first; everything after that is the engine's
// pre-built aggregator. For the *-By variants the first element seen with
// the extreme value is retained on ties.

// Sum emits, per fired window, the first element with the field at the
// given position replaced by the sum across the window.
func (w Windowed[K, T]) Sum(position int) (Stream[T], error) {
	return w.aggregate(engine.AggSum, position)
}

// SumField is Sum with the position resolved from a struct field name.
func (w Windowed[K, T]) SumField(name string) (Stream[T], error) {
	return w.aggregateField(engine.AggSum, name)
}

// Min emits the first element with the field replaced by the window minimum.
func (w Windowed[K, T]) Min(position int) (Stream[T], error) {
	return w.aggregate(engine.AggMin, position)
}

// MinField is Min with the position resolved from a struct field name.
func (w Windowed[K, T]) MinField(name string) (Stream[T], error) {
	return w.aggregateField(engine.AggMin, name)
}

// Max emits the first element with the field replaced by the window maximum.
func (w Windowed[K, T]) Max(position int) (Stream[T], error) {
	return w.aggregate(engine.AggMax, position)
}

// MaxField is Max with the position resolved from a struct field name.
func (w Windowed[K, T]) MaxField(name string) (Stream[T], error) {
	return w.aggregateField(engine.AggMax, name)
}

// MinBy emits the whole element holding the window's minimum field value.
func (w Windowed[K, T]) MinBy(position int) (Stream[T], error) {
	return w.aggregate(engine.AggMinBy, position)
}

// MinByField is MinBy with the position resolved from a struct field name.
func (w Windowed[K, T]) MinByField(name string) (Stream[T], error) {
	return w.aggregateField(engine.AggMinBy, name)
}

// MaxBy emits the whole element holding the window's maximum field value.
func (w Windowed[K, T]) MaxBy(position int) (Stream[T], error) {
	return w.aggregate(engine.AggMaxBy, position)
}

// MaxByField is MaxBy with the position resolved from a struct field name.
func (w Windowed[K, T]) MaxByField(name string) (Stream[T], error) {
	return w.aggregateField(engine.AggMaxBy, name)
}

func (w Windowed[K, T]) aggregate(kind engine.AggregationKind, position int) (Stream[T], error) {
	fn, err := engine.NewFieldAggregator[T](kind, position)
	if err != nil {
		return Stream[T]{}, err
	}
	return Wrap(engine.WindowReduce(w.ws, fn)), nil
}

func (w Windowed[K, T]) aggregateField(kind engine.AggregationKind, name string) (Stream[T], error) {
	position, err := FieldPosition[T](name)
	if err != nil {
		return Stream[T]{}, err
	}
	return w.aggregate(kind, position)
}

type fieldKey struct {
	t    reflect.Type
	name string
}

// Resolutions are pure functions of the type, so a small process-wide
// cache suffices.
var fieldPositions, _ = lru.New[fieldKey, int](256)

// FieldPosition resolves a struct field name to its position in T's field
// list, as used by the positional aggregation shortcuts.
func FieldPosition[T any](name string) (int, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return 0, fmt.Errorf("field aggregation needs a struct element type, got %s", t)
	}
	key := fieldKey{t: t, name: name}
	if pos, ok := fieldPositions.Get(key); ok {
		return pos, nil
	}
	f, ok := t.FieldByName(name)
	if !ok || len(f.Index) != 1 {
		return 0, fmt.Errorf("type %s has no field %q", t, name)
	}
	fieldPositions.Add(key, f.Index[0])
	return f.Index[0], nil
}
