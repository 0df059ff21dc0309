package engine

import (
	"fmt"
	"reflect"
)

// AggregationKind selects one of the engine's built-in positional
// aggregations over struct streams.
type AggregationKind int

const (
	// AggSum adds the field across the pane, carried on the first element.
	AggSum AggregationKind = iota
	// AggMin keeps the first element with the field replaced by the minimum.
	AggMin
	// AggMax keeps the first element with the field replaced by the maximum.
	AggMax
	// AggMinBy keeps the whole element holding the minimum field value;
	// on ties the first element seen wins.
	AggMinBy
	// AggMaxBy keeps the whole element holding the maximum field value;
	// on ties the first element seen wins.
	AggMaxBy
)

func (k AggregationKind) String() string {
	switch k {
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggMinBy:
		return "minBy"
	case AggMaxBy:
		return "maxBy"
	default:
		return fmt.Sprintf("AggregationKind(%d)", int(k))
	}
}

// NewFieldAggregator builds the engine's built-in reduction over the
// struct field at the given position. Validation happens here, before any
// element flows: T must be a struct, the position must name an exported
// field, min/max need an ordered field type, and sum needs a numeric one.
func NewFieldAggregator[T any](kind AggregationKind, pos int) (ReduceFunction[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("field aggregation needs a struct element type, got %s", t)
	}
	if pos < 0 || pos >= t.NumField() {
		return nil, fmt.Errorf("field position %d out of range for %s (%d fields)", pos, t, t.NumField())
	}
	f := t.Field(pos)
	if !f.IsExported() {
		return nil, fmt.Errorf("cannot aggregate unexported field %s.%s", t, f.Name)
	}
	switch f.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	case reflect.String:
		if kind == AggSum {
			return nil, fmt.Errorf("cannot sum non-numeric field %s.%s", t, f.Name)
		}
	default:
		return nil, fmt.Errorf("field %s.%s is not an ordered type", t, f.Name)
	}
	return fieldAggregator[T]{kind: kind, pos: pos}, nil
}

type fieldAggregator[T any] struct {
	kind AggregationKind
	pos  int
}

func (fa fieldAggregator[T]) Reduce(a, b T) (T, error) {
	af := reflect.ValueOf(a).Field(fa.pos)
	bf := reflect.ValueOf(b).Field(fa.pos)

	switch fa.kind {
	case AggSum:
		result := a
		target := reflect.ValueOf(&result).Elem().Field(fa.pos)
		switch af.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			target.SetInt(af.Int() + bf.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			target.SetUint(af.Uint() + bf.Uint())
		default:
			target.SetFloat(af.Float() + bf.Float())
		}
		return result, nil

	case AggMin:
		result := a
		if compareOrdered(bf, af) < 0 {
			reflect.ValueOf(&result).Elem().Field(fa.pos).Set(bf)
		}
		return result, nil

	case AggMax:
		result := a
		if compareOrdered(bf, af) > 0 {
			reflect.ValueOf(&result).Elem().Field(fa.pos).Set(bf)
		}
		return result, nil

	case AggMinBy:
		if compareOrdered(bf, af) < 0 {
			return b, nil
		}
		return a, nil

	case AggMaxBy:
		if compareOrdered(bf, af) > 0 {
			return b, nil
		}
		return a, nil

	default:
		var zero T
		return zero, fmt.Errorf("unknown aggregation kind %v", fa.kind)
	}
}

// compareOrdered compares two reflect values of the same ordered kind.
func compareOrdered(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		av, bv := a.Int(), b.Int()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		av, bv := a.Uint(), b.Uint()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case reflect.Float32, reflect.Float64:
		av, bv := a.Float(), b.Float()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case reflect.String:
		av, bv := a.String(), b.String()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}
