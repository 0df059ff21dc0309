package streambind

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrNothingSerialized is the internal-invariant failure raised when a
// value is pushed through the nothing serializer. Reaching it means the
// caller routed a real value into a type slot that can never hold one.
var ErrNothingSerialized = errors.New("streambind: nothing serializer must never see a value")

// SerializerSnapshot is the restorable description of a serializer's
// configuration.
type SerializerSnapshot struct {
	Kind string
}

// Serializer converts elements to and from bytes. Implementations here
// are thin adapters; the engine treats them as opaque.
type Serializer[T any] interface {
	Serialize(value T) ([]byte, error)
	Deserialize(data []byte) (T, error)
	Copy(value T) (T, error)
	Duplicate() Serializer[T]
	Snapshot() SerializerSnapshot
}

// sentinelSerializer marks serializers that exist only to fill a type
// slot. Two sentinels are equal iff their kinds match.
type sentinelSerializer interface {
	sentinelKind() string
}

// NothingSerializer fills a serializer slot for a type position where no
// value can ever exist, such as the absent case of an optional or an
// impossible branch of a sum-type encoding. Construction, duplication,
// and snapshotting are cheap and never fail; any attempt to serialize,
// deserialize, or copy a value is a fatal bug in the caller and panics
// with ErrNothingSerialized.
type NothingSerializer[T any] struct{}

// NewNothingSerializer creates the sentinel serializer.
func NewNothingSerializer[T any]() NothingSerializer[T] {
	return NothingSerializer[T]{}
}

func (NothingSerializer[T]) Serialize(T) ([]byte, error) {
	panic(ErrNothingSerialized)
}

func (NothingSerializer[T]) Deserialize([]byte) (T, error) {
	panic(ErrNothingSerialized)
}

func (NothingSerializer[T]) Copy(T) (T, error) {
	panic(ErrNothingSerialized)
}

func (n NothingSerializer[T]) Duplicate() Serializer[T] {
	return n
}

func (NothingSerializer[T]) Snapshot() SerializerSnapshot {
	return SerializerSnapshot{Kind: "nothing"}
}

func (NothingSerializer[T]) sentinelKind() string {
	return "nothing"
}

// Equals reports whether other is the same sentinel kind, regardless of
// its element type parameter.
func (n NothingSerializer[T]) Equals(other any) bool {
	s, ok := other.(sentinelSerializer)
	return ok && s.sentinelKind() == n.sentinelKind()
}

// HashCode is constant for the sentinel kind.
func (NothingSerializer[T]) HashCode() uint32 {
	return 0x4e4f5448
}

// JSONSerializer adapts JSON encoding to the Serializer shape.
type JSONSerializer[T any] struct{}

// NewJSONSerializer creates a JSON serializer for T.
func NewJSONSerializer[T any]() JSONSerializer[T] {
	return JSONSerializer[T]{}
}

func (JSONSerializer[T]) Serialize(value T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("serialize %T: %w", value, err)
	}
	return data, nil
}

func (JSONSerializer[T]) Deserialize(data []byte) (T, error) {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("deserialize %T: %w", value, err)
	}
	return value, nil
}

// Copy round-trips the value through its encoded form, yielding a deep copy.
func (s JSONSerializer[T]) Copy(value T) (T, error) {
	data, err := s.Serialize(value)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Deserialize(data)
}

func (s JSONSerializer[T]) Duplicate() Serializer[T] {
	return s
}

func (JSONSerializer[T]) Snapshot() SerializerSnapshot {
	return SerializerSnapshot{Kind: "json"}
}
