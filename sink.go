package streambind

import (
	"context"
	"io"
)

// SinkSerialized runs the stream and writes each element through the
// serializer, one record per line, in stream order.
func SinkSerialized[T any](ctx context.Context, s Stream[T], ser Serializer[T], w io.Writer) error {
	if ser == nil {
		panic("streambind: SinkSerialized called with nil serializer")
	}
	var sinkErr error
	err := s.ForEach(ctx, func(item T) {
		if sinkErr != nil {
			return
		}
		data, err := ser.Serialize(item)
		if err != nil {
			sinkErr = err
			return
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			sinkErr = err
		}
	})
	if err != nil {
		return err
	}
	return sinkErr
}

// SinkJSON is SinkSerialized with the JSON adapter.
func SinkJSON[T any](ctx context.Context, s Stream[T], w io.Writer) error {
	return SinkSerialized(ctx, s, NewJSONSerializer[T](), w)
}
