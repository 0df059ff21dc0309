package engine

import "sync"

// OutputTag names a side output of a window operator. Values emitted to a
// tag bypass the main output and are retrieved from the resulting stream
// after execution.
type OutputTag struct {
	ID string
}

// NewOutputTag creates a tag with the given identifier.
func NewOutputTag(id string) OutputTag {
	return OutputTag{ID: id}
}

// sideOutputBuffer accumulates tagged side-output values during a run.
type sideOutputBuffer struct {
	mu sync.Mutex
	m  map[OutputTag][]any
}

func newSideOutputBuffer() *sideOutputBuffer {
	return &sideOutputBuffer{m: make(map[OutputTag][]any)}
}

func (b *sideOutputBuffer) add(tag OutputTag, value any) {
	b.mu.Lock()
	b.m[tag] = append(b.m[tag], value)
	b.mu.Unlock()
}

func (b *sideOutputBuffer) get(tag OutputTag) []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]any(nil), b.m[tag]...)
}
