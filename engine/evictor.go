package engine

// Evictor removes elements from the front of a pane before its function is
// invoked. Evict receives the pane size and returns how many elements to
// drop from the front.
type Evictor interface {
	Evict(size int) int
}

// CountEvictor keeps at most max elements, dropping the oldest.
func CountEvictor(max int) Evictor {
	if max < 0 {
		max = 0
	}
	return countEvictor{max: max}
}

type countEvictor struct {
	max int
}

func (e countEvictor) Evict(size int) int {
	if size > e.max {
		return size - e.max
	}
	return 0
}
