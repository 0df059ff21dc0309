package engine

// KeyedState is named state scoped either to one (key, window) pane or to
// one key across all windows. It is only ever touched from the window
// operator's goroutine, during a function invocation.
type KeyedState interface {
	Get(name string) (any, bool)
	Put(name string, value any)
	Clear(name string)
}

type mapState map[string]any

func newMapState() mapState {
	return make(mapState)
}

func (s mapState) Get(name string) (any, bool) {
	v, ok := s[name]
	return v, ok
}

func (s mapState) Put(name string, value any) {
	s[name] = value
}

func (s mapState) Clear(name string) {
	delete(s, name)
}
