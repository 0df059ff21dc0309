package engine

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

type wordCount struct {
	Word  string
	Count int
}

type byWord struct{}

func (byWord) Key(v wordCount) string { return v.Word }

type sumCounts struct{}

func (sumCounts) Reduce(a, b wordCount) (wordCount, error) {
	a.Count += b.Count
	return a, nil
}

// paneDump emits the full pane contents so tests can inspect what the
// function was invoked with.
type paneDump struct{}

func (paneDump) Apply(_ string, _ Window, in Iterable[wordCount], out Collector[[]wordCount], _ *WindowContext) error {
	var items []wordCount
	it := in.Iterator()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		items = append(items, v)
	}
	out.Collect(items)
	return nil
}

func TestCountWindowReduce(t *testing.T) {
	env := NewEnv()
	source := FromSlice(env, []wordCount{
		{"a", 1}, {"a", 2}, {"b", 3}, {"a", 4}, {"b", 5},
	})

	windowed := KeyBy(source, byWord{}).Window(CountWindows(2))
	sums := WindowReduce(windowed, sumCounts{})

	got, err := sums.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Pane a fires at two elements; panes b and the second a flush on
	// input close, in creation order.
	want := []wordCount{{"a", 3}, {"b", 8}, {"a", 4}}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("result %d: expected %+v, got %+v", i, w, got[i])
		}
	}
}

func TestTumblingWindowFlushOnClose(t *testing.T) {
	clock := clockz.NewFakeClock()
	env := NewEnv(WithClock(clock))

	source := FromSlice(env, []wordCount{{"a", 1}, {"a", 2}, {"b", 7}})
	windowed := KeyBy(source, byWord{}).Window(TumblingWindows(time.Minute))

	got, err := WindowReduce(windowed, sumCounts{}).Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []wordCount{{"a", 3}, {"b", 7}}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("result %d: expected %+v, got %+v", i, w, got[i])
		}
	}
}

func TestTumblingWindowFiresOnTime(t *testing.T) {
	clock := clockz.NewFakeClock()
	env := NewEnv(WithClock(clock))

	in := make(chan wordCount)
	windowed := KeyBy(FromChannel(env, in), byWord{}).Window(TumblingWindows(100 * time.Millisecond))
	out := WindowReduce(windowed, sumCounts{})

	var got []wordCount
	done := make(chan error, 1)
	go func() {
		done <- out.ForEach(context.Background(), func(v wordCount) {
			got = append(got, v)
		})
	}()

	in <- wordCount{"a", 1}
	in <- wordCount{"a", 2}
	time.Sleep(20 * time.Millisecond) // let the operator buffer both

	clock.Advance(100 * time.Millisecond)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)

	in <- wordCount{"a", 10}
	close(in)

	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected a fired window plus a flushed window, got %v", got)
	}
	if got[0].Count != 3 {
		t.Errorf("fired window should sum the first two counts, got %+v", got[0])
	}
	if got[1].Count != 10 {
		t.Errorf("flushed window should hold the late element, got %+v", got[1])
	}
}

func TestAllowedLatenessIncludesStragglers(t *testing.T) {
	clock := clockz.NewFakeClock()
	env := NewEnv(WithClock(clock))

	in := make(chan wordCount)
	windowed := KeyBy(FromChannel(env, in), byWord{}).
		Window(TumblingWindows(100 * time.Millisecond)).
		WithAllowedLateness(200 * time.Millisecond)
	out := WindowReduce(windowed, sumCounts{})

	var got []wordCount
	done := make(chan error, 1)
	go func() {
		done <- out.ForEach(context.Background(), func(v wordCount) {
			got = append(got, v)
		})
	}()

	in <- wordCount{"a", 1}
	time.Sleep(20 * time.Millisecond)

	// Past the window end, still inside the lateness margin: the pane
	// must not fire yet and the straggler must join it.
	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)

	in <- wordCount{"a", 10}
	close(in)

	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("straggler within the margin must land in the open pane, got %v", got)
	}
	if got[0].Count != 11 {
		t.Errorf("expected a single window summing both elements, got %+v", got[0])
	}
}

func TestAllowedLatenessDefersFiring(t *testing.T) {
	clock := clockz.NewFakeClock()
	env := NewEnv(WithClock(clock))

	in := make(chan wordCount)
	windowed := KeyBy(FromChannel(env, in), byWord{}).
		Window(TumblingWindows(100 * time.Millisecond)).
		WithAllowedLateness(100 * time.Millisecond)
	out := WindowReduce(windowed, sumCounts{})

	results := make(chan wordCount, 4)
	done := make(chan error, 1)
	go func() {
		done <- out.ForEach(context.Background(), func(v wordCount) {
			results <- v
		})
	}()

	in <- wordCount{"a", 1}
	time.Sleep(20 * time.Millisecond)

	// Inside the margin: no emission yet.
	clock.Advance(100 * time.Millisecond)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)
	select {
	case v := <-results:
		t.Fatalf("pane fired before the lateness margin elapsed: %+v", v)
	default:
	}

	// Margin elapsed: the pane fires once.
	clock.Advance(100 * time.Millisecond)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)
	select {
	case v := <-results:
		if v.Count != 1 {
			t.Errorf("expected the buffered element, got %+v", v)
		}
	default:
		t.Fatal("pane should fire once window end plus lateness has passed")
	}

	close(in)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionWindowMergesActivity(t *testing.T) {
	clock := clockz.NewFakeClock()
	env := NewEnv(WithClock(clock))

	source := FromSlice(env, []wordCount{{"a", 1}, {"a", 2}, {"a", 3}})
	windowed := KeyBy(source, byWord{}).Window(SessionWindows(time.Second))

	got, err := WindowApply(windowed, paneDump{}).Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("activity within the gap should merge into one session, got %d", len(got))
	}
	if len(got[0]) != 3 {
		t.Errorf("merged session should hold all 3 elements, got %v", got[0])
	}
}

func TestEvictorDropsOldest(t *testing.T) {
	env := NewEnv()
	source := FromSlice(env, []wordCount{{"a", 1}, {"a", 2}, {"a", 3}})

	windowed := KeyBy(source, byWord{}).
		Window(CountWindows(3)).
		WithEvictor(CountEvictor(2))

	got, err := WindowApply(windowed, paneDump{}).Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected one fired pane, got %d", len(got))
	}
	if len(got[0]) != 2 || got[0][0].Count != 2 || got[0][1].Count != 3 {
		t.Errorf("evictor should drop the oldest element, got %v", got[0])
	}
}

// statefulCounter counts fired windows per key through global state and
// records its lifecycle calls.
type statefulCounter struct {
	rc     *RuntimeContext
	opens  int
	closes int
}

func (f *statefulCounter) Apply(key string, _ Window, _ Iterable[wordCount], out Collector[int], wc *WindowContext) error {
	n := 0
	if v, ok := wc.GlobalState().Get("fired"); ok {
		n = v.(int)
	}
	n++
	wc.GlobalState().Put("fired", n)
	out.Collect(n)
	return nil
}

func (f *statefulCounter) SetRuntimeContext(rc *RuntimeContext) { f.rc = rc }
func (f *statefulCounter) Open() error                          { f.opens++; return nil }
func (f *statefulCounter) Close() error                         { f.closes++; return nil }

func TestGlobalStateAndLifecycle(t *testing.T) {
	env := NewEnv()
	source := FromSlice(env, []wordCount{{"a", 1}, {"a", 1}, {"a", 1}})

	windowed := KeyBy(source, byWord{}).Window(CountWindows(1))
	fn := &statefulCounter{}

	got, err := WindowApply(windowed, fn).Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("global state should persist across windows: expected %v, got %v", want, got)
			break
		}
	}

	if fn.opens != 1 || fn.closes != 1 {
		t.Errorf("rich lifecycle should run once per execution, got opens=%d closes=%d", fn.opens, fn.closes)
	}
	if fn.rc == nil || fn.rc.OperatorName() != "window-apply" {
		t.Errorf("runtime context should identify the operator, got %+v", fn.rc)
	}
}
