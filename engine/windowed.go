package engine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeyedStream is a stream partitioned by key, ready to be windowed.
type KeyedStream[K comparable, T any] struct {
	env      *Env
	upstream func(rc *runContext) <-chan T
	selector KeySelector[T, K]
}

// Window groups the keyed stream by the given assigner.
func (ks *KeyedStream[K, T]) Window(assigner WindowAssigner) *WindowedStream[K, T] {
	return &WindowedStream[K, T]{keyed: ks, assigner: assigner}
}

// WindowedStream is a keyed stream with a window assigner attached.
// Trigger, evictor, and allowed lateness default to the assigner's
// standard behavior and can be overridden before an operation is applied.
type WindowedStream[K comparable, T any] struct {
	keyed    *KeyedStream[K, T]
	assigner WindowAssigner
	trigger  Trigger
	evictor  Evictor
	lateness time.Duration
}

// WithTrigger overrides the assigner's default trigger.
func (ws *WindowedStream[K, T]) WithTrigger(t Trigger) *WindowedStream[K, T] {
	ws.trigger = t
	return ws
}

// WithEvictor sets an evictor applied before each pane evaluation.
func (ws *WindowedStream[K, T]) WithEvictor(e Evictor) *WindowedStream[K, T] {
	ws.evictor = e
	return ws
}

// WithAllowedLateness keeps each pane open for the given extra duration
// past its window end. A pane's single fire-and-purge is postponed to
// window end plus lateness, and an element arriving within the margin of
// the pane its key just missed is routed into that pane instead of the
// window containing its arrival time.
func (ws *WindowedStream[K, T]) WithAllowedLateness(d time.Duration) *WindowedStream[K, T] {
	if d > 0 {
		ws.lateness = d
	}
	return ws
}

// pane is the buffered contents of one (key, window) pair.
type pane[K comparable, T any] struct {
	key    K
	window Window
	items  []T
	state  mapState
}

// paneSet tracks open panes in creation order per key and globally.
// Creation order makes end-of-input flushing deterministic.
type paneSet[K comparable, T any] struct {
	ordered []*pane[K, T]
	byKey   map[K][]*pane[K, T]
}

func newPaneSet[K comparable, T any]() *paneSet[K, T] {
	return &paneSet[K, T]{byKey: make(map[K][]*pane[K, T])}
}

func (ps *paneSet[K, T]) getOrCreate(key K, w Window) *pane[K, T] {
	for _, p := range ps.byKey[key] {
		if p.window == w {
			return p
		}
	}
	p := &pane[K, T]{key: key, window: w, state: newMapState()}
	ps.ordered = append(ps.ordered, p)
	ps.byKey[key] = append(ps.byKey[key], p)
	return p
}

// mergeSession folds all of key's panes overlapping [w.Start, w.End) into
// one, keeping items in arrival order, and returns the merged pane.
func (ps *paneSet[K, T]) mergeSession(key K, w Window) *pane[K, T] {
	var merged *pane[K, T]
	for _, p := range ps.byKey[key] {
		if p.window.Start.After(w.End) || w.Start.After(p.window.End) {
			continue
		}
		if merged == nil {
			merged = p
			if w.Start.Before(p.window.Start) {
				p.window.Start = w.Start
			}
			if w.End.After(p.window.End) {
				p.window.End = w.End
			}
			continue
		}
		merged.items = append(merged.items, p.items...)
		if p.window.End.After(merged.window.End) {
			merged.window.End = p.window.End
		}
		if p.window.Start.Before(merged.window.Start) {
			merged.window.Start = p.window.Start
		}
		ps.remove(p)
	}
	if merged == nil {
		merged = ps.getOrCreate(key, w)
	}
	return merged
}

// latePane returns the key's still-open pane whose lateness margin covers
// now: window end at or before now, now before end plus lateness. With
// overlapping windows the youngest such pane wins.
func (ps *paneSet[K, T]) latePane(key K, now time.Time, lateness time.Duration) *pane[K, T] {
	if lateness <= 0 {
		return nil
	}
	var late *pane[K, T]
	for _, p := range ps.byKey[key] {
		if now.Before(p.window.End) || !now.Before(p.window.End.Add(lateness)) {
			continue
		}
		if late == nil || p.window.End.After(late.window.End) {
			late = p
		}
	}
	return late
}

func (ps *paneSet[K, T]) remove(target *pane[K, T]) {
	for i, p := range ps.ordered {
		if p == target {
			ps.ordered = append(ps.ordered[:i], ps.ordered[i+1:]...)
			break
		}
	}
	keyed := ps.byKey[target.key]
	for i, p := range keyed {
		if p == target {
			ps.byKey[target.key] = append(keyed[:i], keyed[i+1:]...)
			break
		}
	}
}

// WindowApply evaluates a window function over each fired pane.
func WindowApply[K comparable, In, Out any](ws *WindowedStream[K, In], fn WindowFunction[K, In, Out]) *DataStream[Out] {
	return windowOperator(ws, "window-apply", fn,
		func(p *pane[K, In], wc *WindowContext, out Collector[Out]) error {
			return fn.Apply(p.key, p.window, NewSliceIterable(p.items), out, wc)
		})
}

// WindowReduce folds each fired pane with a reduce function and emits the
// single reduced element.
func WindowReduce[K comparable, T any](ws *WindowedStream[K, T], fn ReduceFunction[T]) *DataStream[T] {
	return windowOperator(ws, "window-reduce", fn,
		func(p *pane[K, T], _ *WindowContext, out Collector[T]) error {
			acc, err := reducePane(p.items, fn)
			if err != nil {
				return err
			}
			out.Collect(acc)
			return nil
		})
}

// WindowAggregate folds each fired pane through an aggregate function and
// emits the extracted result.
func WindowAggregate[K comparable, In, Acc, Out any](ws *WindowedStream[K, In], agg AggregateFunction[In, Acc, Out]) *DataStream[Out] {
	return windowOperator(ws, "window-aggregate", agg,
		func(p *pane[K, In], _ *WindowContext, out Collector[Out]) error {
			acc := agg.CreateAccumulator()
			for _, item := range p.items {
				acc = agg.Add(acc, item)
			}
			out.Collect(agg.Result(acc))
			return nil
		})
}

// WindowReduceApply pre-aggregates each pane with the reduce function and
// invokes the window function with the single reduced element.
func WindowReduceApply[K comparable, T, Out any](ws *WindowedStream[K, T], reduce ReduceFunction[T], fn WindowFunction[K, T, Out]) *DataStream[Out] {
	return windowOperator(ws, "window-reduce-apply", fn,
		func(p *pane[K, T], wc *WindowContext, out Collector[Out]) error {
			acc, err := reducePane(p.items, reduce)
			if err != nil {
				return err
			}
			return fn.Apply(p.key, p.window, NewSliceIterable([]T{acc}), out, wc)
		})
}

func reducePane[T any](items []T, fn ReduceFunction[T]) (T, error) {
	acc := items[0]
	for _, item := range items[1:] {
		next, err := fn.Reduce(acc, item)
		if err != nil {
			var zero T
			return zero, err
		}
		acc = next
	}
	return acc, nil
}

// windowOperator runs the keyed windowing loop: it assigns incoming
// elements to panes, evaluates the trigger on elements and on processing
// time, applies the evictor, and invokes fire for every pane that fires.
// Remaining panes are flushed in creation order when the input closes.
func windowOperator[K comparable, In, Out any](
	ws *WindowedStream[K, In],
	name string,
	userFn any,
	fire func(p *pane[K, In], wc *WindowContext, out Collector[Out]) error,
) *DataStream[Out] {
	env := ws.keyed.env
	side := newSideOutputBuffer()

	ds := newDataStream(env, name, func(rc *runContext) <-chan Out {
		in := ws.keyed.upstream(rc)
		out := make(chan Out, env.chanSize)

		go func() {
			defer close(out)

			rt := env.runtime(uuid.NewString(), name)
			if err := openFunction(userFn, rt); err != nil {
				rc.fail(err)
				return
			}
			defer func() {
				if err := closeFunction(userFn); err != nil {
					rt.logger.Errorw("Failed to close window function", zap.Error(err))
				}
			}()

			trigger := ws.trigger
			if trigger == nil {
				trigger = ws.assigner.defaultTrigger()
			}

			var tickerC <-chan time.Time
			if d := ws.assigner.tickInterval(); d > 0 {
				ticker := env.clock.NewTicker(d)
				defer ticker.Stop()
				tickerC = ticker.C()
			}

			panes := newPaneSet[K, In]()
			globals := make(map[K]mapState)
			var watermark time.Time
			collector := &chanCollector[Out]{rc: rc, out: out}

			globalFor := func(key K) mapState {
				g, ok := globals[key]
				if !ok {
					g = newMapState()
					globals[key] = g
				}
				return g
			}

			firePane := func(p *pane[K, In]) bool {
				if ws.evictor != nil {
					if drop := ws.evictor.Evict(len(p.items)); drop > 0 {
						p.items = p.items[drop:]
					}
				}
				if len(p.items) == 0 {
					return true
				}
				wc := &WindowContext{
					window:      p.window,
					clock:       env.clock,
					watermark:   func() time.Time { return watermark },
					windowState: p.state,
					globalState: globalFor(p.key),
					side:        side,
				}
				if err := fire(p, wc, collector); err != nil {
					rc.fail(err)
					return false
				}
				return true
			}

			purgePane := func(p *pane[K, In]) {
				if p.window.End.After(watermark) {
					watermark = p.window.End
				}
				panes.remove(p)
			}

			for {
				select {
				case item, ok := <-in:
					if !ok {
						for len(panes.ordered) > 0 {
							p := panes.ordered[0]
							if !firePane(p) {
								return
							}
							purgePane(p)
						}
						return
					}

					key := ws.keyed.selector.Key(item)
					now := env.clock.Now()

					var targets []*pane[K, In]
					switch ws.assigner.kind {
					case assignSession:
						p := panes.mergeSession(key, Window{Start: now, End: now.Add(ws.assigner.gap)})
						targets = []*pane[K, In]{p}
					case assignCount:
						targets = []*pane[K, In]{panes.getOrCreate(key, Window{})}
					default:
						if late := panes.latePane(key, now, ws.lateness); late != nil {
							targets = []*pane[K, In]{late}
							break
						}
						for _, w := range ws.assigner.assign(now) {
							targets = append(targets, panes.getOrCreate(key, w))
						}
					}

					for _, p := range targets {
						p.items = append(p.items, item)
						switch trigger.OnElement(len(p.items), now, p.window) {
						case Fire:
							if !firePane(p) {
								return
							}
						case FireAndPurge:
							if !firePane(p) {
								return
							}
							purgePane(p)
						case Purge:
							purgePane(p)
						case Continue:
						}
					}

				case now := <-tickerC:
					// Snapshot: firing mutates the ordered slice.
					open := append([]*pane[K, In](nil), panes.ordered...)
					for _, p := range open {
						res := trigger.OnTime(now, p.window)
						if res == FireAndPurge && ws.lateness > 0 && now.Before(p.window.End.Add(ws.lateness)) {
							continue
						}
						switch res {
						case Fire:
							if !firePane(p) {
								return
							}
						case FireAndPurge:
							if !firePane(p) {
								return
							}
							purgePane(p)
						case Purge:
							purgePane(p)
						case Continue:
						}
					}

				case <-rc.ctx.Done():
					return
				}
			}
		}()

		return out
	})
	ds.side = side
	return ds
}
