// Package engine is the native operator-graph API of the stream engine.
//
// It owns everything the fluent binding layer above it does not: window
// assignment, trigger evaluation, eviction, keyed state, and the channel
// executor that actually runs a graph. Callers normally do not use this
// package directly; they go through the streambind wrappers, which adapt
// plain Go closures and iterators to the function-object and
// iterable/collector conventions defined here.
//
// A graph is built lazily: every DataStream holds a function that, when the
// stream is executed, opens its upstream chain and returns the channel it
// reads from. Execution starts when a terminal operation (Collect, ForEach)
// is invoked and finishes when the source channel closes or the context is
// canceled.
package engine

import (
	"context"
	"sync"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Clock provides time operations for deterministic testing.
type Clock = clockz.Clock

// Timer represents a single event timer.
type Timer = clockz.Timer

// Ticker delivers ticks at intervals.
type Ticker = clockz.Ticker

// RealClock is the default Clock using standard time.
var RealClock Clock = clockz.RealClock

// Env carries the shared facilities every operator in a graph uses:
// the clock, the logger, and the channel size for operator links.
type Env struct {
	clock    Clock
	logger   *zap.SugaredLogger
	chanSize int
}

// Option configures an Env.
type Option func(*Env)

// WithClock sets the clock used by time-based operators.
func WithClock(c Clock) Option {
	return func(e *Env) { e.clock = c }
}

// WithLogger sets the logger operators report through.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Env) { e.logger = l }
}

// WithChannelSize sets the buffer size of the channels linking operators.
func WithChannelSize(n int) Option {
	return func(e *Env) {
		if n > 0 {
			e.chanSize = n
		}
	}
}

// NewEnv creates an execution environment. By default it uses the real
// clock, a nop logger, and unbuffered operator links.
func NewEnv(opts ...Option) *Env {
	e := &Env{
		clock:  RealClock,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the clock time-based operators read from.
func (e *Env) Clock() Clock {
	return e.clock
}

// Logger returns the environment's logger.
func (e *Env) Logger() *zap.SugaredLogger {
	return e.logger
}

// runContext tracks a single execution of a graph. The first operator
// failure is recorded and cancels the run; later failures are dropped.
type runContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func newRunContext(ctx context.Context) *runContext {
	ctx, cancel := context.WithCancel(ctx)
	return &runContext{ctx: ctx, cancel: cancel}
}

// fail records the first error of the run and cancels every operator.
func (rc *runContext) fail(err error) {
	rc.mu.Lock()
	if rc.err == nil {
		rc.err = err
	}
	rc.mu.Unlock()
	rc.cancel()
}

func (rc *runContext) error() error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.err
}
