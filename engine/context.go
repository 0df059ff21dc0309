package engine

import (
	"time"

	"go.uber.org/zap"
)

// RuntimeContext is handed to RichFunction implementations before their
// first invocation. It identifies the operator the function runs in and
// exposes the environment's clock and logger.
type RuntimeContext struct {
	operatorID string
	name       string
	clock      Clock
	logger     *zap.SugaredLogger
}

// OperatorID returns the unique id of the operator instance.
func (rc *RuntimeContext) OperatorID() string {
	return rc.operatorID
}

// OperatorName returns the operator's descriptive name.
func (rc *RuntimeContext) OperatorName() string {
	return rc.name
}

// Clock returns the environment clock.
func (rc *RuntimeContext) Clock() Clock {
	return rc.clock
}

// Logger returns the operator logger.
func (rc *RuntimeContext) Logger() *zap.SugaredLogger {
	return rc.logger
}

// WindowContext is the per-invocation context a WindowFunction receives.
// All accessors are uncached reads of live operator state.
type WindowContext struct {
	window      Window
	clock       Clock
	watermark   func() time.Time
	windowState KeyedState
	globalState KeyedState
	side        *sideOutputBuffer
}

// Window returns the window being evaluated.
func (c *WindowContext) Window() Window {
	return c.window
}

// CurrentProcessingTime reads the clock at call time.
func (c *WindowContext) CurrentProcessingTime() time.Time {
	return c.clock.Now()
}

// CurrentWatermark returns the operator's current watermark: the end time
// of the latest pane it has purged.
func (c *WindowContext) CurrentWatermark() time.Time {
	return c.watermark()
}

// WindowState returns state scoped to this (key, window) pane. It is
// discarded when the pane is purged.
func (c *WindowContext) WindowState() KeyedState {
	return c.windowState
}

// GlobalState returns state scoped to the current key across all windows.
func (c *WindowContext) GlobalState() KeyedState {
	return c.globalState
}

// Output emits a value to a side output. The tag and value are forwarded
// as given.
func (c *WindowContext) Output(tag OutputTag, value any) {
	c.side.add(tag, value)
}
