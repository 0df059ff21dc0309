package engine

import "time"

// TriggerResult tells the window operator what to do with a pane after a
// trigger evaluation.
type TriggerResult int

const (
	// Continue keeps the pane open without firing.
	Continue TriggerResult = iota
	// Fire evaluates the pane's function but keeps its contents.
	Fire
	// FireAndPurge evaluates the pane's function and discards the pane.
	FireAndPurge
	// Purge discards the pane without firing.
	Purge
)

// Trigger decides when a window pane is evaluated. OnElement runs after
// each element is added to the pane; OnTime runs on every processing-time
// tick for every open pane.
type Trigger interface {
	OnElement(count int, now time.Time, w Window) TriggerResult
	OnTime(now time.Time, w Window) TriggerResult
}

// ProcessingTimeTrigger fires-and-purges a pane once processing time
// passes the window end. This is the default for time-based assigners.
type ProcessingTimeTrigger struct{}

func (ProcessingTimeTrigger) OnElement(int, time.Time, Window) TriggerResult {
	return Continue
}

func (ProcessingTimeTrigger) OnTime(now time.Time, w Window) TriggerResult {
	if !now.Before(w.End) {
		return FireAndPurge
	}
	return Continue
}

// CountTrigger fires-and-purges a pane once it holds n elements. This is
// the default for count windows.
func CountTrigger(n int) Trigger {
	if n < 1 {
		n = 1
	}
	return countTrigger{n: n}
}

type countTrigger struct {
	n int
}

func (t countTrigger) OnElement(count int, _ time.Time, _ Window) TriggerResult {
	if count >= t.n {
		return FireAndPurge
	}
	return Continue
}

func (countTrigger) OnTime(time.Time, Window) TriggerResult {
	return Continue
}
