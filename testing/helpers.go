// Package testing provides shared test utilities for streambind.
package testing

import (
	"testing"
	"time"
)

// CollectWithTimeout gathers everything a channel produces until it closes
// or the timeout elapses.
func CollectWithTimeout[T any](t *testing.T, ch <-chan T, timeout time.Duration) []T {
	t.Helper()

	var items []T
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case item, ok := <-ch:
			if !ok {
				return items
			}
			items = append(items, item)
		case <-timer.C:
			return items
		}
	}
}

// FeedAndClose sends every item to the channel and closes it.
func FeedAndClose[T any](ch chan<- T, items []T) {
	for _, item := range items {
		ch <- item
	}
	close(ch)
}
