// Package daemon holds the single cancellable tick loop shared by all three
// long-running processes (watchdogd, escalationd, processord). None of them
// need more than "do one tick, sleep, repeat until told to stop."
package daemon

import (
	"context"
	"time"
)

// Run calls tick once immediately, then once per interval, until ctx is
// canceled. The timer resets after each tick completes, so interval is the
// wait from the end of one tick to the start of the next (cut short only by
// cancellation) — a slow tick never queues up a backlog of immediate reruns.
func Run(ctx context.Context, interval time.Duration, tick func(context.Context) error) error {
	if err := tick(ctx); err != nil {
		return err
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := tick(ctx); err != nil {
				return err
			}
			timer.Reset(interval)
		}
	}
}
