// Package wait provides polling-based synchronization with the pin builder
// page. Conditions are expressed as predicates that are re-checked on a fixed
// interval until they hold or a deadline passes.
package wait

import (
	"context"
	"time"
)

// Predicate reports whether the awaited condition currently holds.
// A non-nil error means the check itself could not complete this round;
// Until treats that as "not yet" and keeps polling.
type Predicate func(ctx context.Context) (bool, error)

// Result describes how a wait ended
type Result int

const (
	// Satisfied means the predicate reported true before the deadline
	Satisfied Result = iota
	// TimedOut means the deadline passed without the predicate holding
	TimedOut
)

// String returns a human-readable result name
func (r Result) String() string {
	switch r {
	case Satisfied:
		return "satisfied"
	case TimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Options holds wait configuration
type Options struct {
	// Timeout is the total time budget for the wait
	Timeout time.Duration
	// Interval is the delay between predicate checks
	Interval time.Duration
	// Backoff optionally grows the interval between checks. When set it
	// takes precedence over Interval.
	Backoff BackoffStrategy
}

// DefaultOptions returns wait options with sensible defaults
func DefaultOptions() Options {
	return Options{
		Timeout:  30 * time.Second,
		Interval: 500 * time.Millisecond,
	}
}

// Until polls pred until it reports true, the timeout elapses, or ctx is
// cancelled. The predicate is always checked at least once, even with a zero
// timeout. The total wait never exceeds the timeout by more than one
// interval. Transient predicate errors do not abort the wait; the last one
// is returned alongside TimedOut so callers can log the cause.
func Until(ctx context.Context, pred Predicate, opts Options) (Result, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}

	deadline := time.Now().Add(opts.Timeout)
	attempt := 0
	var lastErr error

	for {
		attempt++

		if err := ctx.Err(); err != nil {
			return TimedOut, err
		}

		ok, err := pred(ctx)
		if ok {
			return Satisfied, nil
		}
		if err != nil {
			lastErr = err
		}

		if !time.Now().Before(deadline) {
			return TimedOut, lastErr
		}

		delay := opts.Interval
		if opts.Backoff != nil {
			delay = opts.Backoff.NextDelay(attempt)
		}
		if err := Sleep(ctx, delay); err != nil {
			return TimedOut, err
		}
	}
}

// Sleep waits for the specified duration or until ctx is cancelled
func Sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
