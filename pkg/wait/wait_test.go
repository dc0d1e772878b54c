package wait

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestUntilImmediateSuccess(t *testing.T) {
	calls := 0
	pred := func(ctx context.Context) (bool, error) {
		calls++
		return true, nil
	}

	start := time.Now()
	result, err := Until(context.Background(), pred, Options{
		Timeout:  5 * time.Second,
		Interval: 100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if result != Satisfied {
		t.Errorf("expected Satisfied, got %v", result)
	}
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if elapsed > 50*time.Millisecond {
		t.Errorf("immediate success should not sleep, took %v", elapsed)
	}
}

func TestUntilEventualSuccess(t *testing.T) {
	calls := 0
	pred := func(ctx context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	}

	result, err := Until(context.Background(), pred, Options{
		Timeout:  5 * time.Second,
		Interval: 10 * time.Millisecond,
	})

	if result != Satisfied {
		t.Errorf("expected Satisfied, got %v", result)
	}
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestUntilTimeout(t *testing.T) {
	pred := func(ctx context.Context) (bool, error) {
		return false, nil
	}

	start := time.Now()
	result, err := Until(context.Background(), pred, Options{
		Timeout:  100 * time.Millisecond,
		Interval: 20 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if result != TimedOut {
		t.Errorf("expected TimedOut, got %v", result)
	}
	if err != nil {
		t.Errorf("expected no error for clean timeout, got %v", err)
	}
	// Never exceed the timeout by more than one interval (plus scheduling slack).
	if elapsed > 200*time.Millisecond {
		t.Errorf("wait overran timeout: %v", elapsed)
	}
}

func TestUntilZeroTimeoutChecksOnce(t *testing.T) {
	calls := 0
	pred := func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	}

	result, _ := Until(context.Background(), pred, Options{
		Timeout:  0,
		Interval: 10 * time.Millisecond,
	})

	if result != TimedOut {
		t.Errorf("expected TimedOut, got %v", result)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call with zero timeout, got %d", calls)
	}
}

func TestUntilTransientErrorsKeepPolling(t *testing.T) {
	calls := 0
	pred := func(ctx context.Context) (bool, error) {
		calls++
		if calls < 3 {
			return false, errors.New("element detached")
		}
		return true, nil
	}

	result, err := Until(context.Background(), pred, Options{
		Timeout:  5 * time.Second,
		Interval: 10 * time.Millisecond,
	})

	if result != Satisfied {
		t.Errorf("expected Satisfied despite transient errors, got %v", result)
	}
	if err != nil {
		t.Errorf("expected no error after success, got %v", err)
	}
}

func TestUntilTimeoutReportsLastError(t *testing.T) {
	lastErr := errors.New("stale element")
	pred := func(ctx context.Context) (bool, error) {
		return false, lastErr
	}

	result, err := Until(context.Background(), pred, Options{
		Timeout:  50 * time.Millisecond,
		Interval: 10 * time.Millisecond,
	})

	if result != TimedOut {
		t.Errorf("expected TimedOut, got %v", result)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("expected last predicate error, got %v", err)
	}
}

func TestUntilContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	pred := func(ctx context.Context) (bool, error) {
		if calls.Add(1) == 2 {
			cancel()
		}
		return false, nil
	}

	result, err := Until(ctx, pred, Options{
		Timeout:  10 * time.Second,
		Interval: 10 * time.Millisecond,
	})

	if result != TimedOut {
		t.Errorf("expected TimedOut on cancellation, got %v", result)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSleepZeroDelay(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("expected nil for zero delay, got %v", err)
	}
}

func TestConstantBackoff(t *testing.T) {
	cb := &ConstantBackoff{Delay: 2 * time.Second}

	if got := cb.NextDelay(0); got != 0 {
		t.Errorf("expected 0 for attempt 0, got %v", got)
	}
	for attempt := 1; attempt <= 5; attempt++ {
		if got := cb.NextDelay(attempt); got != 2*time.Second {
			t.Errorf("attempt %d: expected 2s, got %v", attempt, got)
		}
	}
}

func TestExponentialBackoffGrowth(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		JitterFactor: 0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second}, // capped
		{10, time.Second},
	}

	for _, tt := range tests {
		if got := eb.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.want, got)
		}
	}
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.5,
	}

	for i := 0; i < 100; i++ {
		delay := eb.NextDelay(2)
		if delay < 100*time.Millisecond || delay > 300*time.Millisecond {
			t.Fatalf("jittered delay %v outside expected bounds", delay)
		}
	}
}
