// Package ratelimit caps how many pins a run may publish per hour, on top
// of the fixed inter-pin pacing delay.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/wait"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow checks if a post is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another post or ctx ends
	Wait(ctx context.Context) error
	// Reset resets the rate limiter state
	Reset()
}

// SlidingWindow implements a sliding window rate limiter
type SlidingWindow struct {
	windowSize  time.Duration
	maxRequests int
	requests    []time.Time
	mu          sync.Mutex
}

// NewSlidingWindow creates a new sliding window rate limiter
func NewSlidingWindow(maxRequests int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		windowSize:  windowSize,
		maxRequests: maxRequests,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// NewPinsPerHour creates a limiter allowing at most n pins per hour
func NewPinsPerHour(n int) *SlidingWindow {
	return NewSlidingWindow(n, time.Hour)
}

// Allow checks if a post can proceed
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}

	return false
}

// Wait blocks until a post is allowed or the context is cancelled. The pause
// is logged once per blocking stretch so long waits are visible in the log.
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	logged := false
	for !sw.Allow() {
		sw.mu.Lock()
		var timeToWait time.Duration
		if len(sw.requests) > 0 {
			oldest := sw.requests[0]
			timeToWait = sw.windowSize - time.Since(oldest)
		}
		sw.mu.Unlock()

		if timeToWait <= 0 {
			timeToWait = 100 * time.Millisecond
		}
		if !logged {
			logger.LogRateLimit(timeToWait.Seconds())
			logged = true
		}
		if err := wait.Sleep(ctx, timeToWait); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears all recorded posts
func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.requests = sw.requests[:0]
}

// cleanOldRequests removes posts outside the sliding window
func (sw *SlidingWindow) cleanOldRequests(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.requests) && sw.requests[i].Before(cutoff) {
		i++
	}

	if i > 0 {
		copy(sw.requests, sw.requests[i:])
		sw.requests = sw.requests[:len(sw.requests)-i]
	}
}

// Unlimited is a limiter that never blocks, used when no pins-per-hour cap
// is configured.
type Unlimited struct{}

func (Unlimited) Allow() bool                    { return true }
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
func (Unlimited) Reset()                         {}
