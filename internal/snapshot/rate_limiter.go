package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// defaultRemaining is the GitHub API budget assumed before the first
	// response tells us otherwise.
	defaultRemaining = 5000

	// lowWatermark is the remaining-request threshold below which we park
	// until the reported reset time.
	lowWatermark = 10

	// minInterval spaces out consecutive API calls.
	minInterval = 100 * time.Millisecond
)

// RateLimiter paces GitHub API calls. Wait blocks until the next call is
// safe; UpdateLimit feeds back the budget reported by the previous response.
type RateLimiter interface {
	Wait(ctx context.Context) error
	UpdateLimit(remaining int, resetTime time.Time)
}

type rateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	lastCall  time.Time
}

// NewRateLimiter creates a rate limiter primed with the default API budget.
func NewRateLimiter() RateLimiter {
	return &rateLimiter{
		remaining: defaultRemaining,
		resetTime: time.Now().Add(time.Hour),
	}
}

// Wait blocks until another API call may be made. When the remaining budget
// is nearly exhausted it parks until the reset time reported by the API.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remaining <= lowWatermark {
		parkFor := time.Until(r.resetTime)
		if parkFor > 0 {
			fmt.Printf("  Rate limit low (%d remaining), waiting %v until reset...\n", r.remaining, parkFor.Round(time.Second))
			if err := r.sleep(ctx, parkFor); err != nil {
				return err
			}
		}
		r.remaining = defaultRemaining
		r.resetTime = time.Now().Add(time.Hour)
	}

	if elapsed := time.Since(r.lastCall); elapsed < minInterval {
		if err := r.sleep(ctx, minInterval-elapsed); err != nil {
			return err
		}
	}

	r.lastCall = time.Now()
	return nil
}

// sleep releases the mutex while parked so UpdateLimit calls from in-flight
// responses are not blocked.
func (r *rateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// UpdateLimit records the budget reported in an API response header.
func (r *rateLimiter) UpdateLimit(remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = remaining
	r.resetTime = resetTime
}
