// Package throttle spaces outgoing API requests.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle allows one request per interval. When adaptive, an exhausted
// rate-limit window reported through Observe also holds the next request
// until the window resets.
type Throttle struct {
	limiter  *rate.Limiter
	adaptive bool
	until    time.Time
	now      func() time.Time
}

// New returns a throttle admitting one request every interval. The first
// request is admitted immediately. A non-positive interval disables spacing.
func New(interval time.Duration, adaptive bool) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{
		limiter:  rate.NewLimiter(limit, 1),
		adaptive: adaptive,
		now:      time.Now,
	}
}

// Wait blocks until the next request may be sent or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if d := t.until.Sub(t.now()); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return t.limiter.Wait(ctx)
}

// Observe records the rate-limit state reported by the last response.
func (t *Throttle) Observe(remaining int, reset time.Time) {
	if !t.adaptive || remaining > 0 || reset.IsZero() {
		return
	}
	if reset.After(t.until) {
		t.until = reset
	}
}

// Interval returns the configured spacing between requests.
func (t *Throttle) Interval() time.Duration {
	if t.limiter.Limit() == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(t.limiter.Limit()))
}
