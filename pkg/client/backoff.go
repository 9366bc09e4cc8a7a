package client

import (
	"math/rand"
	"time"
)

// BackoffStrategy defines how long to wait before retry attempt n.
type BackoffStrategy interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff grows the delay by Factor per attempt up to Max and
// spreads it by ±Jitter.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	Jitter float64 // 0.0 to 1.0
}

// DefaultBackoff waits 50ms, 100ms, 200ms... capped at 2s, ±20%.
func DefaultBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		Base:   50 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2.0,
		Jitter: 0.2,
	}
}

// Next returns the wait before the given 0-based attempt.
func (b *ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(b.Base)
	for i := 0; i < attempt && delay < float64(b.Max); i++ {
		delay *= b.Factor
	}
	if delay > float64(b.Max) {
		delay = float64(b.Max)
	}
	if b.Jitter > 0 {
		delay += delay * (rand.Float64()*2 - 1) * b.Jitter
	}
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}

// NoBackoff retries immediately.
type NoBackoff struct{}

func (NoBackoff) Next(int) time.Duration { return 0 }
