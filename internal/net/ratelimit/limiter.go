package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter caps the request rate toward the geo provider using a token
// bucket. The geo gateway calls Allow on the hot path: a denied token is
// reported as quota exhaustion rather than queueing the caller.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a limiter with the given requests-per-second and burst.
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether one provider call may proceed right now.
func (l *Limiter) Allow() bool {
	return l.bucket.Allow()
}

// Wait blocks until a token is available or the context is cancelled.
// Only used by warm-up paths; request-path code uses Allow.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}

// Tokens returns the number of tokens currently available.
func (l *Limiter) Tokens() float64 {
	return l.bucket.Tokens()
}

// SetRPS updates the sustained request rate.
func (l *Limiter) SetRPS(rps float64) {
	l.bucket.SetLimit(rate.Limit(rps))
}

// Stats is a point-in-time view of the limiter state.
type Stats struct {
	RPS             float64       `json:"rps"`
	Burst           int           `json:"burst"`
	TokensAvailable float64       `json:"tokens_available"`
	Delay           time.Duration `json:"delay"`
}

// Stats returns the current limiter statistics.
func (l *Limiter) Stats() Stats {
	res := l.bucket.Reserve()
	delay := res.Delay()
	res.Cancel()

	return Stats{
		RPS:             float64(l.bucket.Limit()),
		Burst:           l.bucket.Burst(),
		TokensAvailable: l.bucket.Tokens(),
		Delay:           delay,
	}
}

// Throttled reports whether the limiter is currently delaying requests.
func (s Stats) Throttled() bool {
	return s.Delay > 0
}
