package breakers

import (
	"time"

	cb "github.com/sony/gobreaker"
)

// Breaker shields the matching path from a misbehaving geo provider. Once
// open, provider calls fail fast and scorers fall back to neutral location
// scores instead of stalling the whole request.
type Breaker struct{ cb *cb.CircuitBreaker }

// New creates a breaker tuned for short-deadline provider calls: trip on 3
// consecutive failures or a >20% failure rate over at least 10 requests,
// retry after 30s.
func New(name string) *Breaker {
	st := cb.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		total := counts.Requests
		if total < 10 {
			return false
		}
		return float64(counts.TotalFailures)/float64(total) > 0.20
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

// Execute runs fn under the breaker.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	return b.cb.Execute(fn)
}

// State returns the current breaker state string (closed, half-open, open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}
