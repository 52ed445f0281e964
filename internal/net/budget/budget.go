package budget

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// QuotaExhaustedError is returned when the daily call budget toward the geo
// provider is used up. Callers degrade to cache-only rather than blocking.
type QuotaExhaustedError struct {
	Operation string
	Used      int64
	Limit     int64
	ResetsAt  time.Time
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("daily quota exhausted for %s: %d/%d calls used, resets at %s",
		e.Operation, e.Used, e.Limit, e.ResetsAt.Format("15:04 UTC"))
}

// Tracker tracks daily provider-call usage for one operation class
// (geocode or route). Consumption is atomic; the reset boundary is
// midnight UTC.
type Tracker struct {
	operation string
	limit     int64
	used      int64 // atomic
	lastReset time.Time
	mu        sync.Mutex

	now func() time.Time // injectable clock for tests
}

// NewTracker creates a daily budget tracker for the named operation.
func NewTracker(operation string, limit int64) *Tracker {
	t := &Tracker{
		operation: operation,
		limit:     limit,
		now:       time.Now,
	}
	t.lastReset = midnightUTC(t.now())
	return t
}

func midnightUTC(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (t *Tracker) nextReset() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastReset.Add(24 * time.Hour)
}

func (t *Tracker) resetIfNeeded() {
	now := t.now().UTC()
	t.mu.Lock()
	defer t.mu.Unlock()
	if now.After(t.lastReset.Add(24 * time.Hour)) {
		atomic.StoreInt64(&t.used, 0)
		t.lastReset = midnightUTC(now)
	}
}

// Consume records one provider call. It returns a QuotaExhaustedError when
// the daily limit is already spent; the call counter is not advanced past
// the limit.
func (t *Tracker) Consume() error {
	t.resetIfNeeded()

	used := atomic.AddInt64(&t.used, 1)
	if used > t.limit {
		atomic.AddInt64(&t.used, -1)
		return &QuotaExhaustedError{
			Operation: t.operation,
			Used:      used - 1,
			Limit:     t.limit,
			ResetsAt:  t.nextReset(),
		}
	}
	return nil
}

// Remaining returns the calls left in today's budget.
func (t *Tracker) Remaining() int64 {
	t.resetIfNeeded()
	left := t.limit - atomic.LoadInt64(&t.used)
	if left < 0 {
		return 0
	}
	return left
}

// Stats is a snapshot of the tracker state.
type Stats struct {
	Operation string    `json:"operation"`
	Limit     int64     `json:"limit"`
	Used      int64     `json:"used"`
	Remaining int64     `json:"remaining"`
	NextReset time.Time `json:"next_reset"`
	Exhausted bool      `json:"exhausted"`
}

// Stats returns current budget statistics.
func (t *Tracker) Stats() Stats {
	t.resetIfNeeded()
	used := atomic.LoadInt64(&t.used)
	return Stats{
		Operation: t.operation,
		Limit:     t.limit,
		Used:      used,
		Remaining: t.limit - used,
		NextReset: t.nextReset(),
		Exhausted: used >= t.limit,
	}
}

// Reset clears today's usage. Used by tests and operational tooling.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	atomic.StoreInt64(&t.used, 0)
	t.lastReset = midnightUTC(t.now())
}
