package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := New(2.0, 2) // 2 RPS, burst of 2

	if !limiter.Allow() {
		t.Error("First request should be allowed")
	}
	if !limiter.Allow() {
		t.Error("Second request should be allowed")
	}

	// Burst exhausted: third request should be denied, not queued.
	if limiter.Allow() {
		t.Error("Third request should be denied")
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := New(10.0, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		t.Errorf("Wait should not error on first request: %v", err)
	}

	// Second token becomes available within ~100ms at 10 RPS.
	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Errorf("Wait should succeed once a token refills: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Errorf("Wait took too long: %v", elapsed)
	}
}

func TestLimiter_SetRPS(t *testing.T) {
	limiter := New(1.0, 1)
	limiter.SetRPS(100.0)

	stats := limiter.Stats()
	if stats.RPS != 100.0 {
		t.Errorf("Expected RPS 100.0 after update, got %.1f", stats.RPS)
	}
}

func TestLimiter_Stats(t *testing.T) {
	limiter := New(5.0, 3)

	stats := limiter.Stats()
	if stats.Burst != 3 {
		t.Errorf("Expected burst 3, got %d", stats.Burst)
	}
	if stats.Throttled() {
		t.Error("Fresh limiter should not be throttled")
	}

	for i := 0; i < 3; i++ {
		limiter.Allow()
	}
	stats = limiter.Stats()
	if stats.TokensAvailable >= 1.0 {
		t.Errorf("Tokens should be depleted after burst, got %.2f", stats.TokensAvailable)
	}
}
