package geo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/matchforge/matchengine/internal/domain"
	"github.com/matchforge/matchengine/internal/infra/breakers"
	"github.com/matchforge/matchengine/internal/net/budget"
	"github.com/matchforge/matchengine/internal/net/ratelimit"
	"github.com/matchforge/matchengine/internal/telemetry/metrics"
)

// GatewayConfig tunes caching, quotas and retry behavior of the gateway.
type GatewayConfig struct {
	GeocodeTTL           time.Duration // long TTL, addresses barely move
	RouteTTL             time.Duration // short TTL, traffic-dependent
	ProviderRPS          float64
	ProviderBurst        int
	DailyQuota           int64
	CallTimeout          time.Duration // per external call
	MinGeocodeConfidence float64

	RetryAttempts int
	RetryBase     time.Duration
	RetryFactor   float64
}

// DefaultGatewayConfig returns production defaults.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		GeocodeTTL:           720 * time.Hour, // 30 days
		RouteTTL:             time.Hour,
		ProviderRPS:          10,
		ProviderBurst:        10,
		DailyQuota:           10000,
		CallTimeout:          50 * time.Millisecond,
		MinGeocodeConfidence: 0.4,
		RetryAttempts:        3,
		RetryBase:            100 * time.Millisecond,
		RetryFactor:          2.0,
	}
}

// Gateway fronts the external geo provider with caching, single-flight
// coalescing, rate and daily-quota budgets, a circuit breaker and bounded
// retries. It is safe for concurrent use and lives for the process lifetime.
type Gateway struct {
	provider Provider
	cache    *Cache
	limiter  *ratelimit.Limiter
	quota    *budget.Tracker
	breaker  *breakers.Breaker
	flights  singleflight.Group
	metrics  *metrics.Registry
	cfg      GatewayConfig
}

// NewGateway wires a gateway around the given provider and cache.
func NewGateway(provider Provider, cache *Cache, reg *metrics.Registry, cfg GatewayConfig) *Gateway {
	return &Gateway{
		provider: provider,
		cache:    cache,
		limiter:  ratelimit.New(cfg.ProviderRPS, cfg.ProviderBurst),
		quota:    budget.NewTracker("geo", cfg.DailyQuota),
		breaker:  breakers.New("geo-provider"),
		metrics:  reg,
		cfg:      cfg,
	}
}

// Geocode resolves an address to a coordinate, serving from cache when
// possible. Low-confidence resolutions come back with Unknown=true rather
// than an error. ErrQuotaExhausted means no budget was available for an
// upstream call.
func (g *Gateway) Geocode(ctx context.Context, address string) (Geocode, error) {
	normalized := NormalizeAddress(address)
	if normalized == "" {
		return Geocode{Unknown: true}, nil
	}
	key := GeocodeKey(normalized)

	if cached, ok := g.cache.GetGeocode(ctx, key); ok {
		return cached, nil
	}

	// Concurrent lookups for the same address collapse into one upstream call.
	v, err, _ := g.flights.Do(key, func() (any, error) {
		if cached, ok := g.cache.GetGeocode(ctx, key); ok {
			return cached, nil
		}
		if err := g.acquireQuota(); err != nil {
			return Geocode{}, err
		}

		var result Geocode
		err := g.callProvider(ctx, "geocode", func(callCtx context.Context) error {
			var callErr error
			result, callErr = g.provider.Geocode(callCtx, normalized)
			return callErr
		})
		if err != nil {
			return Geocode{}, err
		}

		if result.Confidence < g.cfg.MinGeocodeConfidence {
			result.Unknown = true
		}
		g.cache.SetGeocode(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return Geocode{}, err
	}
	return v.(Geocode), nil
}

// TravelTime computes the door-to-door travel time in minutes for one mode.
func (g *Gateway) TravelTime(ctx context.Context, from, to Coordinate, mode domain.TransportMode, at time.Time) (float64, error) {
	if at.IsZero() {
		at = time.Now()
	}
	key := RouteKey(from, to, mode, at)

	if minutes, ok := g.cache.GetRoute(ctx, key); ok {
		return minutes, nil
	}

	v, err, _ := g.flights.Do(key, func() (any, error) {
		if minutes, ok := g.cache.GetRoute(ctx, key); ok {
			return minutes, nil
		}
		if err := g.acquireQuota(); err != nil {
			return float64(0), err
		}

		var d time.Duration
		err := g.callProvider(ctx, "route", func(callCtx context.Context) error {
			var callErr error
			d, callErr = g.provider.TravelTime(callCtx, from, to, mode, at)
			return callErr
		})
		if err != nil {
			return float64(0), err
		}

		minutes := d.Minutes()
		g.cache.SetRoute(ctx, key, minutes)
		return minutes, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// acquireQuota checks both the per-second limiter and the daily budget.
// Failure degrades to cache-only: the caller gets ErrQuotaExhausted
// immediately instead of queueing behind the limiter.
func (g *Gateway) acquireQuota() error {
	if !g.limiter.Allow() {
		g.metrics.RecordQuotaExhausted()
		return fmt.Errorf("%w: per-second limit", ErrQuotaExhausted)
	}
	if err := g.quota.Consume(); err != nil {
		g.metrics.RecordQuotaExhausted()
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	}
	return nil
}

// callProvider runs one provider operation under the circuit breaker with
// bounded exponential backoff on transient failures.
func (g *Gateway) callProvider(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := g.breaker.Execute(func() (any, error) {
		var lastErr error
		for attempt := 0; attempt < g.cfg.RetryAttempts; attempt++ {
			if attempt > 0 {
				if err := g.backoff(ctx, attempt); err != nil {
					return nil, err
				}
			}

			callCtx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
			err := fn(callCtx)
			cancel()

			if err == nil {
				g.metrics.RecordProviderCall(op, "ok")
				return nil, nil
			}
			lastErr = err
			if !IsTransient(err) && !errors.Is(err, context.DeadlineExceeded) {
				g.metrics.RecordProviderCall(op, "error")
				return nil, err
			}
			log.Debug().Err(err).Str("operation", op).Int("attempt", attempt+1).Msg("geo provider call failed")
		}
		g.metrics.RecordProviderCall(op, "exhausted_retries")
		return nil, fmt.Errorf("geo provider %s failed after %d attempts: %w", op, g.cfg.RetryAttempts, lastErr)
	})
	return err
}

// backoff sleeps for base·factor^(attempt-1) with ±50% jitter, honoring ctx.
func (g *Gateway) backoff(ctx context.Context, attempt int) error {
	delay := float64(g.cfg.RetryBase)
	for i := 1; i < attempt; i++ {
		delay *= g.cfg.RetryFactor
	}
	jittered := time.Duration(delay * (0.5 + rand.Float64()))

	timer := time.NewTimer(jittered)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// QuotaStats exposes the daily budget state for health reporting.
func (g *Gateway) QuotaStats() budget.Stats {
	return g.quota.Stats()
}

// BreakerState exposes the provider breaker state for health reporting.
func (g *Gateway) BreakerState() string {
	return g.breaker.State()
}
