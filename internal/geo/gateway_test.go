package geo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchforge/matchengine/internal/domain"
)

func testConfig() GatewayConfig {
	cfg := DefaultGatewayConfig()
	cfg.CallTimeout = 200 * time.Millisecond
	cfg.RetryBase = 5 * time.Millisecond
	cfg.ProviderRPS = 1000
	cfg.ProviderBurst = 1000
	return cfg
}

func newTestGateway(cfg GatewayConfig) (*Gateway, *FakeProvider, *Cache) {
	provider := NewFakeProvider()
	cache := NewCache(cfg.GeocodeTTL, cfg.RouteTTL, nil, nil)
	return NewGateway(provider, cache, nil, cfg), provider, cache
}

func TestGateway_GeocodeCaching(t *testing.T) {
	gw, provider, cache := newTestGateway(testConfig())
	defer cache.Close()
	ctx := context.Background()

	first, err := gw.Geocode(ctx, "10 Rue de Rivoli, Paris")
	require.NoError(t, err)
	assert.False(t, first.Unknown)
	assert.InDelta(t, 48.8566, first.Lat, 0.01)

	// Same address, different formatting: must hit the cache.
	second, err := gw.Geocode(ctx, "10  rue de rivoli,  PARIS")
	require.NoError(t, err)
	assert.Equal(t, first.Coordinate, second.Coordinate)
	assert.Equal(t, 1, provider.Calls(), "second lookup should be served from cache")
}

func TestGateway_UnknownAddress(t *testing.T) {
	gw, _, cache := newTestGateway(testConfig())
	defer cache.Close()

	result, err := gw.Geocode(context.Background(), "42 nowhere imaginary street")
	require.NoError(t, err, "low confidence is a result, not an error")
	assert.True(t, result.Unknown)
}

func TestGateway_QuotaExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.ProviderRPS = 1
	cfg.ProviderBurst = 1
	gw, _, cache := newTestGateway(cfg)
	defer cache.Close()
	ctx := context.Background()

	_, err := gw.Geocode(ctx, "Paris")
	require.NoError(t, err)

	// Distinct address, no burst left: must fail fast, not block.
	start := time.Now()
	_, err = gw.Geocode(ctx, "Lyon")
	assert.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "quota failure must not block")
}

func TestGateway_DailyQuotaExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.DailyQuota = 1
	gw, _, cache := newTestGateway(cfg)
	defer cache.Close()
	ctx := context.Background()

	_, err := gw.Geocode(ctx, "Paris")
	require.NoError(t, err)

	_, err = gw.Geocode(ctx, "Lyon")
	assert.ErrorIs(t, err, ErrQuotaExhausted)

	// Cached entries keep working after exhaustion.
	cached, err := gw.Geocode(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, cached.Unknown)
}

func TestGateway_RetriesTransientErrors(t *testing.T) {
	gw, provider, cache := newTestGateway(testConfig())
	defer cache.Close()

	provider.FailNext = 2 // two transient failures, third attempt succeeds
	result, err := gw.Geocode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.False(t, result.Unknown)
	assert.Equal(t, 3, provider.Calls())
}

func TestGateway_RetriesExhausted(t *testing.T) {
	gw, provider, cache := newTestGateway(testConfig())
	defer cache.Close()

	provider.FailNext = 5
	_, err := gw.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.Equal(t, 3, provider.Calls(), "retries are bounded to 3 attempts")
}

func TestGateway_TravelTimeCaching(t *testing.T) {
	gw, provider, cache := newTestGateway(testConfig())
	defer cache.Close()
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	paris := Coordinate{Lat: 48.8566, Lon: 2.3522}
	meaux := Coordinate{Lat: 48.9603, Lon: 2.8883}

	first, err := gw.TravelTime(ctx, meaux, paris, domain.ModePublicTransport, at)
	require.NoError(t, err)
	assert.Greater(t, first, 30.0)

	// Same hour bucket: cached.
	second, err := gw.TravelTime(ctx, meaux, paris, domain.ModePublicTransport, at.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.Calls())

	// New hour bucket: refetch.
	_, err = gw.TravelTime(ctx, meaux, paris, domain.ModePublicTransport, at.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, provider.Calls())
}

func TestGateway_SingleFlightCoalescing(t *testing.T) {
	cfg := testConfig()
	gw, provider, cache := newTestGateway(cfg)
	defer cache.Close()
	provider.Latency = 30 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gw.Geocode(context.Background(), "Paris")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, provider.Calls(), "concurrent identical lookups must collapse into one call")
}

func TestGateway_ContextCancellation(t *testing.T) {
	gw, provider, cache := newTestGateway(testConfig())
	defer cache.Close()
	provider.Latency = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := gw.Geocode(ctx, "Paris")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrQuotaExhausted))
}

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  10 Rue   de Rivoli  ", "10 rue de rivoli"},
		{"PARIS", "paris"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeAddress(tc.in))
	}
}

func TestRouteKey_HourBucket(t *testing.T) {
	from := Coordinate{Lat: 48.8566, Lon: 2.3522}
	to := Coordinate{Lat: 48.9603, Lon: 2.8883}

	a := RouteKey(from, to, domain.ModeCar, time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC))
	b := RouteKey(from, to, domain.ModeCar, time.Date(2026, 3, 10, 9, 55, 0, 0, time.UTC))
	c := RouteKey(from, to, domain.ModeCar, time.Date(2026, 3, 10, 10, 5, 0, 0, time.UTC))

	assert.Equal(t, a, b, "same hour bucket")
	assert.NotEqual(t, a, c, "different hour bucket")
}
