package geo

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/matchforge/matchengine/internal/domain"
)

// FakeProvider is a deterministic in-memory provider used by tests and the
// offline CLI mode. Addresses resolve against a fixed gazetteer; travel
// times derive from great-circle distance and per-mode speeds, so results
// are stable across runs.
type FakeProvider struct {
	mu sync.Mutex

	// Latency is added to every call, for deadline tests.
	Latency time.Duration

	// FailNext makes the next N calls return a transient error.
	FailNext int

	// RouteOverrides pins exact travel times per (from,to,mode) when the
	// derived estimate is not what a test needs.
	RouteOverrides map[string]time.Duration

	calls int
}

// fakeGazetteer maps location tokens to coordinates. Lookup is by token
// containment over the normalized address.
var fakeGazetteer = map[string]Coordinate{
	"paris":      {Lat: 48.8566, Lon: 2.3522},
	"la defense": {Lat: 48.8897, Lon: 2.2419},
	"boulogne":   {Lat: 48.8352, Lon: 2.2409},
	"meaux":      {Lat: 48.9603, Lon: 2.8883},
	"roissy":     {Lat: 49.0097, Lon: 2.5479},
	"cdg":        {Lat: 49.0097, Lon: 2.5479},
	"versailles": {Lat: 48.8014, Lon: 2.1301},
	"lyon":       {Lat: 45.7640, Lon: 4.8357},
	"marseille":  {Lat: 43.2965, Lon: 5.3698},
	"lille":      {Lat: 50.6292, Lon: 3.0573},
	"nantes":     {Lat: 47.2184, Lon: -1.5536},
	"bordeaux":   {Lat: 44.8378, Lon: -0.5792},
}

// Average door-to-door speed and fixed overhead per mode.
var fakeModeProfiles = map[domain.TransportMode]struct {
	kmh      float64
	overhead time.Duration
}{
	domain.ModeCar:             {kmh: 40, overhead: 10 * time.Minute},
	domain.ModePublicTransport: {kmh: 30, overhead: 15 * time.Minute},
	domain.ModeBike:            {kmh: 15, overhead: 5 * time.Minute},
	domain.ModeWalk:            {kmh: 5, overhead: 0},
}

// NewFakeProvider creates a deterministic fake provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{RouteOverrides: make(map[string]time.Duration)}
}

func (f *FakeProvider) beforeCall(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls++
	shouldFail := f.FailNext > 0
	if shouldFail {
		f.FailNext--
	}
	latency := f.Latency
	f.mu.Unlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if shouldFail {
		return &TransientError{Op: op, Err: context.DeadlineExceeded}
	}
	return nil
}

// Calls returns how many provider calls were made.
func (f *FakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Geocode resolves against the fixed gazetteer. Addresses with no known
// token come back with confidence 0.2, which the gateway maps to an
// UNKNOWN_ADDRESS result.
func (f *FakeProvider) Geocode(ctx context.Context, address string) (Geocode, error) {
	if err := f.beforeCall(ctx, "geocode"); err != nil {
		return Geocode{}, err
	}

	normalized := NormalizeAddress(address)
	for token, coord := range fakeGazetteer {
		if strings.Contains(normalized, token) {
			return Geocode{Coordinate: coord, Confidence: 0.95}, nil
		}
	}
	return Geocode{Confidence: 0.2}, nil
}

// TravelTime estimates door-to-door travel time from great-circle distance.
func (f *FakeProvider) TravelTime(ctx context.Context, from, to Coordinate, mode domain.TransportMode, at time.Time) (time.Duration, error) {
	if err := f.beforeCall(ctx, "route"); err != nil {
		return 0, err
	}

	f.mu.Lock()
	override, ok := f.RouteOverrides[coordID(from)+">"+coordID(to)+":"+string(mode)]
	f.mu.Unlock()
	if ok {
		return override, nil
	}

	profile, ok := fakeModeProfiles[mode]
	if !ok {
		// REMOTE and unknown modes have no travel component.
		return 0, nil
	}

	km := haversineKm(from, to)
	travel := time.Duration(km/profile.kmh*60) * time.Minute
	return travel + profile.overhead, nil
}

// OverrideRoute pins the travel time for a (from,to,mode) triple.
func (f *FakeProvider) OverrideRoute(from, to Coordinate, mode domain.TransportMode, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RouteOverrides[coordID(from)+">"+coordID(to)+":"+string(mode)] = d
}

const earthRadiusKm = 6371.0

func haversineKm(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
