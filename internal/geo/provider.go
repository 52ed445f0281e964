package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matchforge/matchengine/internal/domain"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocode is the outcome of resolving an address. Unknown is a first-class
// result, not an error: it means the provider answered but with confidence
// below the usable threshold.
type Geocode struct {
	Coordinate
	Confidence float64 `json:"conf"`
	Unknown    bool    `json:"unknown,omitempty"`
}

// Provider is the capability interface over the external geocoding and
// routing service. The production implementation talks to a remote API;
// tests and offline runs plug in the deterministic fake.
type Provider interface {
	Geocode(ctx context.Context, address string) (Geocode, error)
	TravelTime(ctx context.Context, from, to Coordinate, mode domain.TransportMode, at time.Time) (time.Duration, error)
}

// ErrQuotaExhausted is returned when either the per-second or the daily
// provider budget is spent. Callers degrade to cache-only behavior.
var ErrQuotaExhausted = errors.New("geo provider quota exhausted")

// TransientError marks a provider failure worth retrying (network blips,
// 5xx responses, provider-side throttling).
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient geo provider error during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
