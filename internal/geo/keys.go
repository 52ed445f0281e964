package geo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/matchforge/matchengine/internal/domain"
)

// NormalizeAddress canonicalizes a free-form address for cache keying:
// lower case, trimmed, interior whitespace collapsed.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

// GeocodeKey returns the cache key for a normalized address.
// Format: geo:v1:addr:{sha256(normalized_address)}.
func GeocodeKey(normalizedAddress string) string {
	sum := sha256.Sum256([]byte(normalizedAddress))
	return "geo:v1:addr:" + hex.EncodeToString(sum[:])
}

// coordID renders a coordinate as a stable identifier. Four decimals
// (~11m) is enough resolution for route caching.
func coordID(c Coordinate) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// RouteKey returns the cache key for a travel-time lookup, bucketed by
// hour so traffic-dependent times expire together.
// Format: geo:v1:route:{from_id}:{to_id}:{mode}:{hour_bucket}.
func RouteKey(from, to Coordinate, mode domain.TransportMode, at time.Time) string {
	bucket := at.UTC().Truncate(time.Hour).Format("2006010215")
	return fmt.Sprintf("geo:v1:route:%s:%s:%s:%s", coordID(from), coordID(to), mode, bucket)
}
