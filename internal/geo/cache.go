package geo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/matchforge/matchengine/internal/telemetry/metrics"
)

// ttlStore is a thread-safe in-process cache with per-entry expiration and
// a janitor goroutine sweeping expired items.
type ttlStore struct {
	mu      sync.RWMutex
	items   map[string]ttlItem
	stop    chan struct{}
	stopped sync.Once
}

type ttlItem struct {
	value      any
	expiration int64
}

func newTTLStore(cleanupInterval time.Duration) *ttlStore {
	s := &ttlStore{
		items: make(map[string]ttlItem),
		stop:  make(chan struct{}),
	}
	go s.janitor(cleanupInterval)
	return s
}

func (s *ttlStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flushExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *ttlStore) flushExpired() {
	now := time.Now().UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, item := range s.items {
		if item.expiration > 0 && now > item.expiration {
			delete(s.items, key)
		}
	}
}

func (s *ttlStore) set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = ttlItem{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
}

func (s *ttlStore) get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, found := s.items[key]
	if !found {
		return nil, false
	}
	if item.expiration > 0 && time.Now().UnixNano() > item.expiration {
		return nil, false
	}
	return item.value, true
}

func (s *ttlStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *ttlStore) close() {
	s.stopped.Do(func() { close(s.stop) })
}

// geocodeRecord is the L2 serialization of a geocode result.
type geocodeRecord struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Conf      float64 `json:"conf"`
	ExpiresAt int64   `json:"expires_at"`
}

// routeRecord is the L2 serialization of a travel time.
type routeRecord struct {
	Minutes   float64 `json:"minutes"`
	ExpiresAt int64   `json:"expires_at"`
}

// Cache layers the in-process geo cache over an optional Redis L2. The L2
// is best effort: Redis errors degrade to L1-only and are logged at debug.
type Cache struct {
	l1         *ttlStore
	l2         *redis.Client
	geocodeTTL time.Duration
	routeTTL   time.Duration
	metrics    *metrics.Registry
}

// NewCache creates the geo cache. redisClient may be nil for L1-only mode.
func NewCache(geocodeTTL, routeTTL time.Duration, redisClient *redis.Client, reg *metrics.Registry) *Cache {
	return &Cache{
		l1:         newTTLStore(time.Minute),
		l2:         redisClient,
		geocodeTTL: geocodeTTL,
		routeTTL:   routeTTL,
		metrics:    reg,
	}
}

// Close stops the janitor goroutine.
func (c *Cache) Close() {
	c.l1.close()
}

// GetGeocode looks up a geocode by cache key.
func (c *Cache) GetGeocode(ctx context.Context, key string) (Geocode, bool) {
	if v, ok := c.l1.get(key); ok {
		c.metrics.RecordGeoCacheHit("geocode", "l1")
		return v.(Geocode), true
	}
	if c.l2 != nil {
		if rec, ok := c.l2Get(ctx, key); ok {
			var stored geocodeRecord
			if err := json.Unmarshal(rec, &stored); err == nil {
				g := Geocode{
					Coordinate: Coordinate{Lat: stored.Lat, Lon: stored.Lon},
					Confidence: stored.Conf,
					Unknown:    stored.Conf < 0.4,
				}
				c.l1.set(key, g, c.geocodeTTL)
				c.metrics.RecordGeoCacheHit("geocode", "l2")
				return g, true
			}
		}
	}
	c.metrics.RecordGeoCacheMiss("geocode")
	return Geocode{}, false
}

// SetGeocode stores a geocode in both tiers.
func (c *Cache) SetGeocode(ctx context.Context, key string, g Geocode) {
	c.l1.set(key, g, c.geocodeTTL)
	if c.l2 == nil {
		return
	}
	rec := geocodeRecord{
		Lat:       g.Lat,
		Lon:       g.Lon,
		Conf:      g.Confidence,
		ExpiresAt: time.Now().Add(c.geocodeTTL).Unix(),
	}
	c.l2Set(ctx, key, rec, c.geocodeTTL)
}

// GetRoute looks up a travel time in minutes by cache key.
func (c *Cache) GetRoute(ctx context.Context, key string) (float64, bool) {
	if v, ok := c.l1.get(key); ok {
		c.metrics.RecordGeoCacheHit("route", "l1")
		return v.(float64), true
	}
	if c.l2 != nil {
		if rec, ok := c.l2Get(ctx, key); ok {
			var stored routeRecord
			if err := json.Unmarshal(rec, &stored); err == nil {
				c.l1.set(key, stored.Minutes, c.routeTTL)
				c.metrics.RecordGeoCacheHit("route", "l2")
				return stored.Minutes, true
			}
		}
	}
	c.metrics.RecordGeoCacheMiss("route")
	return 0, false
}

// SetRoute stores a travel time in both tiers.
func (c *Cache) SetRoute(ctx context.Context, key string, minutes float64) {
	c.l1.set(key, minutes, c.routeTTL)
	if c.l2 == nil {
		return
	}
	rec := routeRecord{
		Minutes:   minutes,
		ExpiresAt: time.Now().Add(c.routeTTL).Unix(),
	}
	c.l2Set(ctx, key, rec, c.routeTTL)
}

func (c *Cache) l2Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	b, err := c.l2.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("geo L2 read failed")
		}
		return nil, false
	}
	return b, true
}

func (c *Cache) l2Set(ctx context.Context, key string, value any, ttl time.Duration) {
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if err := c.l2.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("geo L2 write failed")
	}
}
