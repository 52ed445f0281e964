// Package config loads runtime settings from the environment, with an
// optional .env file for local development. Every knob has a production
// default; Load never fails on a missing variable, only on a malformed one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/matchforge/matchengine/internal/domain"
)

// Config is the full runtime configuration of the service.
type Config struct {
	HTTPAddr string

	DeadlineTotal           time.Duration
	DeadlinePerScorer       time.Duration
	DeadlinePerExternalCall time.Duration
	ConcurrencyLimit        int

	GeoProviderAPIKey     string
	GeoProviderDailyQuota int64
	GeoProviderRPS        float64

	GeocodeTTL time.Duration
	RouteTTL   time.Duration
	RedisAddr  string // empty disables the L2 cache

	HardGateDefault  domain.HardGateMode
	MatrixConfigPath string // empty uses the built-in matrices
	SynonymsPath     string // empty uses the built-in tables
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	cfg := &Config{
		HTTPAddr:          envString("HTTP_ADDR", ":8080"),
		GeoProviderAPIKey: envString("GEO_PROVIDER_API_KEY", ""),
		RedisAddr:         envString("REDIS_ADDR", ""),
		MatrixConfigPath:  envString("MATRIX_CONFIG_PATH", ""),
		SynonymsPath:      envString("SYNONYMS_CONFIG_PATH", ""),
	}

	var err error
	if cfg.DeadlineTotal, err = envMillis("DEADLINE_MS_TOTAL", 175); err != nil {
		return nil, err
	}
	if cfg.DeadlinePerScorer, err = envMillis("DEADLINE_MS_PER_SCORER", 30); err != nil {
		return nil, err
	}
	if cfg.DeadlinePerExternalCall, err = envMillis("DEADLINE_MS_PER_EXTERNAL_CALL", 50); err != nil {
		return nil, err
	}
	if cfg.ConcurrencyLimit, err = envInt("CONCURRENCY_LIMIT", 128); err != nil {
		return nil, err
	}
	if cfg.GeoProviderDailyQuota, err = envInt64("GEO_PROVIDER_DAILY_QUOTA", 10000); err != nil {
		return nil, err
	}
	if cfg.GeoProviderRPS, err = envFloat("GEO_PROVIDER_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.GeocodeTTL, err = envHours("CACHE_GEOCODE_TTL_HOURS", 720); err != nil {
		return nil, err
	}
	if cfg.RouteTTL, err = envHours("CACHE_ROUTE_TTL_HOURS", 1); err != nil {
		return nil, err
	}

	switch gate := domain.HardGateMode(envString("HARD_GATE_DEFAULT", string(domain.GateStrict))); gate {
	case domain.GateStrict, domain.GateAdvisory:
		cfg.HardGateDefault = gate
	default:
		return nil, fmt.Errorf("HARD_GATE_DEFAULT: unknown mode %q", gate)
	}

	if cfg.ConcurrencyLimit < 1 {
		return nil, fmt.Errorf("CONCURRENCY_LIMIT must be at least 1, got %d", cfg.ConcurrencyLimit)
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envMillis(key string, fallback int) (time.Duration, error) {
	n, err := envInt(key, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func envHours(key string, fallback int) (time.Duration, error) {
	n, err := envInt(key, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Hour, nil
}
