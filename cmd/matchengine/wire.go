package main

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/matchforge/matchengine/internal/config"
	"github.com/matchforge/matchengine/internal/geo"
	"github.com/matchforge/matchengine/internal/hierarchy"
	"github.com/matchforge/matchengine/internal/scoring/engine"
	"github.com/matchforge/matchengine/internal/scoring/scorers"
	"github.com/matchforge/matchengine/internal/scoring/weights"
	"github.com/matchforge/matchengine/internal/telemetry/metrics"
	"github.com/matchforge/matchengine/internal/transport"
)

// Margin reserved for gate application and diagnostics after the scorer
// fan-out finishes.
const assemblyMargin = 25 * time.Millisecond

// buildEngine wires the full stack from configuration. The returned
// cleanup stops the cache janitor.
func buildEngine(cfg *config.Config) (*engine.Engine, *metrics.Registry, func(), error) {
	reg := metrics.NewRegistry()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis L2 geo cache enabled")
	}
	cache := geo.NewCache(cfg.GeocodeTTL, cfg.RouteTTL, redisClient, reg)

	gatewayCfg := geo.DefaultGatewayConfig()
	gatewayCfg.GeocodeTTL = cfg.GeocodeTTL
	gatewayCfg.RouteTTL = cfg.RouteTTL
	gatewayCfg.ProviderRPS = cfg.GeoProviderRPS
	gatewayCfg.DailyQuota = cfg.GeoProviderDailyQuota
	gatewayCfg.CallTimeout = cfg.DeadlinePerExternalCall

	// The external provider binding is deployment-specific; the binary
	// ships with the deterministic in-memory provider.
	if cfg.GeoProviderAPIKey != "" {
		log.Warn().Msg("GEO_PROVIDER_API_KEY set but no external provider is linked; using the built-in provider")
	}
	gateway := geo.NewGateway(geo.NewFakeProvider(), cache, reg, gatewayCfg)

	tables, err := loadTables(cfg)
	if err != nil {
		cache.Close()
		return nil, nil, nil, err
	}
	registry, err := loadMatrices(cfg)
	if err != nil {
		cache.Close()
		return nil, nil, nil, err
	}

	set := scorers.NewSet(tables, transport.NewPreFilter(gateway))

	engineCfg := engine.Config{
		TotalDeadline:   cfg.DeadlineTotal,
		ScorerBudget:    cfg.DeadlineTotal - assemblyMargin,
		ScorerDeadline:  cfg.DeadlinePerScorer,
		Concurrency:     cfg.ConcurrencyLimit,
		HardGateDefault: cfg.HardGateDefault,
	}
	if engineCfg.ScorerBudget <= 0 {
		engineCfg.ScorerBudget = cfg.DeadlineTotal
	}

	eng := engine.New(registry, set, hierarchy.NewDetector(), reg, engineCfg)
	return eng, reg, cache.Close, nil
}

func loadTables(cfg *config.Config) (*scorers.Tables, error) {
	if cfg.SynonymsPath == "" {
		return scorers.DefaultTables(), nil
	}
	tables, err := scorers.LoadTables(cfg.SynonymsPath)
	if err != nil {
		return nil, fmt.Errorf("synonym tables: %w", err)
	}
	return tables, nil
}

func loadMatrices(cfg *config.Config) (*weights.Registry, error) {
	if cfg.MatrixConfigPath == "" {
		return weights.LoadDefault()
	}
	registry, err := weights.LoadFromFile(cfg.MatrixConfigPath)
	if err != nil {
		return nil, fmt.Errorf("weight matrices: %w", err)
	}
	return registry, nil
}
