package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchforge/matchengine/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 175*time.Millisecond, cfg.DeadlineTotal)
	assert.Equal(t, 30*time.Millisecond, cfg.DeadlinePerScorer)
	assert.Equal(t, 50*time.Millisecond, cfg.DeadlinePerExternalCall)
	assert.Equal(t, 128, cfg.ConcurrencyLimit)
	assert.Equal(t, int64(10000), cfg.GeoProviderDailyQuota)
	assert.Equal(t, 720*time.Hour, cfg.GeocodeTTL)
	assert.Equal(t, time.Hour, cfg.RouteTTL)
	assert.Equal(t, domain.GateStrict, cfg.HardGateDefault)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DEADLINE_MS_TOTAL", "250")
	t.Setenv("CONCURRENCY_LIMIT", "16")
	t.Setenv("HARD_GATE_DEFAULT", "ADVISORY")
	t.Setenv("CACHE_ROUTE_TTL_HOURS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.DeadlineTotal)
	assert.Equal(t, 16, cfg.ConcurrencyLimit)
	assert.Equal(t, domain.GateAdvisory, cfg.HardGateDefault)
	assert.Equal(t, 2*time.Hour, cfg.RouteTTL)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv("DEADLINE_MS_TOTAL", "fast")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownGateMode(t *testing.T) {
	t.Setenv("HARD_GATE_DEFAULT", "LENIENT")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsZeroConcurrency(t *testing.T) {
	t.Setenv("CONCURRENCY_LIMIT", "0")
	_, err := Load()
	require.Error(t, err)
}
