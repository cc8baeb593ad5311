package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ReadsRulesFromEnv(t *testing.T) {
	t.Setenv("DEBT_SYNC_ON_SOURCE_EDIT", "true")
	t.Setenv("DEBT_OVERDUE_DAYS", "45")
	t.Setenv("LARGE_DEBT_THRESHOLD", "2500.50")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("STATS_CACHE_TTL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Rules.DebtSyncOnSourceEdit)
	assert.False(t, cfg.Rules.RequireDistinctApprovers)
	assert.Equal(t, 45, cfg.Rules.DebtOverdueDays)
	assert.Equal(t, 14, cfg.Rules.OrderStallDays)
	assert.True(t, decimal.RequireFromString("2500.5").Equal(cfg.Rules.LargeDebtThreshold))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
}

func TestParseDurationOr_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DURATION", "soon")
	_, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, parseDurationOr("JWT_EXPIRY_DURATION", time.Hour))
}
