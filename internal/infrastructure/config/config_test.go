package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, 25, cfg.DatabaseMaxConns)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, 15*time.Minute, cfg.StaleReservationAge)
	require.Equal(t, "4001000001", cfg.FeeIncomeAccount)
	require.Equal(t, "0.85", cfg.RiskThreshold)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_MAX_CONNS", "50")
	t.Setenv("STALE_RESERVATION_AGE", "30m")
	t.Setenv("RISK_THRESHOLD", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.HTTPPort)
	require.Equal(t, 50, cfg.DatabaseMaxConns)
	require.Equal(t, 30*time.Minute, cfg.StaleReservationAge)
	require.Equal(t, "0.5", cfg.RiskThreshold)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("DATABASE_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}
