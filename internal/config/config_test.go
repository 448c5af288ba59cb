package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("PERFSTATS_DATA_DIR", dir)
	t.Setenv("TIINGO_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("WATCHLIST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 252, cfg.Analytics.PeriodsPerYear)
	assert.Equal(t, 20, cfg.Analytics.RollingWindow)
	assert.Equal(t, "0 30 22 * * MON-FRI", cfg.Scheduler.WarmCacheSchedule)
	assert.Equal(t, 365, cfg.Scheduler.LookbackDays)
	assert.Nil(t, cfg.Scheduler.Watchlist)
	assert.False(t, cfg.Export.S3Enabled())
	assert.Empty(t, cfg.TiingoToken)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PERFSTATS_DATA_DIR", t.TempDir())
	t.Setenv("TIINGO_API_KEY", "")
	t.Setenv("API_KEY", "legacy-token")
	t.Setenv("PORT", "9090")
	t.Setenv("OFFLINE_MODE", "true")
	t.Setenv("RISK_FREE_RATE", "0.0001")
	t.Setenv("WATCHLIST", "spy, qqq,spy")
	t.Setenv("EXPORT_S3_BUCKET", "reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "legacy-token", cfg.TiingoToken)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.OfflineMode)
	assert.InDelta(t, 0.0001, cfg.Analytics.RiskFreeRate, 1e-12)
	assert.Equal(t, []string{"SPY", "QQQ"}, cfg.Scheduler.Watchlist)
	assert.True(t, cfg.Export.S3Enabled())
}

func TestLoad_TiingoKeyTakesPrecedence(t *testing.T) {
	t.Setenv("PERFSTATS_DATA_DIR", t.TempDir())
	t.Setenv("TIINGO_API_KEY", "primary")
	t.Setenv("API_KEY", "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.TiingoToken)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PERFSTATS_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-number")
	t.Setenv("DEV_MODE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:      8080,
			Analytics: AnalyticsConfig{PeriodsPerYear: 252, RollingWindow: 20},
			Scheduler: SchedulerConfig{LookbackDays: 365, CacheMaxAgeDays: 30},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "zero periods", mutate: func(c *Config) { c.Analytics.PeriodsPerYear = 0 }, wantErr: true},
		{name: "window of one", mutate: func(c *Config) { c.Analytics.RollingWindow = 1 }, wantErr: true},
		{name: "zero lookback", mutate: func(c *Config) { c.Scheduler.LookbackDays = 0 }, wantErr: true},
		{name: "negative cache age", mutate: func(c *Config) { c.Scheduler.CacheMaxAgeDays = -1 }, wantErr: true},
		{name: "zero cache age disables pruning", mutate: func(c *Config) { c.Scheduler.CacheMaxAgeDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
