package config

import (
	"testing"
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.True(t, cfg.InterestPostingAtPeriodEnd)
	assert.Equal(t, time.January, cfg.FiscalYearStartMonth)
	assert.False(t, cfg.BackdatedTxnsPivotMode)
	assert.Equal(t, domain.RoundHalfEven, cfg.RoundingMode)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, time.UTC, cfg.BusinessDateLocation)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("FISCAL_YEAR_START_MONTH", "4")
	t.Setenv("BACKDATED_TXNS_PIVOT_MODE", "true")
	t.Setenv("INTEREST_POSTING_AT_PERIOD_END", "false")
	t.Setenv("ROUNDING_MODE", "half_up")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, time.April, cfg.FiscalYearStartMonth)
	assert.True(t, cfg.BackdatedTxnsPivotMode)
	assert.False(t, cfg.InterestPostingAtPeriodEnd)
	assert.Equal(t, domain.RoundHalfUp, cfg.RoundingMode)
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.Bool("backdated-txns-pivot-mode", false, "")
	require.NoError(t, fs.Parse([]string{"--log-level=debug"}))

	cfg, err := LoadConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.BackdatedTxnsPivotMode, "unset flags do not override")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("FISCAL_YEAR_START_MONTH", "13")
	_, err := LoadConfig(nil)
	assert.Error(t, err)

	t.Setenv("FISCAL_YEAR_START_MONTH", "1")
	t.Setenv("ROUNDING_MODE", "SIDEWAYS")
	_, err = LoadConfig(nil)
	assert.Error(t, err)

	t.Setenv("ROUNDING_MODE", "HALF_EVEN")
	t.Setenv("BUSINESS_DATE_TIMEZONE", "Mars/Olympus")
	_, err = LoadConfig(nil)
	assert.Error(t, err)
}
