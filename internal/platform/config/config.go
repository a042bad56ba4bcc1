package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	MigrationsPath string

	// Interest posting policy
	InterestPostingAtPeriodEnd bool
	FiscalYearStartMonth       time.Month
	BackdatedTxnsPivotMode     bool
	RoundingMode               domain.RoundingMode
	BusinessDateLocation       *time.Location
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("INTEREST_POSTING_AT_PERIOD_END", true)
	v.SetDefault("FISCAL_YEAR_START_MONTH", 1)
	v.SetDefault("BACKDATED_TXNS_PIVOT_MODE", false)
	v.SetDefault("ROUNDING_MODE", string(domain.RoundHalfEven))
	v.SetDefault("BUSINESS_DATE_TIMEZONE", "UTC")
}

// LoadConfig loads configuration from a .env file if present, then the
// environment. Flags in fs that were set explicitly override both; flag names
// map to keys by upper-casing and replacing dashes, so --fiscal-year-start-month
// overrides FISCAL_YEAR_START_MONTH.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if fs != nil {
		var bindErr error
		fs.Visit(func(f *pflag.Flag) {
			key := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:                v.GetString("PGSQL_URL"),
		IsProduction:               v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:              v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:                   v.GetString("LOG_LEVEL"),
		MigrationsPath:             v.GetString("MIGRATIONS_PATH"),
		InterestPostingAtPeriodEnd: v.GetBool("INTEREST_POSTING_AT_PERIOD_END"),
		BackdatedTxnsPivotMode:     v.GetBool("BACKDATED_TXNS_PIVOT_MODE"),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}

	month := v.GetInt("FISCAL_YEAR_START_MONTH")
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid FISCAL_YEAR_START_MONTH %d: must be between 1 and 12", month)
	}
	cfg.FiscalYearStartMonth = time.Month(month)

	mode, err := domain.ParseRoundingMode(v.GetString("ROUNDING_MODE"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROUNDING_MODE: %w", err)
	}
	cfg.RoundingMode = mode

	loc, err := time.LoadLocation(v.GetString("BUSINESS_DATE_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_DATE_TIMEZONE: %w", err)
	}
	cfg.BusinessDateLocation = loc

	return cfg, nil
}
