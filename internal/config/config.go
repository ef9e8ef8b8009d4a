// Package config loads the application configuration from the environment,
// with documented defaults for every tunable.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is the full configuration surface for a backtest run.
type Config struct {
	DatabaseURL string `validate:"required,url"`
	WebhookURL  string `validate:"omitempty,url"`

	Symbol     string `validate:"required"`
	Timeframe  string `validate:"required"`
	StrategyID string
	StartDate  time.Time
	EndDate    time.Time

	InitialBalance decimal.Decimal
	RiskPerTrade   decimal.Decimal
	MaxDrawdown    decimal.Decimal
	MaxExposure    decimal.Decimal
	Commission     decimal.Decimal
	Slippage       decimal.Decimal

	CSVPath string
}

// Load reads .env when present, applies defaults, and validates the result.
func Load() (*Config, error) {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		WebhookURL:     getEnv("WEBHOOK_URL", ""),
		Symbol:         getEnv("SYMBOL", ""),
		Timeframe:      getEnv("TIMEFRAME", "D"),
		StrategyID:     getEnv("STRATEGY_ID", "momentum-breakout"),
		InitialBalance: getEnvDecimal("INITIAL_BALANCE", "10000"),
		RiskPerTrade:   getEnvDecimal("RISK_PER_TRADE", "0.02"),
		MaxDrawdown:    getEnvDecimal("MAX_DRAWDOWN", "0.15"),
		MaxExposure:    getEnvDecimal("MAX_EXPOSURE", "0.8"),
		Commission:     getEnvDecimal("COMMISSION", "0"),
		Slippage:       getEnvDecimal("SLIPPAGE", "0"),
		CSVPath:        getEnv("CSV_PATH", ""),
	}

	var err error
	if cfg.StartDate, err = getEnvDate("START_DATE"); err != nil {
		return nil, err
	}
	if cfg.EndDate, err = getEnvDate("END_DATE"); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.RequireFromString(fallback)
	}
	return d
}

func getEnvDate(key string) (time.Time, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD, got %q", key, raw)
	}
	return t, nil
}
