package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

// RunConfig configures one backtest run.
type RunConfig struct {
	InitialBalance decimal.Decimal
	Symbol         string
	Timeframe      types.Interval
	StartDate      time.Time
	EndDate        time.Time
	StrategyID     string

	RiskPerTrade decimal.Decimal // fraction of balance risked per trade
	MaxDrawdown  decimal.Decimal
	MaxExposure  decimal.Decimal
	Commission   decimal.Decimal // rate applied to size * price per leg
	Slippage     decimal.Decimal // rate applied to close price per leg

	ATRPeriod    int
	ShowProgress bool
	Parameters   map[string]string
}

// NewRunConfig returns a RunConfig with the documented defaults:
// 2% risk per trade, ATR period 20, zero execution costs.
func NewRunConfig(symbol string, timeframe types.Interval, initialBalance decimal.Decimal) RunConfig {
	return RunConfig{
		InitialBalance: initialBalance,
		Symbol:         symbol,
		Timeframe:      timeframe,
		RiskPerTrade:   decimal.NewFromFloat(0.02),
		MaxDrawdown:    decimal.NewFromFloat(0.15),
		MaxExposure:    decimal.NewFromFloat(0.8),
		Commission:     decimal.Zero,
		Slippage:       decimal.Zero,
		ATRPeriod:      20,
	}
}

func (c RunConfig) validate() error {
	if !c.InitialBalance.IsPositive() {
		return fmt.Errorf("%w: initial balance must be positive", ErrInvalidConfig)
	}
	if c.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidConfig)
	}
	if _, ok := types.IntervalToTime[c.Timeframe]; !ok {
		return fmt.Errorf("%w: unknown timeframe %q", ErrInvalidConfig, c.Timeframe)
	}
	if c.RiskPerTrade.IsNegative() {
		return fmt.Errorf("%w: risk per trade must not be negative", ErrInvalidConfig)
	}
	if c.Commission.IsNegative() || c.Slippage.IsNegative() {
		return fmt.Errorf("%w: commission and slippage rates must not be negative", ErrInvalidConfig)
	}
	if c.ATRPeriod <= 0 {
		return fmt.Errorf("%w: ATR period must be positive", ErrInvalidConfig)
	}
	return nil
}

// SizerConfig configures the position sizer / risk adjuster.
type SizerConfig struct {
	MaxRiskPerTrade decimal.Decimal
	MinRiskRatio    decimal.Decimal
	MaxRiskRatio    decimal.Decimal
	ATRMultiplier   decimal.Decimal
	// SizeRatioScale scales the adjusted/requested size ratio when deriving
	// the take-profit target. Tunable; the conventional value is 2.
	SizeRatioScale decimal.Decimal
}

// NewSizerConfig returns the documented sizer defaults: 2% max risk per
// trade, 1.5-5 risk:reward clamp, 2x ATR stop distance.
func NewSizerConfig() SizerConfig {
	return SizerConfig{
		MaxRiskPerTrade: decimal.NewFromFloat(0.02),
		MinRiskRatio:    decimal.NewFromFloat(1.5),
		MaxRiskRatio:    decimal.NewFromInt(5),
		ATRMultiplier:   decimal.NewFromInt(2),
		SizeRatioScale:  decimal.NewFromInt(2),
	}
}

// ReportingConfig controls post-run report output.
type ReportingConfig struct {
	PrintReport bool
	CSVPath     string
}
