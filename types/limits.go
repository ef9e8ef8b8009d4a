package types

import (
	"github.com/shopspring/decimal"
)

// RiskLimits is an immutable, versioned set of portfolio risk limits. A new
// version is produced through risk.Analyzer.UpdateLimits rather than by
// mutating a shared value in place.
type RiskLimits struct {
	MaxPositionSize      decimal.Decimal // fraction of capital per position
	MaxPortfolioExposure decimal.Decimal // fraction of capital across positions
	MaxDrawdown          decimal.Decimal // per-position drawdown alert level
	StopLossThreshold    decimal.Decimal // per-position stop-loss alert level
	VolatilityThreshold  decimal.Decimal // annualized volatility ceiling
	Version              int64
}

// DefaultRiskLimits returns the documented default limits: 20% position size,
// 80% portfolio exposure, 15% drawdown, 5% stop loss, 30% volatility.
func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		MaxPositionSize:      decimal.NewFromFloat(0.2),
		MaxPortfolioExposure: decimal.NewFromFloat(0.8),
		MaxDrawdown:          decimal.NewFromFloat(0.15),
		StopLossThreshold:    decimal.NewFromFloat(0.05),
		VolatilityThreshold:  decimal.NewFromFloat(0.3),
		Version:              1,
	}
}
