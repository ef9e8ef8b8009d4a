package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

// Adjustment is the sizer's answer for one candidate trade.
type Adjustment struct {
	StopLoss     decimal.Decimal
	TakeProfit   decimal.Decimal
	AdjustedSize decimal.Decimal
	RiskRatio    decimal.Decimal
}

// Validation is the outcome of a pure risk-parameter check. Every violated
// rule is accumulated; the check never short-circuits.
type Validation struct {
	IsValid bool
	Reasons []string
}

// RiskAdjuster derives stop-loss, take-profit and a risk-capped position size
// from an ATR volatility estimate. It only reads risk configuration, never
// mutates it.
type RiskAdjuster struct {
	cfg SizerConfig
}

func NewRiskAdjuster(cfg SizerConfig) *RiskAdjuster {
	return &RiskAdjuster{cfg: cfg}
}

// Adjust sizes a candidate trade. The stop sits one ATR multiple away from
// price, size is shrunk (never grown) so the stop risk stays within
// MaxRiskPerTrade of balance, and the take-profit target ratio is clamped to
// [MinRiskRatio, MaxRiskRatio].
//
// Returns ErrRiskRatio when the stop distance is zero or negative: the signal
// must be rejected, not retried with the same inputs.
func (r *RiskAdjuster) Adjust(price, size, atr decimal.Decimal, side types.Side, balance decimal.Decimal) (Adjustment, error) {
	if !balance.IsPositive() {
		return Adjustment{}, fmt.Errorf("%w: non-positive balance", ErrInvalidConfig)
	}

	stopDistance := atr.Mul(r.cfg.ATRMultiplier)
	var stopLoss decimal.Decimal
	if side == types.SideTypeBuy {
		stopLoss = price.Sub(stopDistance)
	} else {
		stopLoss = price.Add(stopDistance)
	}

	riskPerUnit := price.Sub(stopLoss).Abs()
	if !riskPerUnit.IsPositive() {
		return Adjustment{}, ErrRiskRatio
	}
	if !size.IsPositive() {
		return Adjustment{}, fmt.Errorf("%w: non-positive size", ErrRiskRatio)
	}

	totalRisk := riskPerUnit.Mul(size)
	riskFraction := totalRisk.Div(balance)

	adjustedSize := size
	if riskFraction.GreaterThan(r.cfg.MaxRiskPerTrade) {
		adjustedSize = r.cfg.MaxRiskPerTrade.Mul(balance).Div(riskPerUnit)
	}

	// Target ratio scales with how much the size was cut, clamped to the
	// configured reward:risk band.
	targetRatio := adjustedSize.Div(size).Mul(r.cfg.SizeRatioScale)
	targetRatio = decimal.Min(decimal.Max(r.cfg.MinRiskRatio, targetRatio), r.cfg.MaxRiskRatio)

	profitDistance := riskPerUnit.Mul(targetRatio)
	var takeProfit decimal.Decimal
	if side == types.SideTypeBuy {
		takeProfit = price.Add(profitDistance)
	} else {
		takeProfit = price.Sub(profitDistance)
	}

	return Adjustment{
		StopLoss:     stopLoss,
		TakeProfit:   takeProfit,
		AdjustedSize: adjustedSize,
		RiskRatio:    profitDistance.Div(riskPerUnit),
	}, nil
}

// Validate checks a proposed trade's risk parameters without mutating any
// state. It is reusable outside the sizing path, e.g. for manually proposed
// trades.
func (r *RiskAdjuster) Validate(price, stopLoss, takeProfit, size, balance decimal.Decimal) Validation {
	var reasons []string

	stopDistance := price.Sub(stopLoss).Abs()
	if !stopDistance.IsPositive() {
		reasons = append(reasons, "invalid stop loss distance")
	}

	profitDistance := price.Sub(takeProfit).Abs()
	if !profitDistance.IsPositive() {
		reasons = append(reasons, "invalid take profit distance")
	}

	if stopDistance.IsPositive() {
		riskRatio := profitDistance.Div(stopDistance)
		if riskRatio.LessThan(r.cfg.MinRiskRatio) {
			reasons = append(reasons, fmt.Sprintf("risk ratio below minimum (%s)", r.cfg.MinRiskRatio))
		}
		if riskRatio.GreaterThan(r.cfg.MaxRiskRatio) {
			reasons = append(reasons, fmt.Sprintf("risk ratio above maximum (%s)", r.cfg.MaxRiskRatio))
		}
	}

	if balance.IsPositive() {
		riskFraction := stopDistance.Mul(size).Div(balance)
		if riskFraction.GreaterThan(r.cfg.MaxRiskPerTrade) {
			reasons = append(reasons, fmt.Sprintf("risk per trade exceeds maximum (%s%%)", r.cfg.MaxRiskPerTrade.Mul(decimal.NewFromInt(100))))
		}
	} else {
		reasons = append(reasons, "non-positive balance")
	}

	return Validation{IsValid: len(reasons) == 0, Reasons: reasons}
}
