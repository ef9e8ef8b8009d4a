// Package momentum contains a simple breakout strategy: BUY whenever the bar
// closes more than a threshold above the previous close.
package momentum

import (
	"github.com/shopspring/decimal"

	"tradesim/internal/engine"
	"tradesim/types"
)

const StrategyID = "momentum-breakout"

// DefaultThreshold signals on a close 2% above the previous close.
var DefaultThreshold = decimal.NewFromFloat(1.02)

// New returns the breakout strategy as an engine.StrategyFunc. threshold is
// the close/prevClose ratio that triggers a BUY.
func New(threshold decimal.Decimal) engine.StrategyFunc {
	return func(current, previous types.Bar) *types.Signal {
		if !current.Close.GreaterThan(previous.Close.Mul(threshold)) {
			return nil
		}
		signal := types.NewSignal(
			current.Symbol,
			types.SideTypeBuy,
			current.Close,
			0.8,
			StrategyID,
			current.Timestamp,
		)
		return &signal
	}
}
