package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityPoint is one point of the equity curve, appended once per processed
// bar. HighWaterMark is non-decreasing across the curve and Drawdown is
// (HWM - equity) / HWM, in [0, 1] while equity stays non-negative.
type EquityPoint struct {
	Timestamp     time.Time
	Equity        decimal.Decimal
	Drawdown      decimal.Decimal
	HighWaterMark decimal.Decimal
}
