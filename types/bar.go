package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is a single OHLCV bar. Bars are immutable once loaded; the series
// consumed by the simulator is strictly non-decreasing in timestamp.
type Bar struct {
	Symbol    string          `json:"symbol"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
	Interval  Interval        `json:"interval"`
	Timestamp time.Time       `json:"timestamp"`
}
