package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is created OPEN when a signal is accepted and becomes CLOSED when an
// opposing condition or end-of-series forces liquidation. At most one open
// trade exists per symbol at a time.
type Trade struct {
	ID          int64
	Symbol      string
	Side        Side
	Status      TradeStatus
	Entry       decimal.Decimal
	Exit        decimal.Decimal // zero until closed
	Size        decimal.Decimal
	EntryTime   time.Time
	ExitTime    time.Time
	PnL         decimal.Decimal // realized, net of exit costs
	Commission  decimal.Decimal // entry + exit commission
	Slippage    decimal.Decimal // entry + exit slippage
	HoldingDays int
	StrategyID  string
	Signals     []Signal
}

func (t *Trade) Closed() bool {
	return t.Status == TradeStateClosed
}

// GrossPnL is the direction-signed price move times size, before costs.
func (t *Trade) GrossPnL() decimal.Decimal {
	diff := t.Exit.Sub(t.Entry)
	if t.Side == SideTypeSell {
		diff = diff.Neg()
	}
	return diff.Mul(t.Size)
}
