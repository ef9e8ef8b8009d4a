package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the ephemeral view of the currently open trade for a symbol. It
// is derived state: created when the trade opens, marked to each bar close,
// and deleted when the trade closes.
type Position struct {
	Symbol        string
	Side          Side
	Size          decimal.Decimal
	Entry         decimal.Decimal
	Current       decimal.Decimal
	UnrealizedPnL decimal.Decimal
	OpenTime      time.Time
}

// MarkPrice updates the mark price and recomputes unrealized PnL.
func (p *Position) MarkPrice(price decimal.Decimal) {
	p.Current = price
	diff := price.Sub(p.Entry)
	if p.Side == SideTypeSell {
		diff = diff.Neg()
	}
	p.UnrealizedPnL = diff.Mul(p.Size)
}

// Value is the current market value of the position.
func (p *Position) Value() decimal.Decimal {
	return p.Size.Mul(p.Current)
}
