package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Signal is the output of a strategy evaluation for one bar. It is consumed
// once by the simulator and not retained beyond the trade it spawns.
type Signal struct {
	Symbol     string
	Side       Side
	Price      decimal.Decimal
	Confidence float64
	StrategyID string
	Metadata   map[string]string
	CreatedAt  time.Time
}

func NewSignal(
	symbol string,
	side Side,
	price decimal.Decimal,
	confidence float64,
	strategyID string,
	createdAt time.Time,
) Signal {
	return Signal{
		Symbol:     symbol,
		Side:       side,
		Price:      price,
		Confidence: confidence,
		StrategyID: strategyID,
		CreatedAt:  createdAt,
	}
}
