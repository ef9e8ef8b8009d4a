package sink

import (
	"context"

	"github.com/rs/zerolog"

	"tradesim/internal/engine"
)

// Log writes a one-line run summary through the structured logger.
type Log struct {
	log zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{log: logger}
}

func (l *Log) Deliver(_ context.Context, res *engine.Result) error {
	l.log.Info().
		Int("trades", res.Metrics.TotalTrades).
		Str("winRate", res.Metrics.WinRate.StringFixed(2)).
		Str("pnl", res.Metrics.PnL.String()).
		Str("maxDrawdown", res.Metrics.MaxDrawdown.String()).
		Str("sharpe", res.Metrics.SharpeRatio.StringFixed(4)).
		Msg("backtest result")
	return nil
}
