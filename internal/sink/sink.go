// Package sink delivers finished backtest reports to external consumers.
// Delivery failures are non-fatal to the core result: the engine dispatches
// fire-and-forget and logs errors at the boundary.
package sink

import (
	"context"
	"errors"

	"tradesim/internal/engine"
)

// ErrDelivery wraps any external delivery failure.
var ErrDelivery = errors.New("result delivery failed")

// Sink accepts a finished report. Implementations must not retry internally;
// the engine calls each sink once per run.
type Sink interface {
	Deliver(ctx context.Context, res *engine.Result) error
}
