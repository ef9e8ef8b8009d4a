package engine

import "errors"

// Data and configuration errors abort a run before any trade is produced.
// Validation failures are returned as Validation values, never as errors.
var (
	ErrNoBars        = errors.New("bar series is empty")
	ErrUnsortedBars  = errors.New("bar series is not time-ordered")
	ErrMalformedBar  = errors.New("bar has malformed prices")
	ErrInvalidConfig = errors.New("invalid run config")

	// ErrRiskRatio means the stop distance is degenerate (zero or negative)
	// and no position can be sized. Callers must reject the signal, not
	// retry with the same inputs.
	ErrRiskRatio = errors.New("degenerate stop distance")
)
