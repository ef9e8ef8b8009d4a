// Package risk maintains rolling per-symbol price and volatility history
// across concurrently held positions and derives portfolio tail-risk
// statistics on demand. It runs independently of the backtest loop but shares
// its risk-limit vocabulary.
package risk

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tradesim/types"
)

const (
	defaultWindow     = 252 // one trading year of observations
	defaultConfidence = 0.95
	defaultRiskFree   = 0.02 // annual

	// Pairwise correlation above this flags a new position as crowded.
	correlationThreshold = 0.7
)

// Validation is the outcome of a position check. Every violated rule is
// reported, not just the first.
type Validation struct {
	IsValid bool
	Reasons []string
}

type AlertType string

const (
	AlertStopLoss AlertType = "STOP_LOSS"
	AlertDrawdown AlertType = "DRAWDOWN"
)

// Alert is a notification trigger, never an order-execution action.
type Alert struct {
	Type     AlertType
	Symbol   string
	Price    decimal.Decimal
	Drawdown decimal.Decimal
}

// Analyzer owns the per-symbol history buffers and the current RiskLimits
// version. All state is mutated only through its entry points; concurrent
// callers are serialized by the analyzer's lock, and reads are served from a
// snapshot taken under that same lock.
type Analyzer struct {
	mu        sync.RWMutex
	limits    types.RiskLimits
	capital   decimal.Decimal
	positions map[string]types.Position
	prices    map[string][]decimal.Decimal
	vols      map[string][]decimal.Decimal
	benchmark []float64

	window     int
	confidence float64
	riskFree   float64
	log        zerolog.Logger
}

// NewAnalyzer creates an analyzer sized to the documented defaults: a
// 252-observation rolling window and 95% VaR confidence. capital is the
// account capital base that exposure limits are measured against.
func NewAnalyzer(capital decimal.Decimal, limits types.RiskLimits, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		limits:     limits,
		capital:    capital,
		positions:  make(map[string]types.Position),
		prices:     make(map[string][]decimal.Decimal),
		vols:       make(map[string][]decimal.Decimal),
		window:     defaultWindow,
		confidence: defaultConfidence,
		riskFree:   defaultRiskFree,
		log:        logger,
	}
}

// Limits returns the current risk-limit version.
func (a *Analyzer) Limits() types.RiskLimits {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.limits
}

// UpdateLimits installs next as a new limits version and returns it. The
// previous value is never mutated in place.
func (a *Analyzer) UpdateLimits(next types.RiskLimits) types.RiskLimits {
	a.mu.Lock()
	defer a.mu.Unlock()
	next.Version = a.limits.Version + 1
	a.limits = next
	return next
}

// UpdatePosition records the current state of an open position.
func (a *Analyzer) UpdatePosition(pos types.Position) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.positions[pos.Symbol] = pos
}

// RemovePosition drops a closed position. Its price history is retained.
func (a *Analyzer) RemovePosition(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.positions, symbol)
}

// UpdatePrice appends a price observation for the symbol, evicting the oldest
// entry once the rolling window is full, and refreshes the derived annualized
// volatility history the same way.
func (a *Analyzer) UpdatePrice(symbol string, price decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	history := append(a.prices[symbol], price)
	if len(history) > a.window {
		history = history[1:]
	}
	a.prices[symbol] = history

	if len(history) > 1 {
		vol := annualizedVolatility(assetReturns(history))
		vols := append(a.vols[symbol], decimal.NewFromFloat(vol))
		if len(vols) > a.window {
			vols = vols[1:]
		}
		a.vols[symbol] = vols
	}
}

// UpdateBenchmarkReturn appends one benchmark (market index) return
// observation, used for portfolio beta.
func (a *Analyzer) UpdateBenchmarkReturn(r float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.benchmark = append(a.benchmark, r)
	if len(a.benchmark) > a.window {
		a.benchmark = a.benchmark[1:]
	}
}

// ValidatePosition checks a proposed position against the current limits, in
// order: position size vs capital, aggregate portfolio exposure, asset
// volatility threshold, and pairwise correlation against existing holdings.
func (a *Analyzer) ValidatePosition(symbol string, size, price decimal.Decimal) Validation {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var reasons []string
	positionValue := size.Mul(price)

	base := a.capital
	if !base.IsPositive() {
		base = a.portfolioValueLocked()
	}
	if base.IsPositive() {
		exposure := positionValue.Div(base)
		if exposure.GreaterThan(a.limits.MaxPositionSize) {
			reasons = append(reasons, "position size exceeds maximum allowed exposure")
		}
		total := a.totalExposureLocked(base).Add(exposure)
		if total.GreaterThan(a.limits.MaxPortfolioExposure) {
			reasons = append(reasons, "total portfolio exposure would exceed limit")
		}
	} else {
		// Without a base the size and exposure limits cannot be checked;
		// failing loud beats validating clean.
		reasons = append(reasons, "no capital base for exposure checks")
	}

	if vol := a.assetVolatilityLocked(symbol); vol.GreaterThan(a.limits.VolatilityThreshold) {
		reasons = append(reasons, "asset volatility exceeds threshold")
	}

	if correlated := a.correlatedHoldingsLocked(symbol); len(correlated) > 0 {
		reasons = append(reasons, fmt.Sprintf("high correlation with existing positions: %s", strings.Join(correlated, ", ")))
	}

	return Validation{IsValid: len(reasons) == 0, Reasons: reasons}
}

// MonitorPositions scans all open positions once and returns an alert for
// every position whose unrealized drawdown breaches the stop-loss or drawdown
// threshold. Order execution is an external collaborator's concern.
func (a *Analyzer) MonitorPositions() []Alert {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var alerts []Alert
	for _, sym := range a.sortedSymbolsLocked() {
		pos := a.positions[sym]
		if !pos.Entry.IsPositive() {
			continue
		}
		drawdown := pos.Current.Sub(pos.Entry).Div(pos.Entry)

		if drawdown.LessThan(a.limits.StopLossThreshold.Neg()) {
			a.log.Warn().
				Str("symbol", sym).
				Str("price", pos.Current.String()).
				Msg("stop loss threshold breached")
			alerts = append(alerts, Alert{Type: AlertStopLoss, Symbol: sym, Price: pos.Current, Drawdown: drawdown})
		}
		if drawdown.LessThan(a.limits.MaxDrawdown.Neg()) {
			a.log.Warn().
				Str("symbol", sym).
				Str("drawdown", drawdown.Mul(decimal.NewFromInt(100)).StringFixed(2)).
				Msg("drawdown limit breached")
			alerts = append(alerts, Alert{Type: AlertDrawdown, Symbol: sym, Price: pos.Current, Drawdown: drawdown})
		}
	}
	return alerts
}

func (a *Analyzer) portfolioValueLocked() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range a.positions {
		total = total.Add(pos.Value())
	}
	return total
}

func (a *Analyzer) totalExposureLocked(base decimal.Decimal) decimal.Decimal {
	return a.portfolioValueLocked().Div(base)
}

func (a *Analyzer) assetVolatilityLocked(symbol string) decimal.Decimal {
	history := a.vols[symbol]
	if len(history) == 0 {
		return decimal.Zero
	}
	return history[len(history)-1]
}

func (a *Analyzer) correlatedHoldingsLocked(symbol string) []string {
	var correlated []string
	for _, existing := range a.sortedSymbolsLocked() {
		if existing == symbol {
			continue
		}
		corr, ok := pairwiseCorrelation(a.prices[symbol], a.prices[existing])
		if ok && abs(corr) > correlationThreshold {
			correlated = append(correlated, existing)
		}
	}
	return correlated
}

func (a *Analyzer) sortedSymbolsLocked() []string {
	symbols := make([]string, 0, len(a.positions))
	for sym := range a.positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}
