package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Report is the portfolio risk block, recomputed from scratch on demand.
// Beta and the Kelly fraction carry a Defined flag instead of crashing or
// emitting NaN when the sample cannot support them.
type Report struct {
	PortfolioValue decimal.Decimal
	VaR            decimal.Decimal // loss expressed as a negative value
	CVaR           decimal.Decimal
	Volatility     decimal.Decimal // annualized
	SharpeRatio    decimal.Decimal
	MaxDrawdown    decimal.Decimal

	Beta        decimal.Decimal
	BetaDefined bool

	KellyFraction decimal.Decimal
	KellyDefined  bool

	// Correlations keys are "A_B" with A < B lexicographically.
	Correlations map[string]float64

	StressResults []StressResult
}

// ComputeReport derives the full risk block from the current positions and
// history buffers. The computation is stateless: it reads a snapshot under
// the lock and mutates nothing.
func (a *Analyzer) ComputeReport() Report {
	a.mu.RLock()
	defer a.mu.RUnlock()

	pv := a.portfolioValueLocked()
	returns := a.portfolioReturnsLocked(pv)

	report := Report{
		PortfolioValue: pv,
		Correlations:   a.correlationsLocked(),
		StressResults:  a.stressTestsLocked(pv),
	}

	report.VaR, report.CVaR = valueAtRisk(returns, pv, a.confidence)

	vol := annualizedVolatility(returns)
	report.Volatility = decimal.NewFromFloat(vol)
	if vol > 0 {
		report.SharpeRatio = decimal.NewFromFloat((mean(returns) - a.riskFree) / vol)
	}

	report.MaxDrawdown = a.maxDrawdownLocked()
	report.Beta, report.BetaDefined = beta(returns, a.benchmark)
	report.KellyFraction, report.KellyDefined = kellyFraction(returns)
	return report
}

// portfolioReturnsLocked builds the weighted historical return series across
// all held symbols. A symbol whose buffer is shorter than the index simply
// contributes nothing at that index.
func (a *Analyzer) portfolioReturnsLocked(pv decimal.Decimal) []float64 {
	if !pv.IsPositive() || len(a.positions) == 0 {
		return nil
	}

	maxLen := 0
	for _, sym := range a.sortedSymbolsLocked() {
		if n := len(a.prices[sym]); n > maxLen {
			maxLen = n
		}
	}

	var returns []float64
	for i := 1; i < maxLen; i++ {
		var daily float64
		for _, sym := range a.sortedSymbolsLocked() {
			history := a.prices[sym]
			if len(history) <= i || !history[i-1].IsPositive() {
				continue
			}
			pos := a.positions[sym]
			weight, _ := pos.Value().Div(pv).Float64()
			r, _ := history[i].Sub(history[i-1]).Div(history[i-1]).Float64()
			daily += weight * r
		}
		returns = append(returns, daily)
	}
	return returns
}

// valueAtRisk computes historical VaR and CVaR at the given confidence.
// The VaR index is floor(N * (1 - confidence)) into the ascending-sorted
// returns; CVaR averages every return at or below that index, so it is always
// at least as extreme as VaR.
func valueAtRisk(returns []float64, pv decimal.Decimal, confidence float64) (decimal.Decimal, decimal.Decimal) {
	if len(returns) == 0 {
		return decimal.Zero, decimal.Zero
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	idx := int(math.Floor(float64(len(sorted)) * (1 - confidence)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	varValue := pv.Mul(decimal.NewFromFloat(sorted[idx]))
	cvarValue := pv.Mul(decimal.NewFromFloat(mean(sorted[:idx+1])))
	return varValue, cvarValue
}

// maxDrawdownLocked reconstructs historical portfolio values from the price
// buffers and scans for the deepest peak-to-trough decline.
func (a *Analyzer) maxDrawdownLocked() decimal.Decimal {
	maxLen := 0
	for _, history := range a.prices {
		if len(history) > maxLen {
			maxLen = len(history)
		}
	}
	if maxLen == 0 {
		return decimal.Zero
	}

	symbols := a.sortedSymbolsLocked()
	maxDD := decimal.Zero
	peak := decimal.Zero
	for i := 0; i < maxLen; i++ {
		value := decimal.Zero
		for _, sym := range symbols {
			history := a.prices[sym]
			if len(history) <= i {
				continue
			}
			value = value.Add(a.positions[sym].Size.Mul(history[i]))
		}

		if value.GreaterThan(peak) {
			peak = value
		} else if peak.IsPositive() {
			dd := peak.Sub(value).Div(peak)
			maxDD = decimal.Max(maxDD, dd)
		}
	}
	return maxDD
}

// beta regresses portfolio returns against the benchmark series. Undefined
// until both have at least two overlapping observations and the benchmark has
// nonzero variance.
func beta(returns, benchmark []float64) (decimal.Decimal, bool) {
	n := min(len(returns), len(benchmark))
	if n < 2 {
		return decimal.Zero, false
	}
	marketVar := variance(benchmark[:n])
	if marketVar == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(covariance(returns, benchmark) / marketVar), true
}

// kellyFraction is winProbability - (1 - winProbability) / (avgWin / avgLoss).
// With no winning or no losing observations the fraction is undefined and
// must be skipped, never a division by zero.
func kellyFraction(returns []float64) (decimal.Decimal, bool) {
	var wins, losses []float64
	for _, r := range returns {
		switch {
		case r > 0:
			wins = append(wins, r)
		case r < 0:
			losses = append(losses, r)
		}
	}
	if len(returns) == 0 || len(wins) == 0 || len(losses) == 0 {
		return decimal.Zero, false
	}

	winProb := float64(len(wins)) / float64(len(returns))
	avgWin := mean(wins)
	avgLoss := math.Abs(mean(losses))
	if avgLoss == 0 || avgWin == 0 {
		return decimal.Zero, false
	}

	kelly := winProb - (1-winProb)/(avgWin/avgLoss)
	return decimal.NewFromFloat(kelly), true
}

// PrintReport writes a human-readable risk report to stdout.
func PrintReport(r Report) {
	fmt.Println("====== Risk Report =======")
	fmt.Printf("Portfolio Value:       %s\n", r.PortfolioValue.StringFixed(2))
	fmt.Printf("VaR (95%%):             %s\n", r.VaR.StringFixed(2))
	fmt.Printf("CVaR (95%%):            %s\n", r.CVaR.StringFixed(2))
	fmt.Printf("Volatility (ann.):     %s\n", r.Volatility.StringFixed(4))
	fmt.Printf("Sharpe Ratio:          %s\n", r.SharpeRatio.StringFixed(4))
	fmt.Printf("Max Drawdown:          %s\n", r.MaxDrawdown.StringFixed(4))
	if r.BetaDefined {
		fmt.Printf("Beta:                  %s\n", r.Beta.StringFixed(4))
	} else {
		fmt.Println("Beta:                  n/a")
	}
	if r.KellyDefined {
		fmt.Printf("Kelly Fraction:        %s\n", r.KellyFraction.StringFixed(4))
	} else {
		fmt.Println("Kelly Fraction:        n/a")
	}

	if len(r.Correlations) > 0 {
		fmt.Println("\n-- Pairwise Correlations --")
		pairs := make([]string, 0, len(r.Correlations))
		for pair := range r.Correlations {
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)
		for _, pair := range pairs {
			fmt.Printf("%-22s %.4f\n", pair+":", r.Correlations[pair])
		}
	}

	if len(r.StressResults) > 0 {
		fmt.Println("\n-- Stress Scenarios --")
		for _, s := range r.StressResults {
			fmt.Printf("%-22s loss %s (p=%s)\n", s.Scenario+":", s.PotentialLoss.StringFixed(2), s.Probability.String())
		}
	}
	fmt.Println("==========================")
}

func (a *Analyzer) correlationsLocked() map[string]float64 {
	correlations := make(map[string]float64)
	symbols := a.sortedSymbolsLocked()
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			corr, ok := pairwiseCorrelation(a.prices[symbols[i]], a.prices[symbols[j]])
			if !ok {
				continue // under two overlapping observations: undefined
			}
			correlations[symbols[i]+"_"+symbols[j]] = corr
		}
	}
	return correlations
}
