package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

// Metrics is the performance block derived from the closed-trade list and the
// equity curve. Degenerate inputs (no trades, no losses, single-bar series)
// produce defined zero values, never NaN.
type Metrics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       decimal.Decimal // percent

	PnL         decimal.Decimal
	MaxDrawdown decimal.Decimal

	SharpeRatio  decimal.Decimal
	SortinoRatio decimal.Decimal
	ProfitFactor decimal.Decimal

	AverageWin  decimal.Decimal
	AverageLoss decimal.Decimal
	LargestWin  decimal.Decimal
	LargestLoss decimal.Decimal

	AverageHoldingDays decimal.Decimal
	Exposure           decimal.Decimal // percent of points above initial balance

	Commissions decimal.Decimal
	Slippage    decimal.Decimal

	// MonthlyReturns keys are year-month (YYYY-MM). Per-bar returns are
	// summed within a month, not compounded.
	MonthlyReturns map[string]decimal.Decimal
}

const annualizationFactor = 252

// ComputeMetrics is a pure function over (trades, equityCurve). It never
// mutates its inputs.
func ComputeMetrics(trades []types.Trade, equity []types.EquityPoint, initialBalance decimal.Decimal) Metrics {
	closed := closedTrades(trades)
	returns := equityReturns(equity)

	m := Metrics{TotalTrades: len(closed)}

	// Done must fire after the result assignment, not when the calc
	// function returns, or Wait does not order the field writes.
	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		m.WinningTrades, m.LosingTrades, m.WinRate = calcWinRate(closed)
	}()
	go func() {
		defer wg.Done()
		m.PnL, m.ProfitFactor, m.AverageWin, m.AverageLoss, m.LargestWin, m.LargestLoss = calcTradeStats(closed)
	}()
	go func() {
		defer wg.Done()
		m.MaxDrawdown = calcMaxDrawdown(equity)
	}()
	go func() {
		defer wg.Done()
		m.SharpeRatio, m.SortinoRatio = calcRiskAdjustedRatios(returns)
	}()
	go func() {
		defer wg.Done()
		m.AverageHoldingDays, m.Commissions, m.Slippage = calcTradeCosts(closed)
	}()
	go func() {
		defer wg.Done()
		m.Exposure, m.MonthlyReturns = calcExposureAndMonthly(equity, initialBalance)
	}()
	wg.Wait()

	return m
}

func closedTrades(trades []types.Trade) []types.Trade {
	var closed []types.Trade
	for _, t := range trades {
		if t.Closed() {
			closed = append(closed, t)
		}
	}
	return closed
}

func equityReturns(equity []types.EquityPoint) []float64 {
	var returns []float64
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if !prev.IsPositive() {
			continue
		}
		r, _ := equity[i].Equity.Sub(prev).Div(prev).Float64()
		returns = append(returns, r)
	}
	return returns
}

func calcWinRate(closed []types.Trade) (int, int, decimal.Decimal) {
	wins, losses := 0, 0
	for _, t := range closed {
		if t.PnL.IsPositive() {
			wins++
		} else {
			losses++
		}
	}
	// Zero closed trades is a defined zero, not a division error.
	if len(closed) == 0 {
		return 0, 0, decimal.Zero
	}
	rate := decimal.NewFromInt(int64(wins)).
		Div(decimal.NewFromInt(int64(len(closed)))).
		Mul(decimal.NewFromInt(100))
	return wins, losses, rate
}

func calcTradeStats(closed []types.Trade) (pnl, profitFactor, avgWin, avgLoss, largestWin, largestLoss decimal.Decimal) {
	pnl = decimal.Zero
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	largestWin = decimal.Zero
	largestLoss = decimal.Zero
	winCount, lossCount := 0, 0

	for _, t := range closed {
		pnl = pnl.Add(t.PnL)
		if t.PnL.IsPositive() {
			grossProfit = grossProfit.Add(t.PnL)
			largestWin = decimal.Max(largestWin, t.PnL)
			winCount++
		} else {
			grossLoss = grossLoss.Add(t.PnL.Abs())
			largestLoss = decimal.Max(largestLoss, t.PnL.Abs())
			lossCount++
		}
	}

	profitFactor = decimal.Zero
	if grossLoss.IsPositive() {
		profitFactor = grossProfit.Div(grossLoss)
	}
	avgWin = decimal.Zero
	if winCount > 0 {
		avgWin = grossProfit.Div(decimal.NewFromInt(int64(winCount)))
	}
	avgLoss = decimal.Zero
	if lossCount > 0 {
		avgLoss = grossLoss.Div(decimal.NewFromInt(int64(lossCount)))
	}
	return pnl, profitFactor, avgWin, avgLoss, largestWin, largestLoss
}

func calcMaxDrawdown(equity []types.EquityPoint) decimal.Decimal {
	maxDD := decimal.Zero
	for _, point := range equity {
		maxDD = decimal.Max(maxDD, point.Drawdown)
	}
	return maxDD
}

func calcRiskAdjustedRatios(returns []float64) (decimal.Decimal, decimal.Decimal) {
	if len(returns) < 2 {
		return decimal.Zero, decimal.Zero
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var varianceSum, downsideSum float64
	downsideCount := 0
	for _, r := range returns {
		diff := r - mean
		varianceSum += diff * diff
		if r < mean {
			downsideSum += diff * diff
			downsideCount++
		}
	}

	sharpe := decimal.Zero
	if stdDev := math.Sqrt(varianceSum / float64(len(returns))); stdDev > 0 {
		sharpe = decimal.NewFromFloat(mean / stdDev * math.Sqrt(annualizationFactor))
	}

	// Sortino penalizes only returns below the mean.
	sortino := decimal.Zero
	if downsideCount > 0 {
		if downside := math.Sqrt(downsideSum / float64(downsideCount)); downside > 0 {
			sortino = decimal.NewFromFloat(mean / downside * math.Sqrt(annualizationFactor))
		}
	}
	return sharpe, sortino
}

func calcTradeCosts(closed []types.Trade) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	commissions := decimal.Zero
	slippage := decimal.Zero
	holdingDays := 0
	for _, t := range closed {
		commissions = commissions.Add(t.Commission)
		slippage = slippage.Add(t.Slippage)
		holdingDays += t.HoldingDays
	}

	avgHolding := decimal.Zero
	if len(closed) > 0 {
		avgHolding = decimal.NewFromInt(int64(holdingDays)).Div(decimal.NewFromInt(int64(len(closed))))
	}
	return avgHolding, commissions, slippage
}

func calcExposureAndMonthly(equity []types.EquityPoint, initialBalance decimal.Decimal) (decimal.Decimal, map[string]decimal.Decimal) {
	monthly := make(map[string]decimal.Decimal)
	above := 0
	for i, point := range equity {
		if point.Equity.GreaterThan(initialBalance) {
			above++
		}
		if i == 0 {
			continue
		}
		prev := equity[i-1].Equity
		if !prev.IsPositive() {
			continue
		}
		month := point.Timestamp.Format("2006-01")
		monthly[month] = monthly[month].Add(point.Equity.Sub(prev).Div(prev))
	}

	exposure := decimal.Zero
	if len(equity) > 0 {
		exposure = decimal.NewFromInt(int64(above)).
			Div(decimal.NewFromInt(int64(len(equity)))).
			Mul(decimal.NewFromInt(100))
	}
	return exposure, monthly
}

// PrintReport writes a human-readable report for a finished run to stdout.
func PrintReport(res *Result) {
	m := res.Metrics

	fmt.Println("===== Trading Report =====")
	fmt.Printf("Total Trades:          %d\n", m.TotalTrades)
	fmt.Printf("Winning Trades:        %d\n", m.WinningTrades)
	fmt.Printf("Losing Trades:         %d\n", m.LosingTrades)
	fmt.Printf("Win Rate:              %s%%\n", m.WinRate.StringFixed(2))

	fmt.Println("\n-- Absolute Performance --")
	fmt.Printf("Net PnL:               %s\n", m.PnL)
	fmt.Printf("Avg Win:               %s\n", m.AverageWin)
	fmt.Printf("Avg Loss:              %s\n", m.AverageLoss)
	fmt.Printf("Largest Win:           %s\n", m.LargestWin)
	fmt.Printf("Largest Loss:          %s\n", m.LargestLoss)

	fmt.Println("\n-- Risk-Adjusted Metrics --")
	fmt.Printf("Max Drawdown:          %s\n", m.MaxDrawdown)
	fmt.Printf("Sharpe Ratio:          %s\n", m.SharpeRatio)
	fmt.Printf("Sortino Ratio:         %s\n", m.SortinoRatio)
	fmt.Printf("Profit Factor:         %s\n", m.ProfitFactor)

	fmt.Println("\n-- Costs & Exposure --")
	fmt.Printf("Commissions:           %s\n", m.Commissions)
	fmt.Printf("Slippage:              %s\n", m.Slippage)
	fmt.Printf("Exposure:              %s%%\n", m.Exposure.StringFixed(2))
	fmt.Printf("Avg Holding Days:      %s\n", m.AverageHoldingDays.StringFixed(1))

	fmt.Println("==========================")
}
