package engine

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

func closedTrade(pnl string, holdingDays int, commission, slippage string) types.Trade {
	return types.Trade{
		Status:      types.TradeStateClosed,
		PnL:         decimal.RequireFromString(pnl),
		HoldingDays: holdingDays,
		Commission:  decimal.RequireFromString(commission),
		Slippage:    decimal.RequireFromString(slippage),
	}
}

func equityPoint(ts time.Time, equity, drawdown string) types.EquityPoint {
	return types.EquityPoint{
		Timestamp: ts,
		Equity:    decimal.RequireFromString(equity),
		Drawdown:  decimal.RequireFromString(drawdown),
	}
}

func TestComputeMetrics_TradeStats(t *testing.T) {
	trades := []types.Trade{
		closedTrade("20", 2, "1", "0.5"),
		closedTrade("10", 4, "1", "0.5"),
		closedTrade("-10", 3, "1", "0.5"),
		closedTrade("-5", 1, "1", "0.5"),
		{Status: types.TradeStateOpen}, // open trades never count
	}

	m := ComputeMetrics(trades, nil, decimal.NewFromInt(1000))

	if m.TotalTrades != 4 {
		t.Errorf("total trades = %d, want 4 (open excluded)", m.TotalTrades)
	}
	if m.WinningTrades != 2 || m.LosingTrades != 2 {
		t.Errorf("wins/losses = %d/%d, want 2/2", m.WinningTrades, m.LosingTrades)
	}
	if !m.WinRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("win rate = %s, want 50", m.WinRate)
	}
	if !m.PnL.Equal(decimal.NewFromInt(15)) {
		t.Errorf("pnl = %s, want 15", m.PnL)
	}
	if !m.ProfitFactor.Equal(decimal.NewFromInt(2)) {
		t.Errorf("profit factor = %s, want 2 (30 gross profit / 15 gross loss)", m.ProfitFactor)
	}
	if !m.AverageWin.Equal(decimal.NewFromInt(15)) {
		t.Errorf("average win = %s, want 15", m.AverageWin)
	}
	if !m.AverageLoss.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("average loss = %s, want 7.5", m.AverageLoss)
	}
	if !m.LargestWin.Equal(decimal.NewFromInt(20)) {
		t.Errorf("largest win = %s, want 20", m.LargestWin)
	}
	if !m.LargestLoss.Equal(decimal.NewFromInt(10)) {
		t.Errorf("largest loss = %s, want 10", m.LargestLoss)
	}
	if !m.AverageHoldingDays.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("average holding days = %s, want 2.5", m.AverageHoldingDays)
	}
	if !m.Commissions.Equal(decimal.NewFromInt(4)) {
		t.Errorf("commissions = %s, want 4", m.Commissions)
	}
	if !m.Slippage.Equal(decimal.NewFromInt(2)) {
		t.Errorf("slippage = %s, want 2", m.Slippage)
	}
}

func TestComputeMetrics_ZeroTrades(t *testing.T) {
	m := ComputeMetrics(nil, nil, decimal.NewFromInt(1000))

	if m.TotalTrades != 0 {
		t.Errorf("total trades = %d, want 0", m.TotalTrades)
	}
	if !m.WinRate.IsZero() {
		t.Errorf("win rate = %s, want 0", m.WinRate)
	}
	if !m.ProfitFactor.IsZero() {
		t.Errorf("profit factor = %s, want 0", m.ProfitFactor)
	}
	if !m.PnL.IsZero() || !m.SharpeRatio.IsZero() || !m.SortinoRatio.IsZero() {
		t.Error("expected zero pnl and ratios")
	}
}

func TestComputeMetrics_ProfitFactorZeroOnNoLosses(t *testing.T) {
	trades := []types.Trade{
		closedTrade("10", 1, "0", "0"),
		closedTrade("5", 1, "0", "0"),
	}
	m := ComputeMetrics(trades, nil, decimal.NewFromInt(1000))

	if !m.ProfitFactor.IsZero() {
		t.Errorf("profit factor = %s, want 0 when gross loss is zero", m.ProfitFactor)
	}
	if !m.WinRate.Equal(decimal.NewFromInt(100)) {
		t.Errorf("win rate = %s, want 100", m.WinRate)
	}
}

func TestComputeMetrics_SharpeAndSortino(t *testing.T) {
	ts := testBase
	equity := []types.EquityPoint{
		equityPoint(ts, "100", "0"),
		equityPoint(ts.AddDate(0, 0, 1), "120", "0"),
		equityPoint(ts.AddDate(0, 0, 2), "108", "0.1"),
	}
	m := ComputeMetrics(nil, equity, decimal.NewFromInt(100))

	// Returns are [0.2, -0.1]: mean 0.05, population stddev 0.15, one
	// downside return with deviation 0.15.
	want := 0.05 / 0.15 * math.Sqrt(252)

	if got := m.SharpeRatio.InexactFloat64(); math.Abs(got-want) > 1e-9 {
		t.Errorf("sharpe = %v, want %v", got, want)
	}
	if got := m.SortinoRatio.InexactFloat64(); math.Abs(got-want) > 1e-9 {
		t.Errorf("sortino = %v, want %v", got, want)
	}
}

func TestComputeMetrics_RatiosZeroOnFlatReturns(t *testing.T) {
	ts := testBase
	equity := []types.EquityPoint{
		equityPoint(ts, "100", "0"),
		equityPoint(ts.AddDate(0, 0, 1), "100", "0"),
		equityPoint(ts.AddDate(0, 0, 2), "100", "0"),
	}
	m := ComputeMetrics(nil, equity, decimal.NewFromInt(100))

	if !m.SharpeRatio.IsZero() {
		t.Errorf("sharpe = %s, want 0 on zero volatility", m.SharpeRatio)
	}
	if !m.SortinoRatio.IsZero() {
		t.Errorf("sortino = %s, want 0 on zero volatility", m.SortinoRatio)
	}
}

func TestComputeMetrics_MaxDrawdown(t *testing.T) {
	ts := testBase
	equity := []types.EquityPoint{
		equityPoint(ts, "100", "0"),
		equityPoint(ts.AddDate(0, 0, 1), "90", "0.1"),
		equityPoint(ts.AddDate(0, 0, 2), "75", "0.25"),
		equityPoint(ts.AddDate(0, 0, 3), "95", "0.05"),
	}
	m := ComputeMetrics(nil, equity, decimal.NewFromInt(100))

	if !m.MaxDrawdown.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("max drawdown = %s, want 0.25", m.MaxDrawdown)
	}
}

// Every field must be fully written before ComputeMetrics returns; with the
// race detector on, reading them here flags any assignment that escapes the
// WaitGroup ordering.
func TestComputeMetrics_FullyPopulatedOnReturn(t *testing.T) {
	trades := []types.Trade{
		closedTrade("20", 2, "1", "0.5"),
		closedTrade("-10", 3, "1", "0.5"),
	}
	ts := testBase
	equity := []types.EquityPoint{
		equityPoint(ts, "1000", "0"),
		equityPoint(ts.AddDate(0, 0, 1), "1020", "0"),
		equityPoint(ts.AddDate(0, 0, 2), "1010", "0.0098"),
	}
	initial := decimal.NewFromInt(1000)

	want := ComputeMetrics(trades, equity, initial)
	for i := 0; i < 200; i++ {
		got := ComputeMetrics(trades, equity, initial)

		if got.TotalTrades != want.TotalTrades ||
			got.WinningTrades != want.WinningTrades ||
			got.LosingTrades != want.LosingTrades {
			t.Fatalf("iteration %d: trade counts differ: %+v vs %+v", i, got, want)
		}
		if !got.WinRate.Equal(want.WinRate) ||
			!got.PnL.Equal(want.PnL) ||
			!got.ProfitFactor.Equal(want.ProfitFactor) ||
			!got.MaxDrawdown.Equal(want.MaxDrawdown) ||
			!got.SharpeRatio.Equal(want.SharpeRatio) ||
			!got.SortinoRatio.Equal(want.SortinoRatio) ||
			!got.AverageWin.Equal(want.AverageWin) ||
			!got.AverageLoss.Equal(want.AverageLoss) ||
			!got.AverageHoldingDays.Equal(want.AverageHoldingDays) ||
			!got.Exposure.Equal(want.Exposure) ||
			!got.Commissions.Equal(want.Commissions) ||
			!got.Slippage.Equal(want.Slippage) {
			t.Fatalf("iteration %d: metrics differ: %+v vs %+v", i, got, want)
		}
		if got.MonthlyReturns == nil {
			t.Fatalf("iteration %d: monthly returns not populated", i)
		}
	}
}

func TestComputeMetrics_MonthlyReturnsAndExposure(t *testing.T) {
	equity := []types.EquityPoint{
		equityPoint(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), "100", "0"),
		equityPoint(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "110", "0"),
		equityPoint(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), "121", "0"),
		equityPoint(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "133.1", "0"),
	}
	m := ComputeMetrics(nil, equity, decimal.NewFromInt(100))

	if len(m.MonthlyReturns) != 2 {
		t.Fatalf("monthly returns = %v, want 2 months", m.MonthlyReturns)
	}
	// February accumulates two 10% bar returns, summed not compounded.
	if got := m.MonthlyReturns["2024-02"]; !got.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("2024-02 return = %s, want 0.2", got)
	}
	if got := m.MonthlyReturns["2024-03"]; !got.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("2024-03 return = %s, want 0.1", got)
	}

	// Three of four points sit above the initial balance.
	if !m.Exposure.Equal(decimal.NewFromInt(75)) {
		t.Errorf("exposure = %s, want 75", m.Exposure)
	}
}
