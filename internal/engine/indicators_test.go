package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

func ohlcBar(day int, open, high, low, closePrice string) types.Bar {
	return types.Bar{
		Symbol:    "AAPL",
		Open:      decimal.RequireFromString(open),
		High:      decimal.RequireFromString(high),
		Low:       decimal.RequireFromString(low),
		Close:     decimal.RequireFromString(closePrice),
		Volume:    decimal.NewFromInt(1000),
		Interval:  types.Day,
		Timestamp: testBase.AddDate(0, 0, day),
	}
}

func TestATR(t *testing.T) {
	bars := []types.Bar{
		ohlcBar(0, "10", "12", "9", "11"),
		ohlcBar(1, "11", "13", "10", "12"),
		ohlcBar(2, "12", "14", "11", "13"),
	}

	// True ranges are [3, 3]; the seed average over period 2 is 3.
	got := ATR(bars, 2)
	if !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("ATR = %s, want 3", got)
	}
}

func TestATR_WilderSmoothing(t *testing.T) {
	bars := []types.Bar{
		ohlcBar(0, "10", "12", "9", "11"),
		ohlcBar(1, "11", "13", "10", "12"),
		ohlcBar(2, "12", "14", "11", "13"),
		ohlcBar(3, "13", "18", "13", "17"),
	}

	// Seed ATR over [3, 3] is 3; the next true range is 5, smoothed to
	// (3*1 + 5) / 2 = 4.
	got := ATR(bars, 2)
	if !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("ATR = %s, want 4", got)
	}
}

func TestATR_ShrinksPeriodToAvailableBars(t *testing.T) {
	bars := []types.Bar{
		ohlcBar(0, "10", "12", "9", "11"),
		ohlcBar(1, "11", "13", "10", "12"),
	}

	got := ATR(bars, 20)
	if !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("ATR = %s, want 3 (single true range)", got)
	}
}

func TestATR_TooFewBars(t *testing.T) {
	if got := ATR(nil, 14); !got.IsZero() {
		t.Errorf("ATR on empty series = %s, want 0", got)
	}
	one := []types.Bar{ohlcBar(0, "10", "12", "9", "11")}
	if got := ATR(one, 14); !got.IsZero() {
		t.Errorf("ATR on one bar = %s, want 0", got)
	}
}
