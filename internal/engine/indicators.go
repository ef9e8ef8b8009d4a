package engine

import (
	"github.com/shopspring/decimal"

	"tradesim/types"
)

// ATR computes the Average True Range over the series, with Wilder smoothing
// beyond the seed window. When fewer than period+1 bars are available it
// shrinks the lookback to the bars it has; with under two bars there is no
// true range and it returns zero, which a caller must treat as "cannot size".
func ATR(bars []types.Bar, period int) decimal.Decimal {
	if period > len(bars)-1 {
		period = len(bars) - 1
	}
	if period <= 0 {
		return decimal.Zero
	}

	var trueRanges []decimal.Decimal
	for i := 1; i < len(bars); i++ {
		high := bars[i].High
		low := bars[i].Low
		prevClose := bars[i-1].Close

		tr := decimal.Max(
			high.Sub(low),
			high.Sub(prevClose).Abs(),
			low.Sub(prevClose).Abs(),
		)
		trueRanges = append(trueRanges, tr)
	}

	n := decimal.NewFromInt(int64(period))
	atr := decimal.Zero
	for _, tr := range trueRanges[:period] {
		atr = atr.Add(tr)
	}
	atr = atr.Div(n)

	for i := period; i < len(trueRanges); i++ {
		atr = atr.Mul(n.Sub(decimal.NewFromInt(1))).Add(trueRanges[i]).Div(n)
	}
	return atr
}
