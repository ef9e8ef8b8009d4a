package engine

import (
	"fmt"
	"sort"

	"tradesim/types"
)

// NewBarSeries validates and sorts the input bars by timestamp ascending.
// The returned slice is a copy; the caller's slice is never mutated.
func NewBarSeries(bars []types.Bar) ([]types.Bar, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	series := append([]types.Bar(nil), bars...)
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	for i, bar := range series {
		if err := validateBar(bar); err != nil {
			return nil, fmt.Errorf("bar %d (%s): %w", i, bar.Timestamp, err)
		}
		if i > 0 && series[i].Timestamp.Before(series[i-1].Timestamp) {
			return nil, ErrUnsortedBars
		}
	}
	return series, nil
}

func validateBar(bar types.Bar) error {
	for _, price := range []struct {
		name string
		val  interface{ IsPositive() bool }
	}{
		{"open", bar.Open},
		{"high", bar.High},
		{"low", bar.Low},
		{"close", bar.Close},
	} {
		if !price.val.IsPositive() {
			return fmt.Errorf("%w: non-positive %s", ErrMalformedBar, price.name)
		}
	}
	if bar.High.LessThan(bar.Low) {
		return fmt.Errorf("%w: high below low", ErrMalformedBar)
	}
	return nil
}
