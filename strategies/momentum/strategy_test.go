package momentum

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

func bar(closePrice string, day int) types.Bar {
	c := decimal.RequireFromString(closePrice)
	return types.Bar{
		Symbol:    "AAPL",
		Open:      c,
		High:      c,
		Low:       c,
		Close:     c,
		Volume:    decimal.NewFromInt(1000),
		Interval:  types.Day,
		Timestamp: time.Date(2024, 1, 1+day, 0, 0, 0, 0, time.UTC),
	}
}

func TestStrategy(t *testing.T) {
	strategy := New(DefaultThreshold)

	tests := []struct {
		name       string
		prevClose  string
		close      string
		wantSignal bool
	}{
		{"breakout above threshold", "100", "103", true},
		{"exactly at threshold", "100", "102", false},
		{"below threshold", "100", "101", false},
		{"falling close", "100", "98", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strategy(bar(tt.close, 1), bar(tt.prevClose, 0))

			if tt.wantSignal {
				if got == nil {
					t.Fatal("expected a signal, got nil")
				}
				if got.Side != types.SideTypeBuy {
					t.Errorf("side = %s, want BUY", got.Side)
				}
				if !got.Price.Equal(decimal.RequireFromString(tt.close)) {
					t.Errorf("price = %s, want %s", got.Price, tt.close)
				}
				if got.StrategyID != StrategyID {
					t.Errorf("strategy id = %s, want %s", got.StrategyID, StrategyID)
				}
				return
			}
			if got != nil {
				t.Fatalf("expected no signal, got %+v", got)
			}
		})
	}
}

func TestStrategy_CustomThreshold(t *testing.T) {
	strategy := New(decimal.RequireFromString("1.05"))

	if got := strategy(bar("104", 1), bar("100", 0)); got != nil {
		t.Fatalf("4%% move must not trigger a 5%% threshold, got %+v", got)
	}
	if got := strategy(bar("106", 1), bar("100", 0)); got == nil {
		t.Fatal("6% move must trigger a 5% threshold")
	}
}
