package engine

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

func TestWriteTradesCSV(t *testing.T) {
	trades := []types.Trade{
		{
			ID:          1,
			Symbol:      "AAPL",
			Side:        types.SideTypeBuy,
			Status:      types.TradeStateClosed,
			Size:        decimal.RequireFromString("3.5"),
			Entry:       decimal.RequireFromString("103"),
			Exit:        decimal.RequireFromString("101"),
			EntryTime:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			ExitTime:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			PnL:         decimal.RequireFromString("-7"),
			HoldingDays: 1,
			StrategyID:  "momentum-breakout",
		},
		{
			ID:        2,
			Symbol:    "AAPL",
			Side:      types.SideTypeBuy,
			Status:    types.TradeStateOpen,
			Size:      decimal.RequireFromString("2"),
			Entry:     decimal.RequireFromString("105"),
			EntryTime: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := WriteTradesCSV(&buf, trades); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "trade_id" || header[len(header)-1] != "strategy" {
		t.Errorf("unexpected header: %v", header)
	}

	closed := records[1]
	if closed[0] != "1" || closed[3] != "CLOSED" || closed[9] != "-7" {
		t.Errorf("unexpected closed row: %v", closed)
	}
	if closed[8] != "2024-01-03T00:00:00Z" {
		t.Errorf("exit time = %q, want RFC3339", closed[8])
	}

	open := records[2]
	if open[3] != "OPEN" {
		t.Errorf("status = %q, want OPEN", open[3])
	}
	if open[8] != "" {
		t.Errorf("open trade exit time = %q, want empty", open[8])
	}
}

func TestWriteTradesCSV_NoTrades(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTradesCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}
}
