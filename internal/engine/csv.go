package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"tradesim/types"
)

// WriteTradesCSVFile writes trades to a CSV file at the given path.
func WriteTradesCSVFile(path string, trades []types.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades file: %w", err)
	}
	defer f.Close()

	return WriteTradesCSV(f, trades)
}

// WriteTradesCSV writes trades to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func WriteTradesCSV(w io.Writer, trades []types.Trade) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"trade_id",
		"symbol",
		"side",
		"status",
		"size",
		"entry_price",
		"exit_price",
		"entry_time", // RFC3339
		"exit_time",
		"pnl",
		"commission",
		"slippage",
		"holding_days",
		"strategy",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range trades {
		exitTime := ""
		if t.Closed() {
			exitTime = t.ExitTime.Format(time.RFC3339)
		}
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.Symbol,
			string(t.Side),
			string(t.Status),
			t.Size.String(),
			t.Entry.String(),
			t.Exit.String(),
			t.EntryTime.Format(time.RFC3339),
			exitTime,
			t.PnL.String(),
			t.Commission.String(),
			t.Slippage.String(),
			fmt.Sprintf("%d", t.HoldingDays),
			t.StrategyID,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
