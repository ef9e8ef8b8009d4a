package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tradesim/types"
)

type stubStore struct {
	bars []types.Bar
	err  error
}

func (s *stubStore) GetAssetByTicker(_ context.Context, ticker string) (*types.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.Asset{Id: 1, Ticker: ticker}, nil
}

func (s *stubStore) GetBars(_ context.Context, _ int, _ string, _ types.Interval, _, _ time.Time) ([]types.Bar, error) {
	return s.bars, s.err
}

type recordingSink struct {
	delivered chan *Result
	err       error
}

func (s *recordingSink) Deliver(_ context.Context, res *Result) error {
	s.delivered <- res
	return s.err
}

func TestEngine_RunDeliversToSinks(t *testing.T) {
	store := &stubStore{bars: mkBars("100", "103", "101")}
	rec := &recordingSink{delivered: make(chan *Result, 1)}

	eng := NewEngine(
		store,
		NewRunConfig("AAPL", types.Day, decimal.NewFromInt(1000)),
		NewSizerConfig(),
		ReportingConfig{},
		[]ResultSink{rec},
		zerolog.Nop(),
	)

	res, err := eng.Run(context.Background(), breakoutStrategy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case got := <-rec.delivered:
		if got != res {
			t.Error("sink received a different result than the caller")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sink was never invoked")
	}
}

func TestEngine_SinkFailureDoesNotAffectResult(t *testing.T) {
	store := &stubStore{bars: mkBars("100", "103", "101")}
	failing := &recordingSink{delivered: make(chan *Result, 1), err: errors.New("delivery refused")}

	eng := NewEngine(
		store,
		NewRunConfig("AAPL", types.Day, decimal.NewFromInt(1000)),
		NewSizerConfig(),
		ReportingConfig{},
		[]ResultSink{failing},
		zerolog.Nop(),
	)

	res, err := eng.Run(context.Background(), breakoutStrategy)
	if err != nil {
		t.Fatalf("sink failure must not surface as a run error: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Errorf("expected 1 trade, got %d", len(res.Trades))
	}
	<-failing.delivered
}

func TestEngine_StoreErrorAborts(t *testing.T) {
	wantErr := errors.New("connection refused")
	eng := NewEngine(
		&stubStore{err: wantErr},
		NewRunConfig("AAPL", types.Day, decimal.NewFromInt(1000)),
		NewSizerConfig(),
		ReportingConfig{},
		nil,
		zerolog.Nop(),
	)

	if _, err := eng.Run(context.Background(), breakoutStrategy); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}
