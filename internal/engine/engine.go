package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tradesim/types"
)

type dataStore interface {
	GetAssetByTicker(ctx context.Context, ticker string) (*types.Asset, error)
	GetBars(ctx context.Context, assetID int, ticker string, interval types.Interval, start, end time.Time) ([]types.Bar, error)
}

// ResultSink accepts a finished report for delivery. Sink errors are logged
// here and never unwind into the simulator.
type ResultSink interface {
	Deliver(ctx context.Context, res *Result) error
}

// Engine wires the data store, the simulator and the result sinks for one
// configured run.
type Engine struct {
	db        dataStore
	sim       *Simulator
	cfg       RunConfig
	reporting ReportingConfig
	sinks     []ResultSink
	log       zerolog.Logger
}

func NewEngine(db dataStore, cfg RunConfig, sizerCfg SizerConfig, reporting ReportingConfig, sinks []ResultSink, logger zerolog.Logger) *Engine {
	return &Engine{
		db:        db,
		sim:       NewSimulator(cfg, NewRiskAdjuster(sizerCfg), logger),
		cfg:       cfg,
		reporting: reporting,
		sinks:     sinks,
		log:       logger,
	}
}

// Run loads the bar series, replays it, and hands the finished report to the
// configured sinks. Sink delivery is fire-and-forget: a sink failure never
// rolls back or invalidates the computed result.
func (e *Engine) Run(ctx context.Context, strategy StrategyFunc) (*Result, error) {
	bars, err := e.loadBars(ctx)
	if err != nil {
		return nil, err
	}

	res, err := e.sim.Run(bars, strategy)
	if err != nil {
		return nil, err
	}

	if e.reporting.PrintReport {
		PrintReport(res)
	}
	if e.reporting.CSVPath != "" {
		if err := WriteTradesCSVFile(e.reporting.CSVPath, res.Trades); err != nil {
			e.log.Error().Err(err).Str("path", e.reporting.CSVPath).Msg("csv export failed")
		}
	}

	e.dispatch(res)
	return res, nil
}

func (e *Engine) loadBars(ctx context.Context) ([]types.Bar, error) {
	asset, err := e.db.GetAssetByTicker(ctx, e.cfg.Symbol)
	if err != nil {
		return nil, err
	}
	return e.db.GetBars(ctx, asset.Id, e.cfg.Symbol, e.cfg.Timeframe, e.cfg.StartDate, e.cfg.EndDate)
}

func (e *Engine) dispatch(res *Result) {
	for _, sink := range e.sinks {
		go func(s ResultSink) {
			if err := s.Deliver(context.Background(), res); err != nil {
				e.log.Warn().Err(err).Msg("result sink delivery failed")
			}
		}(sink)
	}
}
