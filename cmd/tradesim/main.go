package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradesim/internal/config"
	"tradesim/internal/engine"
	"tradesim/internal/repository"
	"tradesim/internal/risk"
	"tradesim/internal/sink"
	"tradesim/strategies/momentum"
	"tradesim/types"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func newRootCmd(logger zerolog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tradesim",
		Short: "Deterministic historical-trade simulator and risk analytics",
	}
	rootCmd.AddCommand(newRunCmd(logger))
	rootCmd.AddCommand(newRiskCmd(logger))
	return rootCmd
}

func newRunCmd(logger zerolog.Logger) *cobra.Command {
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest over the configured symbol and period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runBacktest(cmd.Context(), cfg, showProgress, logger)
		},
	}

	cmd.Flags().BoolVar(&showProgress, "progress", true, "show a progress bar during the run")
	return cmd
}

func runBacktest(ctx context.Context, cfg *config.Config, showProgress bool, logger zerolog.Logger) error {
	db, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	timeframe, ok := types.ConvertInterval[cfg.Timeframe]
	if !ok {
		return repository.ErrIntervalNotSupported
	}

	runCfg := engine.NewRunConfig(cfg.Symbol, timeframe, cfg.InitialBalance)
	runCfg.StartDate = cfg.StartDate
	runCfg.EndDate = cfg.EndDate
	runCfg.StrategyID = cfg.StrategyID
	runCfg.RiskPerTrade = cfg.RiskPerTrade
	runCfg.MaxDrawdown = cfg.MaxDrawdown
	runCfg.MaxExposure = cfg.MaxExposure
	runCfg.Commission = cfg.Commission
	runCfg.Slippage = cfg.Slippage
	runCfg.ShowProgress = showProgress

	sinks := []sink.Sink{sink.NewLog(logger)}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, sink.NewWebhook(cfg.WebhookURL))
	}

	eng := engine.NewEngine(
		&db,
		runCfg,
		engine.NewSizerConfig(),
		engine.ReportingConfig{PrintReport: true, CSVPath: cfg.CSVPath},
		asResultSinks(sinks),
		logger,
	)

	_, err = eng.Run(ctx, momentum.New(momentum.DefaultThreshold))
	return err
}

func newRiskCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "risk",
		Short: "Compute a portfolio risk report for the configured symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runRiskReport(cmd.Context(), cfg, logger)
		},
	}
}

// runRiskReport feeds the symbol's price history into the analyzer, holds a
// position at the per-position size limit, and prints the resulting report
// and any monitoring alerts.
func runRiskReport(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	db, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	timeframe, ok := types.ConvertInterval[cfg.Timeframe]
	if !ok {
		return repository.ErrIntervalNotSupported
	}

	asset, err := db.GetAssetByTicker(ctx, cfg.Symbol)
	if err != nil {
		return err
	}
	bars, err := db.GetBars(ctx, asset.Id, cfg.Symbol, timeframe, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return err
	}

	limits := types.DefaultRiskLimits()
	analyzer := risk.NewAnalyzer(cfg.InitialBalance, limits, logger)
	for _, bar := range bars {
		analyzer.UpdatePrice(bar.Symbol, bar.Close)
	}

	last := bars[len(bars)-1]
	size := cfg.InitialBalance.Mul(limits.MaxPositionSize).Div(last.Close)
	if v := analyzer.ValidatePosition(cfg.Symbol, size, last.Close); !v.IsValid {
		for _, reason := range v.Reasons {
			logger.Warn().Str("symbol", cfg.Symbol).Str("reason", reason).Msg("position rejected by risk limits")
		}
	}
	analyzer.UpdatePosition(types.Position{
		Symbol:   cfg.Symbol,
		Side:     types.SideTypeBuy,
		Size:     size,
		Entry:    last.Close,
		Current:  last.Close,
		OpenTime: last.Timestamp,
	})

	risk.PrintReport(analyzer.ComputeReport())
	for _, alert := range analyzer.MonitorPositions() {
		logger.Warn().
			Str("type", string(alert.Type)).
			Str("symbol", alert.Symbol).
			Str("drawdown", alert.Drawdown.StringFixed(4)).
			Msg("risk alert")
	}
	return nil
}

func asResultSinks(sinks []sink.Sink) []engine.ResultSink {
	out := make([]engine.ResultSink, 0, len(sinks))
	for _, s := range sinks {
		out = append(out, s)
	}
	return out
}
