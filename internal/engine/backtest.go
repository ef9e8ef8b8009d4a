package engine

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"tradesim/types"
)

// StrategyFunc evaluates one bar against its predecessor and optionally emits
// a signal. The simulator treats it as a black box and assumes no internal
// state.
type StrategyFunc func(current, previous types.Bar) *types.Signal

// Result is the output of one completed run.
type Result struct {
	Trades      []types.Trade
	EquityCurve []types.EquityPoint
	Positions   []types.Position
	Metrics     Metrics
}

// Simulator replays a bar series once, strictly sequentially, opening and
// closing trades as the strategy signals. A run is deterministic: identical
// bars, strategy and config reproduce identical trades and equity curve.
type Simulator struct {
	cfg   RunConfig
	sizer *RiskAdjuster
	log   zerolog.Logger

	balance   decimal.Decimal
	hwm       decimal.Decimal
	trades    []types.Trade
	open      map[string]int // symbol -> index into trades, at most one each
	positions map[string]*types.Position
	equity    []types.EquityPoint
	nextID    int64
}

func NewSimulator(cfg RunConfig, sizer *RiskAdjuster, logger zerolog.Logger) *Simulator {
	return &Simulator{cfg: cfg, sizer: sizer, log: logger}
}

// Run replays the series. Data and config errors abort before any trade is
// produced; a completed run always carries a fully-populated metrics block.
func (s *Simulator) Run(bars []types.Bar, strategy StrategyFunc) (*Result, error) {
	if err := s.cfg.validate(); err != nil {
		return nil, err
	}
	series, err := NewBarSeries(bars)
	if err != nil {
		return nil, err
	}

	s.balance = s.cfg.InitialBalance
	s.hwm = s.cfg.InitialBalance
	s.trades = nil
	s.open = make(map[string]int)
	s.positions = make(map[string]*types.Position)
	s.equity = nil
	s.nextID = 1

	s.log.Info().
		Str("symbol", s.cfg.Symbol).
		Str("strategy", s.cfg.StrategyID).
		Int("bars", len(series)).
		Msg("starting backtest")

	var bar *progressbar.ProgressBar
	if s.cfg.ShowProgress {
		bar = initProgressBar(len(series) - 1)
	}

	for i := 1; i < len(series); i++ {
		cur, prev := series[i], series[i-1]

		s.markPositions(cur)

		if signal := strategy(cur, prev); signal != nil {
			s.tryOpen(signal, cur, series[:i+1])
		}

		s.appendEquity(cur)
		if bar != nil {
			bar.Add(1)
		}
	}

	s.closeAll(series[len(series)-1])

	res := &Result{
		Trades:      s.trades,
		EquityCurve: s.equity,
		Positions:   s.openPositions(),
		Metrics:     ComputeMetrics(s.trades, s.equity, s.cfg.InitialBalance),
	}
	s.log.Info().
		Int("trades", len(res.Trades)).
		Str("pnl", res.Metrics.PnL.String()).
		Msg("backtest finished")
	return res, nil
}

// tryOpen opens a trade for the signal unless the symbol already has one. A
// signal for a symbol with an open trade is a no-op, never a second position.
func (s *Simulator) tryOpen(signal *types.Signal, bar types.Bar, window []types.Bar) {
	if _, exists := s.open[signal.Symbol]; exists {
		return
	}

	atr := ATR(window, s.cfg.ATRPeriod)
	requested := decimal.Zero
	if atr.IsPositive() {
		riskAmount := s.balance.Mul(s.cfg.RiskPerTrade)
		requested = riskAmount.Div(atr.Mul(s.sizer.cfg.ATRMultiplier))
	}

	adj, err := s.sizer.Adjust(signal.Price, requested, atr, signal.Side, s.balance)
	if err != nil {
		s.log.Debug().
			Err(err).
			Str("symbol", signal.Symbol).
			Time("bar", bar.Timestamp).
			Msg("signal rejected by sizer")
		return
	}

	slippage := bar.Close.Mul(s.cfg.Slippage)
	commission := adj.AdjustedSize.Mul(signal.Price).Mul(s.cfg.Commission)

	trade := types.Trade{
		ID:         s.nextID,
		Symbol:     signal.Symbol,
		Side:       signal.Side,
		Status:     types.TradeStateOpen,
		Entry:      signal.Price,
		Size:       adj.AdjustedSize,
		EntryTime:  bar.Timestamp,
		Commission: commission,
		Slippage:   slippage,
		StrategyID: signal.StrategyID,
		Signals:    []types.Signal{*signal},
	}
	s.nextID++

	s.trades = append(s.trades, trade)
	s.open[signal.Symbol] = len(s.trades) - 1
	s.positions[signal.Symbol] = &types.Position{
		Symbol:   signal.Symbol,
		Side:     signal.Side,
		Size:     adj.AdjustedSize,
		Entry:    signal.Price,
		Current:  signal.Price,
		OpenTime: bar.Timestamp,
	}

	s.balance = s.balance.Sub(commission).Sub(slippage)
}

func (s *Simulator) markPositions(bar types.Bar) {
	for _, pos := range s.positions {
		pos.MarkPrice(bar.Close)
	}
}

func (s *Simulator) appendEquity(bar types.Bar) {
	equity := s.balance
	for _, pos := range s.positions {
		equity = equity.Add(pos.UnrealizedPnL)
	}

	if equity.GreaterThan(s.hwm) {
		s.hwm = equity
	}

	drawdown := decimal.Zero
	if s.hwm.IsPositive() {
		drawdown = s.hwm.Sub(equity).Div(s.hwm)
	}

	s.equity = append(s.equity, types.EquityPoint{
		Timestamp:     bar.Timestamp,
		Equity:        equity,
		Drawdown:      drawdown,
		HighWaterMark: s.hwm,
	})
}

// closeAll force-closes every still-open trade at the final bar's close, with
// exit costs applied symmetrically to entry.
func (s *Simulator) closeAll(last types.Bar) {
	symbols := make([]string, 0, len(s.open))
	for sym := range s.open {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		idx := s.open[sym]
		trade := &s.trades[idx]

		slippage := last.Close.Mul(s.cfg.Slippage)
		commission := trade.Size.Mul(last.Close).Mul(s.cfg.Commission)

		trade.Exit = last.Close
		trade.ExitTime = last.Timestamp
		trade.Status = types.TradeStateClosed
		trade.PnL = trade.GrossPnL().Sub(commission).Sub(slippage)
		trade.Commission = trade.Commission.Add(commission)
		trade.Slippage = trade.Slippage.Add(slippage)
		trade.HoldingDays = int(trade.ExitTime.Sub(trade.EntryTime).Hours() / 24)

		s.balance = s.balance.Add(trade.PnL)
		delete(s.positions, sym)
		delete(s.open, sym)
	}
}

func (s *Simulator) openPositions() []types.Position {
	symbols := make([]string, 0, len(s.positions))
	for sym := range s.positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	out := make([]types.Position, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, *s.positions[sym])
	}
	return out
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
