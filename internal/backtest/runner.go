package backtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/logger"
	"github.com/rxtech-lab/cuanbot-engine/internal/stats"
	"github.com/rxtech-lab/cuanbot-engine/internal/strategy"
	"github.com/rxtech-lab/cuanbot-engine/internal/telemetry"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Request is one symbol backtest.
type Request struct {
	Symbol string
	Bars   []types.Bar
	Config Config
}

// BatchResult pairs a request with its outcome. Exactly one of Result and Err is set.
type BatchResult struct {
	Symbol string
	Result types.BacktestResult
	Err    error
}

// Runner wires the indicator engine, signal generator, simulator and metrics together.
type Runner struct {
	engine  *indicator.Engine
	log     *logger.Logger
	metrics *telemetry.Metrics
	workers int
	now     func() time.Time
}

type RunnerOption func(*Runner)

func WithLogger(log *logger.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = log.Named("backtest")
	}
}

func WithTelemetry(m *telemetry.Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithWorkers bounds the number of concurrent runs in RunBatch.
func WithWorkers(workers int) RunnerOption {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// WithClock replaces the time source used for CreatedAt.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(engine *indicator.Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:  engine,
		log:     logger.NewNopLogger(),
		workers: defaultWorkers,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.engine == nil {
		r.engine = indicator.NewEngine(nil)
	}

	return r
}

// Run executes a single backtest.
func (r *Runner) Run(req Request) (types.BacktestResult, error) {
	start := time.Now()

	result, err := r.run(req)

	r.metrics.ObserveBacktest(req.Config.Strategy.ID, err, time.Since(start), len(result.Trades))

	if err != nil {
		r.log.Warn("backtest failed",
			zap.String("symbol", req.Symbol),
			zap.String("strategy", req.Config.Strategy.ID),
			zap.Error(err),
		)

		return types.BacktestResult{}, err
	}

	r.log.Info("backtest finished",
		zap.String("id", result.ID),
		zap.String("symbol", req.Symbol),
		zap.String("strategy", req.Config.Strategy.ID),
		zap.Int("bars", len(result.EquityCurve)),
		zap.Int("trades", result.Metrics.TradeCount),
		zap.Float64("total_profit", result.Metrics.TotalProfit),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

func (r *Runner) run(req Request) (types.BacktestResult, error) {
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	s, err := strategy.Parse(cfg.Strategy.ID, cfg.Strategy.Params)
	if err != nil {
		return types.BacktestResult{}, err
	}

	bars := WindowBars(req.Bars, cfg)
	if len(bars) == 0 {
		return types.BacktestResult{}, errors.NewInsufficientDataError(string(s.ID()), 0, 1, 0, req.Symbol)
	}

	snapshots, err := r.engine.Compute(req.Symbol, bars, s.IndicatorConfig(), s.RequiredIndicators()...)
	if err != nil {
		return types.BacktestResult{}, err
	}

	signals, err := strategy.Generate(snapshots, s)
	if err != nil {
		return types.BacktestResult{}, err
	}

	simulation, err := Simulate(bars, signals, cfg, WithMaxHoldingBars(s.HoldingLimit()))
	if err != nil {
		return types.BacktestResult{}, err
	}

	opts, err := stats.OptionsFor(cfg.Interval, cfg.RiskFreeRate)
	if err != nil {
		return types.BacktestResult{}, err
	}

	metrics := stats.Calculate(simulation.Trades, simulation.EquityCurve, cfg.InitialCapital, opts)
	metrics.BuyAndHoldPct = stats.BuyAndHold(bars)

	return types.BacktestResult{
		ID:        uuid.NewString(),
		CreatedAt: r.now(),
		Symbol:    req.Symbol,
		Strategy: types.StrategyInfo{
			ID:         s.ID(),
			Parameters: s.Parameters(),
		},
		Trades:      simulation.Trades,
		EquityCurve: simulation.EquityCurve,
		Metrics:     metrics,
	}, nil
}

// RunBatch runs independent requests on a bounded pool. A failed request only
// fails its own BatchResult; a cancelled ctx fails the requests not yet started.
func (r *Runner) RunBatch(ctx context.Context, requests []Request) []BatchResult {
	results := make([]BatchResult, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, req := range requests {
		g.Go(func() error {
			results[i].Symbol = req.Symbol

			if err := ctx.Err(); err != nil {
				results[i].Err = err

				return nil
			}

			results[i].Result, results[i].Err = r.Run(req)

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// WindowBars keeps the bars inside the optional [start_time, end_time] window.
func WindowBars(bars []types.Bar, cfg Config) []types.Bar {
	if cfg.StartTime.IsNone() && cfg.EndTime.IsNone() {
		return bars
	}

	out := make([]types.Bar, 0, len(bars))

	for _, bar := range bars {
		if cfg.StartTime.IsSome() && bar.Time.Before(cfg.StartTime.Unwrap()) {
			continue
		}

		if cfg.EndTime.IsSome() && bar.Time.After(cfg.EndTime.Unwrap()) {
			continue
		}

		out = append(out, bar)
	}

	return out
}
