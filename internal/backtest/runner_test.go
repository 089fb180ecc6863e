package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rxtech-lab/cuanbot-engine/internal/cache"
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/telemetry"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/mocks"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RunnerTestSuite struct {
	suite.Suite
	bars    []types.Bar
	metrics *telemetry.Metrics
	runner  *Runner
	now     time.Time
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (suite *RunnerTestSuite) SetupTest() {
	config := mocks.DefaultConfig()
	config.Count = 300
	suite.bars = mocks.NewDataGenerator(11).Generate(config)
	suite.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	suite.metrics = telemetry.NewMetrics(prometheus.NewRegistry())
	suite.runner = NewRunner(
		indicator.NewEngine(cache.NewInMemoryMemo()),
		WithTelemetry(suite.metrics),
		WithWorkers(2),
		WithClock(func() time.Time { return suite.now }),
	)
}

func rsiConfig() Config {
	cfg := DefaultConfig()
	cfg.Broker = "idx_retail"
	cfg.Strategy = StrategyConfig{ID: "rsi_oversold", Params: map[string]any{"entry_threshold": 35}}

	return cfg
}

func (suite *RunnerTestSuite) TestRun() {
	result, err := suite.runner.Run(Request{Symbol: "BBCA.JK", Bars: suite.bars, Config: rsiConfig()})
	suite.Require().NoError(err)

	suite.NotEmpty(result.ID)
	suite.Equal(suite.now, result.CreatedAt)
	suite.Equal("BBCA.JK", result.Symbol)
	suite.Equal(types.StrategyRSIOversold, result.Strategy.ID)
	suite.Equal(35.0, result.Strategy.Parameters["entry_threshold"])
	suite.Len(result.EquityCurve, len(suite.bars))
	suite.Equal(len(result.Trades), result.Metrics.TradeCount)

	totalPnL := 0.0
	for _, trade := range result.Trades {
		totalPnL += trade.PnL
	}

	suite.InDelta(totalPnL, result.Metrics.TotalProfit, 1e-4)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.BacktestRuns.WithLabelValues("rsi_oversold", "ok")))
}

func (suite *RunnerTestSuite) TestRunAppliesHoldingLimit() {
	cfg := rsiConfig()
	cfg.Strategy.Params = map[string]any{"entry_threshold": 35, "max_holding_bars": 3}

	result, err := suite.runner.Run(Request{Symbol: "BBCA.JK", Bars: suite.bars, Config: cfg})
	suite.Require().NoError(err)
	suite.Equal(3, result.Strategy.Parameters["max_holding_bars"])

	for _, trade := range result.Trades {
		suite.LessOrEqual(trade.HoldingBars, 3)
	}
}

func (suite *RunnerTestSuite) TestRisingSeriesHasNoCrossover() {
	bars := mocks.BarsFromCloses(mocks.LinearCloses(100, 1, 260))

	cfg := DefaultConfig()
	cfg.Strategy = StrategyConfig{ID: "ma_crossover"}

	result, err := suite.runner.Run(Request{Symbol: "TLKM.JK", Bars: bars, Config: cfg})
	suite.Require().NoError(err)
	suite.Empty(result.Trades)
	suite.Equal(0, result.Metrics.TradeCount)
	suite.InDelta(cfg.InitialCapital, result.EquityCurve[len(bars)-1].Equity, 1e-9)
}

func (suite *RunnerTestSuite) TestRunErrors() {
	suite.Run("unknown strategy", func() {
		cfg := DefaultConfig()
		cfg.Strategy = StrategyConfig{ID: "grid"}

		_, err := suite.runner.Run(Request{Symbol: "BBRI.JK", Bars: suite.bars, Config: cfg})
		suite.True(errors.IsInvalidStrategy(err))
	})

	suite.Run("insufficient bars", func() {
		_, err := suite.runner.Run(Request{Symbol: "BBRI.JK", Bars: suite.bars[:5], Config: rsiConfig()})
		suite.Require().Error(err)
		suite.True(errors.IsInsufficientDataError(err))
		suite.Contains(err.Error(), "BBRI.JK")
	})

	suite.Run("invalid strategy params", func() {
		cfg := rsiConfig()
		cfg.Strategy.Params = map[string]any{"entry_threshold": 60, "exit_threshold": 50}

		_, err := suite.runner.Run(Request{Symbol: "BBRI.JK", Bars: suite.bars, Config: cfg})
		suite.True(errors.IsInvalidParameter(err))
	})

	suite.Run("window excludes every bar", func() {
		cfg := rsiConfig()
		cfg.StartTime = optional.Some(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

		_, err := suite.runner.Run(Request{Symbol: "BBRI.JK", Bars: suite.bars, Config: cfg})
		suite.True(errors.IsInsufficientDataError(err))
	})

	suite.Equal(3.0, testutil.ToFloat64(suite.metrics.BacktestRuns.WithLabelValues("rsi_oversold", "failed")))
}

func (suite *RunnerTestSuite) TestRunBatchIsolatesFailures() {
	broken := DefaultConfig()
	broken.Strategy = StrategyConfig{ID: "grid"}

	requests := []Request{
		{Symbol: "BBCA.JK", Bars: suite.bars, Config: rsiConfig()},
		{Symbol: "GOTO.JK", Bars: suite.bars, Config: broken},
		{Symbol: "ASII.JK", Bars: suite.bars[:5], Config: rsiConfig()},
		{Symbol: "TLKM.JK", Bars: suite.bars, Config: rsiConfig()},
	}

	results := suite.runner.RunBatch(context.Background(), requests)
	suite.Require().Len(results, len(requests))

	for i, result := range results {
		suite.Equal(requests[i].Symbol, result.Symbol)
	}

	suite.NoError(results[0].Err)
	suite.True(errors.IsInvalidStrategy(results[1].Err))
	suite.True(errors.IsInsufficientDataError(results[2].Err))
	suite.NoError(results[3].Err)

	// identical inputs produce identical trade logs
	suite.Equal(results[0].Result.Trades, results[3].Result.Trades)
	suite.NotEqual(results[0].Result.ID, results[3].Result.ID)
}

func (suite *RunnerTestSuite) TestRunBatchCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := suite.runner.RunBatch(ctx, []Request{
		{Symbol: "BBCA.JK", Bars: suite.bars, Config: rsiConfig()},
		{Symbol: "TLKM.JK", Bars: suite.bars, Config: rsiConfig()},
	})

	for _, result := range results {
		suite.ErrorIs(result.Err, context.Canceled)
	}
}

func (suite *RunnerTestSuite) TestWindowBars() {
	bars := mocks.BarsFromCloses(mocks.LinearCloses(100, 1, 10))

	cfg := DefaultConfig()
	suite.Len(WindowBars(bars, cfg), 10)

	cfg.StartTime = optional.Some(bars[2].Time)
	cfg.EndTime = optional.Some(bars[6].Time)

	window := WindowBars(bars, cfg)
	suite.Require().Len(window, 5)
	suite.Equal(bars[2].Time, window[0].Time)
	suite.Equal(bars[6].Time, window[4].Time)
}
