package screener

import (
	"context"
	"testing"

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
	"go.uber.org/mock/gomock"
)

type ScreenerTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	bars         *mocks.MockBarProvider
	fundamentals *mocks.MockFundamentalsProvider
	metrics      *telemetry.Metrics
}

func TestScreenerSuite(t *testing.T) {
	suite.Run(t, new(ScreenerTestSuite))
}

func (suite *ScreenerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.bars = mocks.NewMockBarProvider(suite.ctrl)
	suite.fundamentals = mocks.NewMockFundamentalsProvider(suite.ctrl)
	suite.metrics = telemetry.NewMetrics(prometheus.NewRegistry())
}

func (suite *ScreenerTestSuite) newScreener(universe []string) *Screener {
	return NewScreener(suite.bars, indicator.NewEngine(cache.NewInMemoryMemo()),
		WithUniverse(universe),
		WithFundamentals(suite.fundamentals),
		WithWorkers(2),
		WithTelemetry(suite.metrics),
	)
}

func ptr(v float64) *float64 {
	return &v
}

func generated(seed int64) []types.Bar {
	config := mocks.DefaultConfig()
	config.Count = 260

	return mocks.NewDataGenerator(seed).Generate(config)
}

func (suite *ScreenerTestSuite) TestDefaultUniverse() {
	s := NewScreener(suite.bars, nil)
	suite.Equal(LQ45, s.Universe())
	suite.Contains(s.Universe(), "BBCA.JK")
}

func (suite *ScreenerTestSuite) TestScreenIsolatesFailures() {
	universe := []string{"BBCA.JK", "GOTO.JK", "BUKA.JK", "TLKM.JK"}

	suite.bars.EXPECT().Bars(gomock.Any(), "BBCA.JK").Return(generated(1), nil)
	suite.bars.EXPECT().Bars(gomock.Any(), "GOTO.JK").Return(nil, errors.New(errors.ErrCodeDataSourceUnavailable, "upstream timeout"))
	suite.bars.EXPECT().Bars(gomock.Any(), "BUKA.JK").Return(generated(2)[:5], nil)
	suite.bars.EXPECT().Bars(gomock.Any(), "TLKM.JK").Return(generated(3), nil)

	suite.fundamentals.EXPECT().Fundamentals(gomock.Any(), "BBCA.JK").Return(types.Fundamentals{PE: ptr(10), PBV: ptr(1.2), Sector: "Banking"}, nil)
	suite.fundamentals.EXPECT().Fundamentals(gomock.Any(), "BUKA.JK").Return(types.Fundamentals{Sector: "Technology"}, nil)
	suite.fundamentals.EXPECT().Fundamentals(gomock.Any(), "TLKM.JK").Return(types.Fundamentals{}, errors.New(errors.ErrCodeDataNotFound, "no fundamentals"))

	result, err := suite.newScreener(universe).Screen(context.Background(), Options{})
	suite.Require().NoError(err)

	suite.Equal(4, result.TotalScreened)
	suite.Require().Len(result.Rows, 2)
	suite.Require().Len(result.Failures, 2)
	suite.Equal("GOTO.JK", result.Failures[0].Symbol)
	suite.Contains(result.Failures[0].Error, "upstream timeout")
	suite.Equal("BUKA.JK", result.Failures[1].Symbol)
	suite.Contains(result.Failures[1].Error, "insufficient data")

	suite.GreaterOrEqual(result.Rows[0].CompositeScore, result.Rows[1].CompositeScore)

	rows := make(map[string]types.ScreenerRow)
	for _, row := range result.Rows {
		suite.GreaterOrEqual(row.CompositeScore, 0.0)
		suite.LessOrEqual(row.CompositeScore, 100.0)
		rows[row.Symbol] = row
	}

	suite.Equal("Banking", rows["BBCA.JK"].Sector)
	suite.Equal(optional.Some(10.0), rows["BBCA.JK"].Factors.PE)
	suite.Equal("Unknown", rows["TLKM.JK"].Sector)
	suite.True(rows["TLKM.JK"].Factors.PE.IsNone())
	suite.Equal(50.0, rows["TLKM.JK"].Factors.ValuationScore)

	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.ScreenerSymbols.WithLabelValues("ok")))
	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.ScreenerSymbols.WithLabelValues("failed")))
}

func (suite *ScreenerTestSuite) TestFundamentalsErrorFailsSymbol() {
	suite.bars.EXPECT().Bars(gomock.Any(), "BBCA.JK").Return(generated(1), nil)
	suite.fundamentals.EXPECT().Fundamentals(gomock.Any(), "BBCA.JK").
		Return(types.Fundamentals{}, errors.New(errors.ErrCodeDataSourceUnavailable, "fundamentals offline"))

	result, err := suite.newScreener([]string{"BBCA.JK"}).Screen(context.Background(), Options{})
	suite.Require().NoError(err)
	suite.Empty(result.Rows)
	suite.Require().Len(result.Failures, 1)
	suite.Contains(result.Failures[0].Error, "fundamentals offline")
}

func (suite *ScreenerTestSuite) TestOversoldFilter() {
	suite.bars.EXPECT().Bars(gomock.Any(), "UP.JK").Return(mocks.BarsFromCloses(mocks.LinearCloses(100, 1, 260)), nil)
	suite.bars.EXPECT().Bars(gomock.Any(), "DOWN.JK").Return(mocks.BarsFromCloses(mocks.LinearCloses(500, -1, 260)), nil)
	suite.fundamentals.EXPECT().Fundamentals(gomock.Any(), gomock.Any()).Return(types.Fundamentals{}, nil).Times(2)

	result, err := suite.newScreener([]string{"UP.JK", "DOWN.JK"}).
		Screen(context.Background(), Options{Filter: types.ScreenerFilterOversold})
	suite.Require().NoError(err)
	suite.Require().Len(result.Rows, 1)

	row := result.Rows[0]
	suite.Equal("DOWN.JK", row.Symbol)
	suite.InDelta(0.0, row.Factors.RSI, 1e-9)
	suite.Equal(100.0, row.Factors.RSIScore)
	suite.True(row.Factors.Trend.IsBearish())
	suite.Equal(1, result.Sectors["Unknown"].Count)
	suite.InDelta(row.CompositeScore, result.Sectors["Unknown"].AvgScore, 0.05)
}

func (suite *ScreenerTestSuite) TestInvalidOptions() {
	s := suite.newScreener([]string{"BBCA.JK"})

	_, err := s.Screen(context.Background(), Options{Filter: "momentum"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidFilter))
	suite.True(errors.IsInvalidParameter(err))

	_, err = s.Screen(context.Background(), Options{MinScore: 120})
	suite.True(errors.IsInvalidParameter(err))
}

func (suite *ScreenerTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.newScreener([]string{"BBCA.JK", "TLKM.JK"}).Screen(ctx, Options{})
	suite.ErrorIs(err, context.Canceled)
}

func (suite *ScreenerTestSuite) TestCompositeScore() {
	tests := []struct {
		name      string
		rsi       float64
		trend     float64
		valuation float64
		anomaly   bool
		expected  float64
	}{
		{"weighted blend", 70, 100, 50, false, 75.5},
		{"anomaly penalty", 70, 100, 50, true, 50.5},
		{"upper clamp", 100, 100, 100, false, 100},
		{"lower clamp", 0, 0, 0, true, 0},
		{"rounded", 33.333, 0, 0, false, 13.33},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, CompositeScore(tc.rsi, tc.trend, tc.valuation, tc.anomaly))
		})
	}
}

func (suite *ScreenerTestSuite) TestTrendScore() {
	suite.Equal(50.0, TrendScore(types.IndicatorSnapshot{Close: 100}))

	suite.Equal(100.0, TrendScore(types.IndicatorSnapshot{
		Close:         110,
		ShortMA:       optional.Some(105.0),
		LongMA:        optional.Some(100.0),
		MACDHistogram: optional.Some(1.0),
	}))

	suite.Equal(25.0, TrendScore(types.IndicatorSnapshot{
		Close:         95,
		ShortMA:       optional.Some(105.0),
		LongMA:        optional.Some(100.0),
		MACDHistogram: optional.Some(-1.0),
	}))

	suite.Equal(0.0, TrendScore(types.IndicatorSnapshot{Close: 95, MACDHistogram: optional.Some(-0.5)}))
}

func (suite *ScreenerTestSuite) TestPercentileScores() {
	scores := PercentileScores(map[string]float64{"A": 5, "B": 10, "C": 20, "D": -3, "E": 10})

	suite.InDelta(100.0, scores["A"], 1e-9)
	suite.InDelta(100.0/3, scores["B"], 1e-9)
	suite.InDelta(scores["B"], scores["E"], 1e-9)
	suite.InDelta(0.0, scores["C"], 1e-9)
	suite.InDelta(0.0, scores["D"], 1e-9)

	suite.Equal(map[string]float64{"A": 50}, PercentileScores(map[string]float64{"A": 12}))
}

func (suite *ScreenerTestSuite) TestValuationScores() {
	scores := ValuationScores(map[string]*types.Fundamentals{
		"X": {PE: ptr(5), PBV: ptr(2)},
		"Y": {PE: ptr(10)},
		"Z": nil,
	})

	suite.InDelta(75.0, scores["X"], 1e-9)
	suite.InDelta(0.0, scores["Y"], 1e-9)
	suite.InDelta(50.0, scores["Z"], 1e-9)
}

func (suite *ScreenerTestSuite) TestFilter() {
	rows := []types.ScreenerRow{
		{Symbol: "A", CompositeScore: 80, Sector: "Banking", Factors: types.ScreenerFactors{RSI: 30, Trend: types.TrendBullishStrong, PE: optional.Some(8.0)}},
		{Symbol: "B", CompositeScore: 65, Sector: "Mining", Factors: types.ScreenerFactors{RSI: 50, Trend: types.TrendBearishShortTerm, PE: optional.Some(-4.0)}},
		{Symbol: "C", CompositeScore: 40, Sector: "Consumer Banking", Factors: types.ScreenerFactors{RSI: 60, Trend: types.TrendBullishShortTerm, PE: optional.None[float64]()}},
	}

	symbols := func(rows []types.ScreenerRow) []string {
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.Symbol)
		}

		return out
	}

	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{"all", Options{Filter: types.ScreenerFilterAll}, []string{"A", "B", "C"}},
		{"oversold", Options{Filter: types.ScreenerFilterOversold}, []string{"A"}},
		{"bullish", Options{Filter: types.ScreenerFilterBullish}, []string{"A", "C"}},
		{"cheap", Options{Filter: types.ScreenerFilterCheap}, []string{"A"}},
		{"high score", Options{Filter: types.ScreenerFilterHighScore}, []string{"A"}},
		{"min score", Options{Filter: types.ScreenerFilterAll, MinScore: 60}, []string{"A", "B"}},
		{"sector substring", Options{Filter: types.ScreenerFilterAll, Sector: "bank"}, []string{"A", "C"}},
		{"combined", Options{Filter: types.ScreenerFilterBullish, MinScore: 50, Sector: "bank"}, []string{"A"}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, symbols(Filter(rows, tc.opts)))
		})
	}
}

func (suite *ScreenerTestSuite) TestSortRowsBreaksTiesBySymbol() {
	rows := []types.ScreenerRow{
		{Symbol: "TLKM.JK", CompositeScore: 60},
		{Symbol: "BBRI.JK", CompositeScore: 75},
		{Symbol: "ASII.JK", CompositeScore: 60},
		{Symbol: "BBCA.JK", CompositeScore: 75},
	}

	SortRows(rows)

	suite.Equal("BBCA.JK", rows[0].Symbol)
	suite.Equal("BBRI.JK", rows[1].Symbol)
	suite.Equal("ASII.JK", rows[2].Symbol)
	suite.Equal("TLKM.JK", rows[3].Symbol)
}

func (suite *ScreenerTestSuite) TestSummarizeSectors() {
	summary := SummarizeSectors([]types.ScreenerRow{
		{Symbol: "A", Sector: "Banking", CompositeScore: 70},
		{Symbol: "B", Sector: "Banking", CompositeScore: 65.33},
		{Symbol: "C", Sector: "Mining", CompositeScore: 40},
	})

	suite.Equal(types.SectorSummary{Count: 2, AvgScore: 67.7}, summary["Banking"])
	suite.Equal(types.SectorSummary{Count: 1, AvgScore: 40}, summary["Mining"])
}
