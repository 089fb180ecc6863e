package strategy

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/mocks"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

// rsiSnapshots builds snapshots carrying only the given RSI values.
func rsiSnapshots(values []float64) []types.IndicatorSnapshot {
	snapshots := make([]types.IndicatorSnapshot, len(values))
	for i, v := range values {
		snapshots[i] = types.IndicatorSnapshot{Index: i, RSI: optional.Some(v)}
	}

	return snapshots
}

// scenarioRSI crosses below 30 at bar 10 and above 50 at bar 20.
func scenarioRSI() []float64 {
	values := make([]float64, 30)
	for i := range values {
		switch {
		case i < 10:
			values[i] = 40
		case i == 10:
			values[i] = 25
		case i < 20:
			values[i] = 35
		case i == 20:
			values[i] = 55
		default:
			values[i] = 45
		}
	}

	return values
}

func (suite *StrategyTestSuite) TestParseDefaults() {
	s, err := Parse("rsi_oversold", nil)
	suite.Require().NoError(err)
	suite.Equal(types.StrategyRSIOversold, s.ID())
	suite.Equal(map[string]any{"period": 14, "entry_threshold": 30.0, "exit_threshold": 50.0, "max_holding_bars": 0}, s.Parameters())
	suite.Zero(s.HoldingLimit())
	suite.Equal([]types.IndicatorType{types.IndicatorTypeRSI}, s.RequiredIndicators())

	s, err = Parse("ma_crossover", map[string]any{"short_period": 5, "long_period": 20})
	suite.Require().NoError(err)
	suite.Equal(5, s.IndicatorConfig().ShortMAPeriod)
	suite.Equal(20, s.IndicatorConfig().LongMAPeriod)
	suite.Equal(map[string]any{"short_period": 5, "long_period": 20}, s.Parameters())

	s, err = Parse("macd_reversal", map[string]any{"fast": 8.0, "slow": 21, "signal": 5})
	suite.Require().NoError(err)
	suite.Equal(map[string]any{"fast": 8, "slow": 21, "signal": 5}, s.Parameters())
	suite.NoError(s.IndicatorConfig().Validate())
}

func (suite *StrategyTestSuite) TestParseUnknownStrategy() {
	s, err := Parse("buy_the_rumour", nil)
	suite.Nil(s)
	suite.True(errors.IsInvalidStrategy(err))
	suite.False(errors.IsInvalidParameter(err))
}

func (suite *StrategyTestSuite) TestParseInvalidParameters() {
	tests := []struct {
		name   string
		id     string
		params map[string]any
	}{
		{"negative period", "rsi_oversold", map[string]any{"period": -14}},
		{"threshold above 100", "rsi_oversold", map[string]any{"entry_threshold": 120, "exit_threshold": 130}},
		{"entry not below exit", "rsi_oversold", map[string]any{"entry_threshold": 60, "exit_threshold": 50}},
		{"negative holding bars", "rsi_oversold", map[string]any{"max_holding_bars": -1}},
		{"fractional period", "rsi_oversold", map[string]any{"period": 14.5}},
		{"unknown key", "rsi_oversold", map[string]any{"lookback": 3}},
		{"short not below long", "ma_crossover", map[string]any{"short_period": 200, "long_period": 50}},
		{"zero long period", "ma_crossover", map[string]any{"long_period": 0}},
		{"fast not below slow", "macd_reversal", map[string]any{"fast": 26, "slow": 12}},
		{"wrong type", "macd_reversal", map[string]any{"signal": "nine"}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			s, err := Parse(tc.id, tc.params)
			suite.Nil(s)
			suite.Require().Error(err)
			suite.True(errors.IsInvalidParameter(err), err.Error())
		})
	}
}

func (suite *StrategyTestSuite) TestParseUndecodableParameters() {
	_, err := Parse("rsi_oversold", map[string]any{"lookback": 3})
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))

	_, err = Parse("macd_reversal", map[string]any{"signal": "nine"})
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))

	// decodable but out of range
	_, err = Parse("rsi_oversold", map[string]any{"period": -14})
	suite.False(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
	suite.True(errors.IsInvalidParameter(err))
}

func (suite *StrategyTestSuite) TestRSIOversoldScenario() {
	s, err := NewRSIOversold(DefaultRSIOversoldParams())
	suite.Require().NoError(err)

	signals, err := Generate(rsiSnapshots(scenarioRSI()), s)
	suite.Require().NoError(err)
	suite.Require().Len(signals, 30)

	for i, signal := range signals {
		suite.Equal(i, signal.Index)

		switch i {
		case 10:
			suite.Equal(types.SignalTypeEnterLong, signal.Type)
			suite.NotEmpty(signal.Reason)
		case 20:
			suite.Equal(types.SignalTypeExitLong, signal.Type)
		default:
			suite.Equal(types.SignalTypeHold, signal.Type, "bar %d", i)
			suite.Empty(signal.Reason)
		}
	}
}

func (suite *StrategyTestSuite) TestRSIOversoldMaxHoldingBars() {
	params := DefaultRSIOversoldParams()
	params.MaxHoldingBars = 4

	s, err := NewRSIOversold(params)
	suite.Require().NoError(err)
	suite.Equal(4, s.HoldingLimit())

	// the holding limit is enforced against the filled position, not in the signals
	signals, err := Generate(rsiSnapshots(scenarioRSI()), s)
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeEnterLong, signals[10].Type)
	suite.Equal(types.SignalTypeHold, signals[14].Type)
	suite.Equal(types.SignalTypeExitLong, signals[20].Type)
}

func (suite *StrategyTestSuite) TestRSIOversoldSignalsEveryEntryCross() {
	values := make([]float64, 30)
	for i := range values {
		switch {
		case i < 10:
			values[i] = 40
		case i == 10, i == 15:
			values[i] = 25
		case i == 25:
			values[i] = 55
		default:
			values[i] = 35
		}
	}

	s, err := NewRSIOversold(DefaultRSIOversoldParams())
	suite.Require().NoError(err)

	signals, err := Generate(rsiSnapshots(values), s)
	suite.Require().NoError(err)

	for i, signal := range signals {
		switch i {
		case 10, 15:
			suite.Equal(types.SignalTypeEnterLong, signal.Type, "bar %d", i)
		case 25:
			suite.Equal(types.SignalTypeExitLong, signal.Type, "bar %d", i)
		default:
			suite.Equal(types.SignalTypeHold, signal.Type, "bar %d", i)
		}
	}
}

func (suite *StrategyTestSuite) TestGenerateIsCausal() {
	config := mocks.DefaultConfig()
	config.Count = 500
	config.Volatility = 0.03
	bars := mocks.NewDataGenerator(11).Generate(config)

	for _, id := range types.AllStrategies {
		suite.Run(string(id), func() {
			s, err := Parse(string(id), nil)
			suite.Require().NoError(err)

			snapshots, err := indicator.NewEngine(nil).Compute("TEST", bars, s.IndicatorConfig(), s.RequiredIndicators()...)
			suite.Require().NoError(err)

			signals, err := Generate(snapshots, s)
			suite.Require().NoError(err)
			suite.Len(signals, len(bars))

			for _, cut := range []int{250, 300, 420} {
				prefix, err := Generate(snapshots[:cut], s)
				suite.Require().NoError(err)
				suite.Equal(signals[:cut], prefix, "cut at %d", cut)
			}
		})
	}
}

func (suite *StrategyTestSuite) TestMACrossoverOnRisingPricesNeverTrades() {
	s, err := NewMACrossover(MACrossoverParams{ShortPeriod: 5, LongPeriod: 20})
	suite.Require().NoError(err)

	bars := mocks.BarsFromCloses(mocks.LinearCloses(100, 1, 120))
	snapshots, err := indicator.NewEngine(nil).Compute("TEST", bars, s.IndicatorConfig(), s.RequiredIndicators()...)
	suite.Require().NoError(err)

	signals, err := Generate(snapshots, s)
	suite.Require().NoError(err)

	for _, signal := range signals {
		suite.Equal(types.SignalTypeHold, signal.Type)
	}
}

func (suite *StrategyTestSuite) TestMACDReversal() {
	s, err := NewMACDReversal(DefaultMACDReversalParams())
	suite.Require().NoError(err)

	histogram := []optional.Option[float64]{
		optional.None[float64](), optional.Some(-1.0), optional.Some(0.5), optional.Some(0.2), optional.Some(-0.1), optional.Some(0.3),
	}

	snapshots := make([]types.IndicatorSnapshot, len(histogram))
	for i, h := range histogram {
		snapshots[i] = types.IndicatorSnapshot{Index: i, MACDHistogram: h}
	}

	signals, err := Generate(snapshots, s)
	suite.Require().NoError(err)

	got := make([]types.SignalType, len(signals))
	for i, signal := range signals {
		got[i] = signal.Type
	}

	suite.Equal([]types.SignalType{
		types.SignalTypeHold,
		types.SignalTypeHold,
		types.SignalTypeEnterLong,
		types.SignalTypeHold,
		types.SignalTypeExitLong,
		types.SignalTypeEnterLong,
	}, got)
}

func (suite *StrategyTestSuite) TestGenerateRejectsMisindexedSnapshots() {
	s, err := NewRSIOversold(DefaultRSIOversoldParams())
	suite.Require().NoError(err)

	snapshots := rsiSnapshots([]float64{40, 25, 55})
	snapshots[2].Index = 7

	_, err = Generate(snapshots, s)
	suite.True(errors.IsInvalidParameter(err))

	_, err = Generate(snapshots, nil)
	suite.True(errors.IsInvalidParameter(err))
}

func (suite *StrategyTestSuite) TestParamsSchema() {
	schema, err := ParamsSchema(types.StrategyRSIOversold)
	suite.Require().NoError(err)
	suite.Contains(schema, "entry_threshold")
	suite.Contains(schema, "max_holding_bars")

	_, err = ParamsSchema("unknown")
	suite.True(errors.IsInvalidStrategy(err))
}
