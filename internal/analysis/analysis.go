package analysis

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

const (
	oversoldRSI   = 30.0
	overboughtRSI = 70.0

	cheapPE     = 15.0
	expensivePE = 30.0
	cheapPBV    = 1.0
)

// Summarize labels the last snapshot of a series. fundamentals may be nil.
func Summarize(snapshots []types.IndicatorSnapshot, fundamentals *types.Fundamentals) (types.Analysis, error) {
	if len(snapshots) == 0 {
		return types.Analysis{}, errors.NewInsufficientDataError("Summary", 1, 1, 0, "")
	}

	last := snapshots[len(snapshots)-1]

	result := types.Analysis{
		Price:            last.Close,
		Trend:            Trend(last),
		Momentum:         Momentum(last),
		Volatility:       Volatility(last),
		FundamentalScore: FundamentalScore(fundamentals),
		Anomaly:          last.Anomaly.IsSome() && last.Anomaly.Unwrap(),
	}

	if last.MACD.IsSome() && last.MACDSignal.IsSome() {
		result.MACDBullish = last.MACD.Unwrap() > last.MACDSignal.Unwrap()
	}

	if len(snapshots) > 1 {
		prev := snapshots[len(snapshots)-2]

		switch indicator.CrossAt(prev.ShortMA, prev.LongMA, last.ShortMA, last.LongMA) {
		case indicator.CrossGolden:
			result.GoldenCross = true
		case indicator.CrossDeath:
			result.DeathCross = true
		case indicator.CrossNone:
		}
	}

	result.Verdict = verdict(result)

	return result, nil
}

// Trend compares the close with the short and long moving averages.
func Trend(snapshot types.IndicatorSnapshot) types.TrendStatus {
	if snapshot.ShortMA.IsNone() {
		return types.TrendUnknown
	}

	price := snapshot.Close
	short := snapshot.ShortMA.Unwrap()

	if snapshot.LongMA.IsSome() {
		long := snapshot.LongMA.Unwrap()

		switch {
		case price > short && price > long:
			return types.TrendBullishStrong
		case price < short && price < long:
			return types.TrendBearishStrong
		}
	}

	switch {
	case price > short:
		return types.TrendBullishShortTerm
	case price < short:
		return types.TrendBearishShortTerm
	default:
		return types.TrendSideways
	}
}

func Momentum(snapshot types.IndicatorSnapshot) types.MomentumStatus {
	if snapshot.RSI.IsNone() {
		return types.MomentumNeutral
	}

	rsi := snapshot.RSI.Unwrap()

	switch {
	case rsi < oversoldRSI:
		return types.MomentumOversold
	case rsi > overboughtRSI:
		return types.MomentumOverbought
	default:
		return types.MomentumNeutral
	}
}

func Volatility(snapshot types.IndicatorSnapshot) types.VolatilityStatus {
	if snapshot.BollingerUpper.IsNone() || snapshot.BollingerLower.IsNone() {
		return types.VolatilityNormal
	}

	switch {
	case snapshot.Close >= snapshot.BollingerUpper.Unwrap():
		return types.VolatilityHigh
	case snapshot.Close <= snapshot.BollingerLower.Unwrap():
		return types.VolatilityLow
	default:
		return types.VolatilityNormal
	}
}

// FundamentalScore rewards a cheap PE and a PBV below book, and penalizes an expensive PE.
func FundamentalScore(fundamentals *types.Fundamentals) float64 {
	if fundamentals == nil {
		return 0
	}

	score := 0.0

	if fundamentals.PE != nil {
		pe := *fundamentals.PE

		switch {
		case pe > 0 && pe < cheapPE:
			score++
		case pe > expensivePE:
			score -= 0.5
		}
	}

	if fundamentals.PBV != nil && *fundamentals.PBV > 0 && *fundamentals.PBV < cheapPBV {
		score++
	}

	return score
}

func verdict(a types.Analysis) types.Verdict {
	if a.Anomaly {
		return types.VerdictAvoidAnomaly
	}

	switch {
	case a.Trend.IsBullish() && a.Momentum == types.MomentumNeutral:
		return types.VerdictBuyTrend
	case a.Trend.IsBullish() && a.Momentum == types.MomentumOversold:
		return types.VerdictStrongBuy
	case a.Momentum == types.MomentumOversold && a.FundamentalScore > 0:
		return types.VerdictBuyValue
	case a.Trend.IsBearish() || a.Momentum == types.MomentumOverbought:
		return types.VerdictSellWait
	default:
		return types.VerdictHold
	}
}
