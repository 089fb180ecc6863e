package stats

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"github.com/shopspring/decimal"
)

// Options controls the annualized statistics.
type Options struct {
	// AnnualizationFactor multiplies the per-bar Sharpe ratio, usually sqrt(PeriodsPerYear).
	AnnualizationFactor float64
	// PeriodsPerYear is the number of bars in one year.
	PeriodsPerYear float64
	// RiskFreeRate is the annual risk free rate.
	RiskFreeRate float64
}

var periodsPerYear = map[string]float64{
	"1m":  252 * 390,
	"5m":  252 * 78,
	"15m": 252 * 26,
	"30m": 252 * 13,
	"1h":  252 * 6.5,
	"4h":  252 * 6.5 / 4,
	"1d":  252,
	"1w":  52,
	"1mo": 12,
}

// PeriodsPerYear returns the number of bars of the given interval in a trading year.
func PeriodsPerYear(interval string) (float64, error) {
	periods, ok := periodsPerYear[interval]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported interval %q", interval)
	}

	return periods, nil
}

// AnnualizationFor returns sqrt(periods per year) for the interval: 1d gives sqrt(252), 1w sqrt(52).
func AnnualizationFor(interval string) (float64, error) {
	periods, err := PeriodsPerYear(interval)
	if err != nil {
		return 0, err
	}

	return math.Sqrt(periods), nil
}

// OptionsFor builds the Options of an interval.
func OptionsFor(interval string, riskFreeRate float64) (Options, error) {
	periods, err := PeriodsPerYear(interval)
	if err != nil {
		return Options{}, err
	}

	return Options{
		AnnualizationFactor: math.Sqrt(periods),
		PeriodsPerYear:      periods,
		RiskFreeRate:        riskFreeRate,
	}, nil
}

// Calculate reduces a trade log and its equity curve to summary metrics.
func Calculate(trades []types.Trade, equity []types.EquityPoint, initialCapital float64, opts Options) types.Metrics {
	m := types.Metrics{
		TradeCount:      len(trades),
		NoTrades:        len(trades) == 0,
		WinRate:         optional.None[float64](),
		InitialCapital:  initialCapital,
		FinalEquity:     initialCapital,
		SharpeRatio:     optional.None[float64](),
		AnnualReturnPct: optional.None[float64](),
		CalmarRatio:     optional.None[float64](),
		ProfitFactor:    optional.None[float64](),
	}

	if len(equity) > 0 {
		m.FinalEquity = equity[len(equity)-1].Equity
	}

	tradeStats(&m, trades)

	if initialCapital != 0 {
		m.TotalProfitPct = m.TotalProfit / initialCapital * 100
	}

	m.UnrealizedPnL = decimal.NewFromFloat(m.FinalEquity).
		Sub(decimal.NewFromFloat(initialCapital)).
		Sub(decimal.NewFromFloat(m.TotalProfit)).
		InexactFloat64()

	m.MaxDrawdown, m.MaxDrawdownValue = MaxDrawdown(equity)
	m.SharpeRatio = Sharpe(Returns(equity), opts)
	m.AnnualReturnPct = annualReturn(initialCapital, m.FinalEquity, len(equity), opts.PeriodsPerYear)

	if m.AnnualReturnPct.IsSome() && m.MaxDrawdown > 0 {
		m.CalmarRatio = optional.Some(m.AnnualReturnPct.Unwrap() / (m.MaxDrawdown * 100))
	}

	return m
}

func tradeStats(m *types.Metrics, trades []types.Trade) {
	if len(trades) == 0 {
		return
	}

	total := decimal.Zero
	fees := decimal.Zero
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero

	m.MaxProfit = trades[0].PnL
	m.MaxLoss = trades[0].PnL

	var holdingTotal, holdingMin, holdingMax int

	for i, trade := range trades {
		pnl := decimal.NewFromFloat(trade.PnL)
		total = total.Add(pnl)
		fees = fees.Add(decimal.NewFromFloat(trade.Fees))

		if trade.PnL > 0 {
			m.WinningTrades++
			grossProfit = grossProfit.Add(pnl)
		} else {
			m.LosingTrades++
			grossLoss = grossLoss.Add(pnl.Abs())
		}

		m.MaxProfit = math.Max(m.MaxProfit, trade.PnL)
		m.MaxLoss = math.Min(m.MaxLoss, trade.PnL)

		seconds := int(trade.HoldingDuration.Seconds())
		holdingTotal += seconds

		if i == 0 || seconds < holdingMin {
			holdingMin = seconds
		}

		if i == 0 || seconds > holdingMax {
			holdingMax = seconds
		}
	}

	m.WinRate = optional.Some(float64(m.WinningTrades) / float64(len(trades)))
	m.TotalProfit = total.InexactFloat64()
	m.TotalFees = fees.InexactFloat64()
	m.TradeHoldingTime = types.TradeHoldingTime{
		Min: holdingMin,
		Max: holdingMax,
		Avg: holdingTotal / len(trades),
	}

	if m.WinningTrades > 0 {
		m.AvgWin = grossProfit.Div(decimal.NewFromInt(int64(m.WinningTrades))).InexactFloat64()
	}

	if m.LosingTrades > 0 {
		m.AvgLoss = grossLoss.Div(decimal.NewFromInt(int64(m.LosingTrades))).InexactFloat64()
	}

	if !grossLoss.IsZero() {
		m.ProfitFactor = optional.Some(grossProfit.Div(grossLoss).InexactFloat64())
	}
}

// MaxDrawdown returns the largest decline from a running peak as a fraction
// of that peak, clamped to [0,1], and the same decline in currency.
func MaxDrawdown(equity []types.EquityPoint) (float64, float64) {
	if len(equity) == 0 {
		return 0, 0
	}

	peak := equity[0].Equity
	maxFraction := 0.0
	maxValue := 0.0

	for _, point := range equity {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak <= 0 {
			continue
		}

		fraction := (peak - point.Equity) / peak
		if fraction > maxFraction {
			maxFraction = fraction
			maxValue = peak - point.Equity
		}
	}

	return math.Min(math.Max(maxFraction, 0), 1), maxValue
}

// Returns computes per-bar simple returns, skipping bars that follow a non-positive equity.
func Returns(equity []types.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev <= 0 {
			continue
		}

		returns = append(returns, equity[i].Equity/prev-1)
	}

	return returns
}

// Sharpe is (mean - rf/periods) / sample std-dev, scaled by the annualization
// factor. It is None with fewer than two returns or zero variance.
func Sharpe(returns []float64, opts Options) optional.Option[float64] {
	if len(returns) < 2 {
		return optional.None[float64]()
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	std := math.Sqrt(variance / float64(len(returns)-1))
	if std == 0 || math.IsNaN(std) {
		return optional.None[float64]()
	}

	riskFree := 0.0
	if opts.PeriodsPerYear > 0 {
		riskFree = opts.RiskFreeRate / opts.PeriodsPerYear
	}

	factor := opts.AnnualizationFactor
	if factor == 0 {
		factor = 1
	}

	return optional.Some((mean - riskFree) / std * factor)
}

func annualReturn(initialCapital, finalEquity float64, bars int, periods float64) optional.Option[float64] {
	if initialCapital <= 0 || finalEquity <= 0 || bars == 0 || periods <= 0 {
		return optional.None[float64]()
	}

	years := float64(bars) / periods

	return optional.Some((math.Pow(finalEquity/initialCapital, 1/years) - 1) * 100)
}

// BuyAndHold is the percent return of holding from the first to the last close.
func BuyAndHold(bars []types.Bar) float64 {
	if len(bars) == 0 || bars[0].Close == 0 {
		return 0
	}

	return (bars[len(bars)-1].Close/bars[0].Close - 1) * 100
}
