package indicator

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// MACDResult holds the three aligned MACD outputs.
type MACDResult struct {
	Line      types.Series
	Signal    types.Series
	Histogram types.Series
}

// MACD computes EMA(fast) - EMA(slow), its signal EMA and the histogram.
// The line starts at bar slow-1 and the signal at bar slow+signal-2.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return MACDResult{}, errors.Newf(errors.ErrCodeInvalidPeriod,
			"MACD periods must be positive integers, got fast=%d slow=%d signal=%d", fast, slow, signal)
	}

	if fast >= slow {
		return MACDResult{}, errors.Newf(errors.ErrCodeInvalidPeriod,
			"MACD fast period (%d) must be less than slow period (%d)", fast, slow)
	}

	required := slow + signal - 1
	if len(closes) < required {
		return MACDResult{}, errors.NewInsufficientDataError("MACD", slow, required, len(closes), "")
	}

	fastEMA := emaValues(closes, fast)
	slowEMA := emaValues(closes, slow)

	// fastEMA[k] is bar fast-1+k; align it on the slow EMA's first bar
	shift := slow - fast
	line := make([]float64, len(slowEMA))

	for k := range slowEMA {
		line[k] = fastEMA[k+shift] - slowEMA[k]
	}

	signalValues := emaValues(line, signal)
	histogram := make([]float64, len(signalValues))

	for k := range signalValues {
		histogram[k] = line[k+signal-1] - signalValues[k]
	}

	signalOffset := slow - 1 + signal - 1

	return MACDResult{
		Line:      types.Series{Offset: slow - 1, Values: line},
		Signal:    types.Series{Offset: signalOffset, Values: signalValues},
		Histogram: types.Series{Offset: signalOffset, Values: histogram},
	}, nil
}
