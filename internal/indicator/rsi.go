package indicator

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// RSI computes the Relative Strength Index with Wilder smoothing. The first
// value belongs to bar period, seeded with simple averages of the first period changes.
func RSI(closes []float64, period int) (types.Series, error) {
	if period <= 0 {
		return types.Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "RSI period must be a positive integer, got %d", period)
	}

	if len(closes) < period+1 {
		return types.Series{}, errors.NewInsufficientDataError("RSI", period, period+1, len(closes), "")
	}

	avgGain := 0.0
	avgLoss := 0.0

	// First average
	for i := 1; i <= period; i++ {
		gain, loss := splitChange(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	values := make([]float64, 0, len(closes)-period)
	values = append(values, rsiValue(avgGain, avgLoss))

	// Subsequent averages using Wilder's smoothing method
	for i := period + 1; i < len(closes); i++ {
		gain, loss := splitChange(closes[i] - closes[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		values = append(values, rsiValue(avgGain, avgLoss))
	}

	return types.Series{Offset: period, Values: values}, nil
}

func splitChange(change float64) (gain float64, loss float64) {
	if change > 0 {
		return change, 0
	}

	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgGain == 0 && avgLoss == 0 {
		// flat window
		return 50
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	return clamp(rsi, 0, 100)
}

func clamp(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}

	if value > upper {
		return upper
	}

	return value
}
