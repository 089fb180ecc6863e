package indicator

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// EMA computes the exponential moving average with k = 2/(period+1), seeded
// with the simple average of the first period values.
func EMA(values []float64, period int) (types.Series, error) {
	if period <= 0 {
		return types.Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "EMA period must be a positive integer, got %d", period)
	}

	if len(values) < period {
		return types.Series{}, errors.NewInsufficientDataError("EMA", period, period, len(values), "")
	}

	return types.Series{Offset: period - 1, Values: emaValues(values, period)}, nil
}

func emaValues(values []float64, period int) []float64 {
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}

	seed /= float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)

	multiplier := 2.0 / float64(period+1)
	ema := seed

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out = append(out, ema)
	}

	return out
}
