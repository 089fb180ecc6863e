package indicator

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// SMA computes the simple moving average. The first value belongs to bar period-1.
func SMA(values []float64, period int) (types.Series, error) {
	if period <= 0 {
		return types.Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "MA period must be a positive integer, got %d", period)
	}

	if len(values) < period {
		return types.Series{}, errors.NewInsufficientDataError("MA", period, period, len(values), "")
	}

	out := make([]float64, 0, len(values)-period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}

	out = append(out, sum/float64(period))

	for i := period; i < len(values); i++ {
		sum += values[i] - values[i-period]
		out = append(out, sum/float64(period))
	}

	return types.Series{Offset: period - 1, Values: out}, nil
}
