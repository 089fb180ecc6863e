package indicator

import (
	"math"

	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// BollingerResult holds the three aligned bands.
type BollingerResult struct {
	Upper  types.Series
	Middle types.Series
	Lower  types.Series
}

// BollingerBands computes SMA(period) plus and minus stdDev population
// standard deviations of the trailing window.
func BollingerBands(closes []float64, period int, stdDev float64) (BollingerResult, error) {
	if period <= 0 {
		return BollingerResult{}, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	if stdDev <= 0 {
		return BollingerResult{}, errors.Newf(errors.ErrCodeInvalidStdDev, "stdDev must be a positive number, got %f", stdDev)
	}

	if len(closes) < period {
		return BollingerResult{}, errors.NewInsufficientDataError("BollingerBands", period, period, len(closes), "")
	}

	n := len(closes) - period + 1
	upper := make([]float64, n)
	middle := make([]float64, n)
	lower := make([]float64, n)

	for k := 0; k < n; k++ {
		window := closes[k : k+period]
		mean := average(window)

		variance := 0.0
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}

		deviation := math.Sqrt(variance/float64(period)) * stdDev
		upper[k] = mean + deviation
		middle[k] = mean
		lower[k] = mean - deviation
	}

	offset := period - 1

	return BollingerResult{
		Upper:  types.Series{Offset: offset, Values: upper},
		Middle: types.Series{Offset: offset, Values: middle},
		Lower:  types.Series{Offset: offset, Values: lower},
	}, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
