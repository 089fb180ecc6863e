package indicator

import (
	"math"

	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

const (
	// volumeSpikeRatio is the volume ratio that maps to a full volume component.
	volumeSpikeRatio = 5.0
	// rangeExpansionCap is the range expansion that maps to a full range component.
	rangeExpansionCap = 3.0
	// volatilityCap is the return std-dev that maps to a full volatility component.
	volatilityCap = 0.05

	volumeWeight     = 0.5
	rangeWeight      = 0.3
	volatilityWeight = 0.2
)

// AnomalyResult holds the anomaly score series and the volume ratio it was derived from.
type AnomalyResult struct {
	Score       types.Series
	VolumeRatio types.Series
}

// Flag reports whether the score at bar i reaches the threshold.
func (r AnomalyResult) Flag(i int, threshold float64) (bool, bool) {
	score := r.Score.At(i)
	if score.IsNone() {
		return false, false
	}

	return score.Unwrap() >= threshold, true
}

// AnomalyScore rates every bar in [0,100] from three components: volume
// against the mean of the preceding bars, bar range expansion, and close
// return volatility.
func AnomalyScore(bars []types.Bar, cfg AnomalyConfig) (AnomalyResult, error) {
	if cfg.VolumeWindow <= 0 {
		return AnomalyResult{}, errors.Newf(errors.ErrCodeInvalidPeriod, "anomaly volume window must be a positive integer, got %d", cfg.VolumeWindow)
	}

	if cfg.VolatilityWindow <= 1 {
		return AnomalyResult{}, errors.Newf(errors.ErrCodeInvalidPeriod, "anomaly volatility window must be greater than 1, got %d", cfg.VolatilityWindow)
	}

	start := max(cfg.VolumeWindow, cfg.VolatilityWindow)
	if len(bars) < start+1 {
		return AnomalyResult{}, errors.NewInsufficientDataError("Anomaly", cfg.VolumeWindow, start+1, len(bars), "")
	}

	ranges := make([]float64, len(bars))
	for i, bar := range bars {
		ranges[i] = (bar.High - bar.Low) / bar.Close
	}

	n := len(bars) - start
	scores := make([]float64, n)
	ratios := make([]float64, n)

	for i := start; i < len(bars); i++ {
		ratio, volumeComp := volumeComponent(bars, i, cfg.VolumeWindow)
		rangeComp := rangeComponent(ranges, i, cfg.VolumeWindow)
		volatilityComp := clamp(returnStdDev(bars, i, cfg.VolatilityWindow)/volatilityCap, 0, 1) * 100

		scores[i-start] = clamp(volumeWeight*volumeComp+rangeWeight*rangeComp+volatilityWeight*volatilityComp, 0, 100)
		ratios[i-start] = ratio
	}

	return AnomalyResult{
		Score:       types.Series{Offset: start, Values: scores},
		VolumeRatio: types.Series{Offset: start, Values: ratios},
	}, nil
}

// volumeComponent returns the volume ratio of bar i and its component score.
// A zero average is reported as ratio 1 for a zero volume and as a full spike otherwise.
func volumeComponent(bars []types.Bar, i, window int) (float64, float64) {
	sum := 0.0
	for j := i - window; j < i; j++ {
		sum += bars[j].Volume
	}

	avg := sum / float64(window)
	if avg == 0 {
		if bars[i].Volume == 0 {
			return 1, 0
		}

		return volumeSpikeRatio, 100
	}

	ratio := bars[i].Volume / avg

	return ratio, clamp((ratio-1)/(volumeSpikeRatio-1), 0, 1) * 100
}

func rangeComponent(ranges []float64, i, window int) float64 {
	avg := average(ranges[i-window : i])
	if avg == 0 {
		if ranges[i] == 0 {
			return 0
		}

		return 100
	}

	expansion := ranges[i] / avg

	return clamp((expansion-1)/(rangeExpansionCap-1), 0, 1) * 100
}

// returnStdDev is the sample std-dev of the window close returns ending at bar i.
func returnStdDev(bars []types.Bar, i, window int) float64 {
	returns := make([]float64, 0, window)
	for j := i - window + 1; j <= i; j++ {
		returns = append(returns, bars[j].Close/bars[j-1].Close-1)
	}

	mean := average(returns)

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	return math.Sqrt(variance / float64(len(returns)-1))
}
