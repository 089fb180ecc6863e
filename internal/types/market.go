package types

import (
	"time"

	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// Bar is one OHLCV period of a single symbol.
type Bar struct {
	Time   time.Time `csv:"time" json:"time" yaml:"time"`
	Open   float64   `csv:"open" json:"open" yaml:"open"`
	High   float64   `csv:"high" json:"high" yaml:"high"`
	Low    float64   `csv:"low" json:"low" yaml:"low"`
	Close  float64   `csv:"close" json:"close" yaml:"close"`
	Volume float64   `csv:"volume" json:"volume" yaml:"volume"`
}

// Fundamentals holds the valuation data the screener can use when available.
type Fundamentals struct {
	PE        *float64 `yaml:"pe" json:"pe"`
	PBV       *float64 `yaml:"pbv" json:"pbv"`
	MarketCap *float64 `yaml:"market_cap" json:"market_cap"`
	Sector    string   `yaml:"sector" json:"sector"`
}

// ValidateBars checks the ordering and value contract of a bar sequence.
// Gaps between timestamps are allowed; duplicates and reversals are not.
func ValidateBars(bars []Bar) error {
	for i, bar := range bars {
		if bar.Time.IsZero() {
			return errors.NewDataIntegrityErrorf("bar %d has no timestamp", i)
		}

		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return errors.NewDataIntegrityErrorf("bar %d (%s) has a non-positive price", i, bar.Time.Format(time.RFC3339))
		}

		if bar.High < bar.Low {
			return errors.NewDataIntegrityErrorf("bar %d (%s) has high %.4f below low %.4f", i, bar.Time.Format(time.RFC3339), bar.High, bar.Low)
		}

		if bar.Volume < 0 {
			return errors.NewDataIntegrityErrorf("bar %d (%s) has negative volume", i, bar.Time.Format(time.RFC3339))
		}

		if i == 0 {
			continue
		}

		prev := bars[i-1].Time
		if bar.Time.Equal(prev) {
			return errors.NewDataIntegrityErrorf("bar %d duplicates timestamp %s", i, bar.Time.Format(time.RFC3339))
		}

		if bar.Time.Before(prev) {
			return errors.NewDataIntegrityErrorf("bar %d timestamp %s is before bar %d timestamp %s",
				i, bar.Time.Format(time.RFC3339), i-1, prev.Format(time.RFC3339))
		}
	}

	return nil
}

// Closes extracts the close prices of a bar sequence.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return closes
}
