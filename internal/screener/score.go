package screener

import (
	"math"
	"sort"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
)

const (
	rsiWeight       = 0.40
	trendWeight     = 0.35
	valuationWeight = 0.25
	anomalyPenalty  = 25.0
	neutralScore    = 50.0

	oversoldRSI = 35.0
	cheapPE     = 15.0
	highScore   = 70.0

	unknownSector = "Unknown"
)

// RSIScore favours oversold readings.
func RSIScore(rsi float64) float64 {
	return clamp(100-rsi, 0, 100)
}

// TrendScore is the percentage of satisfied alignment checks: close above each
// moving average, short average above long average and a positive MACD
// histogram. Checks whose inputs are missing are skipped.
func TrendScore(snapshot types.IndicatorSnapshot) float64 {
	checks, passed := 0, 0

	check := func(ok bool) {
		checks++

		if ok {
			passed++
		}
	}

	if snapshot.ShortMA.IsSome() {
		check(snapshot.Close > snapshot.ShortMA.Unwrap())
	}

	if snapshot.LongMA.IsSome() {
		check(snapshot.Close > snapshot.LongMA.Unwrap())
	}

	if snapshot.ShortMA.IsSome() && snapshot.LongMA.IsSome() {
		check(snapshot.ShortMA.Unwrap() > snapshot.LongMA.Unwrap())
	}

	if snapshot.MACDHistogram.IsSome() {
		check(snapshot.MACDHistogram.Unwrap() > 0)
	}

	if checks == 0 {
		return neutralScore
	}

	return 100 * float64(passed) / float64(checks)
}

// PercentileScores ranks valuation ratios where lower is cheaper. A positive
// value scores the share of the other positive values strictly above it, so the
// cheapest scores 100 and the most expensive 0. Non-positive values score 0
// and a lone positive value scores 50.
func PercentileScores(values map[string]float64) map[string]float64 {
	positive := make([]float64, 0, len(values))

	for _, value := range values {
		if value > 0 {
			positive = append(positive, value)
		}
	}

	sort.Float64s(positive)

	scores := make(map[string]float64, len(values))

	for symbol, value := range values {
		switch {
		case value <= 0:
			scores[symbol] = 0
		case len(positive) == 1:
			scores[symbol] = neutralScore
		default:
			above := len(positive) - sort.Search(len(positive), func(i int) bool { return positive[i] > value })
			scores[symbol] = 100 * float64(above) / float64(len(positive)-1)
		}
	}

	return scores
}

// ValuationScores averages the PE and PBV percentile scores of every symbol
// within the given universe. Symbols without any ratio score 50.
func ValuationScores(fundamentals map[string]*types.Fundamentals) map[string]float64 {
	pe := make(map[string]float64)
	pbv := make(map[string]float64)

	for symbol, f := range fundamentals {
		if f == nil {
			continue
		}

		if f.PE != nil {
			pe[symbol] = *f.PE
		}

		if f.PBV != nil {
			pbv[symbol] = *f.PBV
		}
	}

	peScores := PercentileScores(pe)
	pbvScores := PercentileScores(pbv)

	scores := make(map[string]float64, len(fundamentals))

	for symbol := range fundamentals {
		var parts []float64

		if score, ok := peScores[symbol]; ok {
			parts = append(parts, score)
		}

		if score, ok := pbvScores[symbol]; ok {
			parts = append(parts, score)
		}

		if len(parts) == 0 {
			scores[symbol] = neutralScore

			continue
		}

		total := 0.0
		for _, part := range parts {
			total += part
		}

		scores[symbol] = total / float64(len(parts))
	}

	return scores
}

// CompositeScore blends the factor scores into a 0-100 score rounded to two decimals.
func CompositeScore(rsiScore, trendScore, valuationScore float64, anomaly bool) float64 {
	score := rsiWeight*rsiScore + trendWeight*trendScore + valuationWeight*valuationScore

	if anomaly {
		score -= anomalyPenalty
	}

	return math.Round(clamp(score, 0, 100)*100) / 100
}

// Filter keeps the rows matching the filter, the minimum score and the sector substring.
func Filter(rows []types.ScreenerRow, opts Options) []types.ScreenerRow {
	out := make([]types.ScreenerRow, 0, len(rows))
	sector := strings.ToLower(opts.Sector)

	for _, row := range rows {
		if !matches(row, opts.Filter) {
			continue
		}

		if opts.MinScore > 0 && row.CompositeScore < opts.MinScore {
			continue
		}

		if sector != "" && !strings.Contains(strings.ToLower(row.Sector), sector) {
			continue
		}

		out = append(out, row)
	}

	return out
}

func matches(row types.ScreenerRow, filter types.ScreenerFilter) bool {
	switch filter {
	case types.ScreenerFilterOversold:
		return row.Factors.RSI < oversoldRSI
	case types.ScreenerFilterBullish:
		return row.Factors.Trend.IsBullish()
	case types.ScreenerFilterCheap:
		return row.Factors.PE.IsSome() && row.Factors.PE.Unwrap() > 0 && row.Factors.PE.Unwrap() < cheapPE
	case types.ScreenerFilterHighScore:
		return row.CompositeScore >= highScore
	case types.ScreenerFilterAll:
		return true
	default:
		return true
	}
}

// SortRows orders rows by score descending, ties by symbol.
func SortRows(rows []types.ScreenerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompositeScore != rows[j].CompositeScore {
			return rows[i].CompositeScore > rows[j].CompositeScore
		}

		return rows[i].Symbol < rows[j].Symbol
	})
}

// SummarizeSectors counts rows per sector with their average score rounded to one decimal.
func SummarizeSectors(rows []types.ScreenerRow) map[string]types.SectorSummary {
	totals := make(map[string]float64)
	summary := make(map[string]types.SectorSummary)

	for _, row := range rows {
		entry := summary[row.Sector]
		entry.Count++
		summary[row.Sector] = entry
		totals[row.Sector] += row.CompositeScore
	}

	for sector, entry := range summary {
		entry.AvgScore = math.Round(totals[sector]/float64(entry.Count)*10) / 10
		summary[sector] = entry
	}

	return summary
}

func fromPointer(v *float64) optional.Option[float64] {
	if v == nil {
		return optional.None[float64]()
	}

	return optional.Some(*v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
