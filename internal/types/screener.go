package types

import "github.com/moznion/go-optional"

type ScreenerFilter string

const (
	ScreenerFilterAll       ScreenerFilter = "all"
	ScreenerFilterOversold  ScreenerFilter = "oversold"
	ScreenerFilterBullish   ScreenerFilter = "bullish"
	ScreenerFilterCheap     ScreenerFilter = "cheap"
	ScreenerFilterHighScore ScreenerFilter = "high_score"
)

// AllScreenerFilters lists every supported screener filter.
var AllScreenerFilters = []ScreenerFilter{
	ScreenerFilterAll,
	ScreenerFilterOversold,
	ScreenerFilterBullish,
	ScreenerFilterCheap,
	ScreenerFilterHighScore,
}

// ScreenerFactors are the inputs that produced a composite score.
type ScreenerFactors struct {
	RSI            float64                  `json:"rsi"`
	RSIScore       float64                  `json:"rsi_score"`
	Trend          TrendStatus              `json:"trend"`
	TrendScore     float64                  `json:"trend_score"`
	ValuationScore float64                  `json:"valuation_score"`
	MACDHistogram  float64                  `json:"macd_histogram"`
	PE             optional.Option[float64] `json:"pe"`
	PBV            optional.Option[float64] `json:"pbv"`
	Anomaly        bool                     `json:"anomaly"`
}

// ScreenerRow is one ranked symbol of a screener run.
type ScreenerRow struct {
	Symbol         string          `json:"symbol"`
	Price          float64         `json:"price"`
	CompositeScore float64         `json:"composite_score"`
	Factors        ScreenerFactors `json:"factors"`
	Sector         string          `json:"sector"`
	Verdict        Verdict         `json:"verdict"`
}

// ScreenerFailure records a symbol that could not be scored.
type ScreenerFailure struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// SectorSummary aggregates the rows of one sector.
type SectorSummary struct {
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// ScreenerResult is the output of one screener invocation.
type ScreenerResult struct {
	Rows          []ScreenerRow            `json:"rows"`
	Failures      []ScreenerFailure        `json:"failures"`
	TotalScreened int                      `json:"total_screened"`
	Sectors       map[string]SectorSummary `json:"sectors"`
}
