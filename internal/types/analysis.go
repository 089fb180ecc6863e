package types

type TrendStatus string

const (
	TrendBullishStrong    TrendStatus = "Bullish (Strong Uptrend)"
	TrendBullishShortTerm TrendStatus = "Bullish (Short-term)"
	TrendBearishStrong    TrendStatus = "Bearish (Strong Downtrend)"
	TrendBearishShortTerm TrendStatus = "Bearish (Short-term)"
	TrendSideways         TrendStatus = "Sideways"
	TrendUnknown          TrendStatus = "Unknown"
)

// IsBullish reports whether the trend is one of the bullish variants.
func (t TrendStatus) IsBullish() bool {
	return t == TrendBullishStrong || t == TrendBullishShortTerm
}

// IsBearish reports whether the trend is one of the bearish variants.
func (t TrendStatus) IsBearish() bool {
	return t == TrendBearishStrong || t == TrendBearishShortTerm
}

type MomentumStatus string

const (
	MomentumOversold   MomentumStatus = "Oversold"
	MomentumOverbought MomentumStatus = "Overbought"
	MomentumNeutral    MomentumStatus = "Neutral"
)

type VolatilityStatus string

const (
	VolatilityHigh   VolatilityStatus = "High (Near Upper Band)"
	VolatilityLow    VolatilityStatus = "Low (Near Lower Band)"
	VolatilityNormal VolatilityStatus = "Normal"
)

type Verdict string

const (
	VerdictStrongBuy    Verdict = "Strong Buy (Dip)"
	VerdictBuyTrend     Verdict = "Buy (Trend Following)"
	VerdictBuyValue     Verdict = "Buy (Value + Oversold)"
	VerdictSellWait     Verdict = "Sell / Wait"
	VerdictHold         Verdict = "Hold / Neutral"
	VerdictAvoidAnomaly Verdict = "AVOID (High Risk / Gorengan Indication)"
)

// Analysis is the technical summary of the latest bar of a series.
type Analysis struct {
	Price            float64          `json:"price"`
	Trend            TrendStatus      `json:"trend"`
	GoldenCross      bool             `json:"golden_cross"`
	DeathCross       bool             `json:"death_cross"`
	Momentum         MomentumStatus   `json:"momentum"`
	MACDBullish      bool             `json:"macd_bullish"`
	Volatility       VolatilityStatus `json:"volatility"`
	FundamentalScore float64          `json:"fundamental_score"`
	Anomaly          bool             `json:"anomaly"`
	Verdict          Verdict          `json:"verdict"`
}
