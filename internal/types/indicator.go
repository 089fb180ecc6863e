package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeShortMA        IndicatorType = "short_ma"
	IndicatorTypeLongMA         IndicatorType = "long_ma"
	IndicatorTypeAnomaly        IndicatorType = "anomaly"
)

// IndicatorSnapshot holds every indicator value derived from the bars up to and including Index.
// A None value means the bar precedes that indicator's lookback.
type IndicatorSnapshot struct {
	Index int       `json:"index"`
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`

	RSI optional.Option[float64] `json:"rsi"`

	MACD          optional.Option[float64] `json:"macd"`
	MACDSignal    optional.Option[float64] `json:"macd_signal"`
	MACDHistogram optional.Option[float64] `json:"macd_histogram"`

	ShortMA optional.Option[float64] `json:"short_ma"`
	LongMA  optional.Option[float64] `json:"long_ma"`

	BollingerUpper  optional.Option[float64] `json:"bollinger_upper"`
	BollingerMiddle optional.Option[float64] `json:"bollinger_middle"`
	BollingerLower  optional.Option[float64] `json:"bollinger_lower"`

	AnomalyScore optional.Option[float64] `json:"anomaly_score"`
	VolumeRatio  optional.Option[float64] `json:"volume_ratio"`
	Anomaly      optional.Option[bool]    `json:"anomaly"`
}
