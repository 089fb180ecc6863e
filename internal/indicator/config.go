package indicator

import (
	"fmt"

	"github.com/rxtech-lab/cuanbot-engine/internal/utils"
)

// Config holds the periods of every indicator the snapshot engine computes.
type Config struct {
	RSIPeriod int `yaml:"rsi_period" json:"rsi_period" jsonschema:"title=RSI Period,default=14" validate:"gt=0"`

	MACDFast   int `yaml:"macd_fast" json:"macd_fast" jsonschema:"title=MACD Fast Period,default=12" validate:"gt=0,ltfield=MACDSlow"`
	MACDSlow   int `yaml:"macd_slow" json:"macd_slow" jsonschema:"title=MACD Slow Period,default=26" validate:"gt=0"`
	MACDSignal int `yaml:"macd_signal" json:"macd_signal" jsonschema:"title=MACD Signal Period,default=9" validate:"gt=0"`

	ShortMAPeriod int `yaml:"short_ma_period" json:"short_ma_period" jsonschema:"title=Short MA Period,default=50" validate:"gt=0,ltfield=LongMAPeriod"`
	LongMAPeriod  int `yaml:"long_ma_period" json:"long_ma_period" jsonschema:"title=Long MA Period,default=200" validate:"gt=0"`

	BollingerPeriod int     `yaml:"bollinger_period" json:"bollinger_period" jsonschema:"title=Bollinger Period,default=20" validate:"gt=0"`
	BollingerStdDev float64 `yaml:"bollinger_std_dev" json:"bollinger_std_dev" jsonschema:"title=Bollinger Std Dev,default=2" validate:"gt=0"`

	Anomaly AnomalyConfig `yaml:"anomaly" json:"anomaly"`
}

// AnomalyConfig configures the volume/range/volatility anomaly score.
type AnomalyConfig struct {
	// VolumeWindow is the number of preceding bars averaged for volume and range.
	VolumeWindow int `yaml:"volume_window" json:"volume_window" jsonschema:"default=20" validate:"gt=0"`
	// VolatilityWindow is the number of trailing close returns in the std-dev.
	VolatilityWindow int     `yaml:"volatility_window" json:"volatility_window" jsonschema:"default=14" validate:"gt=1"`
	Threshold        float64 `yaml:"threshold" json:"threshold" jsonschema:"default=70" validate:"gte=0,lte=100"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		ShortMAPeriod:   50,
		LongMAPeriod:    200,
		BollingerPeriod: 20,
		BollingerStdDev: 2.0,
		Anomaly:         DefaultAnomalyConfig(),
	}
}

func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		VolumeWindow:     20,
		VolatilityWindow: 14,
		Threshold:        70,
	}
}

// Validate reports out-of-domain periods as an InvalidParameter error.
func (c Config) Validate() error {
	return utils.ValidateStruct(c)
}

func (c Config) macdParams() string {
	return fmt.Sprintf("%d,%d,%d", c.MACDFast, c.MACDSlow, c.MACDSignal)
}

func (c Config) bollingerParams() string {
	return fmt.Sprintf("%d,%g", c.BollingerPeriod, c.BollingerStdDev)
}

func (a AnomalyConfig) params() string {
	return fmt.Sprintf("%d,%d,%g", a.VolumeWindow, a.VolatilityWindow, a.Threshold)
}
