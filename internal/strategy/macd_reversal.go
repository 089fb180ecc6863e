package strategy

import (
	"fmt"

	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/internal/utils"
)

type MACDReversalParams struct {
	Fast   int `yaml:"fast" json:"fast" jsonschema:"title=Fast EMA Period,default=12" validate:"gt=0,ltfield=Slow"`
	Slow   int `yaml:"slow" json:"slow" jsonschema:"title=Slow EMA Period,default=26" validate:"gt=0"`
	Signal int `yaml:"signal" json:"signal" jsonschema:"title=Signal EMA Period,default=9" validate:"gt=0"`
}

func DefaultMACDReversalParams() MACDReversalParams {
	return MACDReversalParams{
		Fast:   12,
		Slow:   26,
		Signal: 9,
	}
}

// MACDReversal trades the sign of the MACD histogram.
type MACDReversal struct {
	params MACDReversalParams
}

func NewMACDReversal(params MACDReversalParams) (*MACDReversal, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	return &MACDReversal{params: params}, nil
}

func (s *MACDReversal) ID() types.StrategyID {
	return types.StrategyMACDReversal
}

func (s *MACDReversal) Parameters() map[string]any {
	return map[string]any{
		"fast":   s.params.Fast,
		"slow":   s.params.Slow,
		"signal": s.params.Signal,
	}
}

func (s *MACDReversal) IndicatorConfig() indicator.Config {
	cfg := indicator.DefaultConfig()
	cfg.MACDFast = s.params.Fast
	cfg.MACDSlow = s.params.Slow
	cfg.MACDSignal = s.params.Signal

	return cfg
}

func (s *MACDReversal) RequiredIndicators() []types.IndicatorType {
	return []types.IndicatorType{types.IndicatorTypeMACD}
}

func (s *MACDReversal) HoldingLimit() int {
	return 0
}

func (s *MACDReversal) enter(prev, curr types.IndicatorSnapshot) (bool, string) {
	if indicator.SignChange(prev.MACDHistogram, curr.MACDHistogram) == indicator.CrossGolden {
		return true, fmt.Sprintf("MACD histogram turned positive (value=%.4f)", curr.MACDHistogram.Unwrap())
	}

	return false, ""
}

func (s *MACDReversal) exit(prev, curr types.IndicatorSnapshot) (bool, string) {
	if indicator.SignChange(prev.MACDHistogram, curr.MACDHistogram) == indicator.CrossDeath {
		return true, fmt.Sprintf("MACD histogram turned negative (value=%.4f)", curr.MACDHistogram.Unwrap())
	}

	return false, ""
}
