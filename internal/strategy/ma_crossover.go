package strategy

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/internal/utils"
)

type MACrossoverParams struct {
	ShortPeriod int `yaml:"short_period" json:"short_period" jsonschema:"title=Short MA Period,default=50" validate:"gt=0,ltfield=LongPeriod"`
	LongPeriod  int `yaml:"long_period" json:"long_period" jsonschema:"title=Long MA Period,default=200" validate:"gt=0"`
}

func DefaultMACrossoverParams() MACrossoverParams {
	return MACrossoverParams{
		ShortPeriod: 50,
		LongPeriod:  200,
	}
}

// MACrossover buys on a golden cross of the short over the long moving
// average and sells on a death cross.
type MACrossover struct {
	params MACrossoverParams
}

func NewMACrossover(params MACrossoverParams) (*MACrossover, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	return &MACrossover{params: params}, nil
}

func (s *MACrossover) ID() types.StrategyID {
	return types.StrategyMACrossover
}

func (s *MACrossover) Parameters() map[string]any {
	return map[string]any{
		"short_period": s.params.ShortPeriod,
		"long_period":  s.params.LongPeriod,
	}
}

func (s *MACrossover) IndicatorConfig() indicator.Config {
	cfg := indicator.DefaultConfig()
	cfg.ShortMAPeriod = s.params.ShortPeriod
	cfg.LongMAPeriod = s.params.LongPeriod

	return cfg
}

func (s *MACrossover) RequiredIndicators() []types.IndicatorType {
	return []types.IndicatorType{types.IndicatorTypeMA}
}

func (s *MACrossover) HoldingLimit() int {
	return 0
}

func (s *MACrossover) enter(prev, curr types.IndicatorSnapshot) (bool, string) {
	if indicator.CrossAt(prev.ShortMA, prev.LongMA, curr.ShortMA, curr.LongMA) == indicator.CrossGolden {
		return true, "golden cross"
	}

	return false, ""
}

func (s *MACrossover) exit(prev, curr types.IndicatorSnapshot) (bool, string) {
	if indicator.CrossAt(prev.ShortMA, prev.LongMA, curr.ShortMA, curr.LongMA) == indicator.CrossDeath {
		return true, "death cross"
	}

	return false, ""
}
