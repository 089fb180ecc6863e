package strategy

import (
	"fmt"

	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/internal/utils"
)

type RSIOversoldParams struct {
	Period         int     `yaml:"period" json:"period" jsonschema:"title=RSI Period,default=14" validate:"gt=0"`
	EntryThreshold float64 `yaml:"entry_threshold" json:"entry_threshold" jsonschema:"title=Entry Threshold,default=30" validate:"gte=0,lte=100,ltfield=ExitThreshold"`
	ExitThreshold  float64 `yaml:"exit_threshold" json:"exit_threshold" jsonschema:"title=Exit Threshold,default=50" validate:"gte=0,lte=100"`
	// MaxHoldingBars closes the position after this many bars; 0 disables it.
	MaxHoldingBars int `yaml:"max_holding_bars" json:"max_holding_bars" jsonschema:"title=Max Holding Bars,default=0" validate:"gte=0"`
}

func DefaultRSIOversoldParams() RSIOversoldParams {
	return RSIOversoldParams{
		Period:         14,
		EntryThreshold: 30,
		ExitThreshold:  50,
	}
}

// RSIOversold buys when RSI falls below the entry threshold and sells when it
// climbs back above the exit threshold.
type RSIOversold struct {
	params RSIOversoldParams
}

func NewRSIOversold(params RSIOversoldParams) (*RSIOversold, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	return &RSIOversold{params: params}, nil
}

func (s *RSIOversold) ID() types.StrategyID {
	return types.StrategyRSIOversold
}

func (s *RSIOversold) Parameters() map[string]any {
	return map[string]any{
		"period":           s.params.Period,
		"entry_threshold":  s.params.EntryThreshold,
		"exit_threshold":   s.params.ExitThreshold,
		"max_holding_bars": s.params.MaxHoldingBars,
	}
}

func (s *RSIOversold) IndicatorConfig() indicator.Config {
	cfg := indicator.DefaultConfig()
	cfg.RSIPeriod = s.params.Period

	return cfg
}

func (s *RSIOversold) RequiredIndicators() []types.IndicatorType {
	return []types.IndicatorType{types.IndicatorTypeRSI}
}

func (s *RSIOversold) HoldingLimit() int {
	return s.params.MaxHoldingBars
}

func (s *RSIOversold) enter(prev, curr types.IndicatorSnapshot) (bool, string) {
	if prev.RSI.IsNone() || curr.RSI.IsNone() {
		return false, ""
	}

	if prev.RSI.Unwrap() >= s.params.EntryThreshold && curr.RSI.Unwrap() < s.params.EntryThreshold {
		return true, fmt.Sprintf("RSI crossed below %.2f (value=%.2f)", s.params.EntryThreshold, curr.RSI.Unwrap())
	}

	return false, ""
}

func (s *RSIOversold) exit(prev, curr types.IndicatorSnapshot) (bool, string) {
	if prev.RSI.IsSome() && curr.RSI.IsSome() &&
		prev.RSI.Unwrap() <= s.params.ExitThreshold && curr.RSI.Unwrap() > s.params.ExitThreshold {
		return true, fmt.Sprintf("RSI crossed above %.2f (value=%.2f)", s.params.ExitThreshold, curr.RSI.Unwrap())
	}

	return false, ""
}
