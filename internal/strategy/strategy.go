package strategy

import (
	"bytes"

	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Strategy is one of the built-in signal rules. The set is closed: only this
// package can implement it.
type Strategy interface {
	ID() types.StrategyID
	// Parameters returns the validated parameters keyed by their config names.
	Parameters() map[string]any
	// IndicatorConfig returns the indicator periods the rule reads.
	IndicatorConfig() indicator.Config
	// RequiredIndicators lists the indicators that must produce values.
	RequiredIndicators() []types.IndicatorType
	// HoldingLimit is the number of bars after which an open position is
	// closed; 0 means no limit.
	HoldingLimit() int

	// enter reports whether curr is an entry bar, given the previous snapshot.
	enter(prev, curr types.IndicatorSnapshot) (bool, string)
	// exit reports whether curr is an exit bar, given the previous snapshot.
	exit(prev, curr types.IndicatorSnapshot) (bool, string)
}

// Parse maps a strategy identifier and its raw parameters onto a validated
// strategy. Missing parameters take their defaults.
func Parse(id string, params map[string]any) (Strategy, error) {
	switch types.StrategyID(id) {
	case types.StrategyRSIOversold:
		p := DefaultRSIOversoldParams()
		if err := decodeParams(id, params, &p); err != nil {
			return nil, err
		}

		strategy, err := NewRSIOversold(p)
		if err != nil {
			return nil, err
		}

		return strategy, nil
	case types.StrategyMACrossover:
		p := DefaultMACrossoverParams()
		if err := decodeParams(id, params, &p); err != nil {
			return nil, err
		}

		strategy, err := NewMACrossover(p)
		if err != nil {
			return nil, err
		}

		return strategy, nil
	case types.StrategyMACDReversal:
		p := DefaultMACDReversalParams()
		if err := decodeParams(id, params, &p); err != nil {
			return nil, err
		}

		strategy, err := NewMACDReversal(p)
		if err != nil {
			return nil, err
		}

		return strategy, nil
	default:
		return nil, errors.NewInvalidStrategyError(id)
	}
}

// decodeParams overlays params on target through its yaml tags. Unknown keys
// and values of the wrong type are rejected.
func decodeParams(id string, params map[string]any, target any) error {
	if len(params) == 0 {
		return nil
	}

	raw, err := yaml.Marshal(params)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "invalid parameters for strategy %s", id)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	if err := decoder.Decode(target); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "invalid parameters for strategy %s", id)
	}

	return nil
}
