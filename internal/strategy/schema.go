package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// ParamsSchema returns the JSON schema of a strategy's parameter struct.
func ParamsSchema(id types.StrategyID) (string, error) {
	var params any

	switch id {
	case types.StrategyRSIOversold:
		params = DefaultRSIOversoldParams()
	case types.StrategyMACrossover:
		params = DefaultMACrossoverParams()
	case types.StrategyMACDReversal:
		params = DefaultMACDReversalParams()
	default:
		return "", errors.NewInvalidStrategyError(string(id))
	}

	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(params)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
