package backtest

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/cuanbot-engine/internal/backtest/commission_fee"
	"github.com/rxtech-lab/cuanbot-engine/internal/utils"
	"github.com/rxtech-lab/cuanbot-engine/internal/version"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"gopkg.in/yaml.v3"
)

type SizingPolicy string

const (
	// SizingAllIn buys as much as the available cash allows after fees.
	SizingAllIn SizingPolicy = "all_in"
	// SizingFixedNotional buys notional / price.
	SizingFixedNotional SizingPolicy = "fixed_notional"
	// SizingFixedQuantity buys a constant quantity.
	SizingFixedQuantity SizingPolicy = "fixed_quantity"
)

type ExitPriority string

const (
	// ExitPriorityStopLossFirst checks stop-loss, then take-profit, then the exit signal.
	ExitPriorityStopLossFirst ExitPriority = "stop_loss_first"
	// ExitPrioritySignalFirst checks the exit signal, then stop-loss, then take-profit.
	ExitPrioritySignalFirst ExitPriority = "signal_first"
)

type SizingConfig struct {
	Policy   SizingPolicy `yaml:"policy" json:"policy" jsonschema:"title=Sizing Policy,enum=all_in,enum=fixed_notional,enum=fixed_quantity,default=all_in" validate:"oneof=all_in fixed_notional fixed_quantity"`
	Notional float64      `yaml:"notional" json:"notional,omitempty" jsonschema:"title=Notional,description=Amount spent per entry for fixed_notional,minimum=0" validate:"gte=0,required_if=Policy fixed_notional"`
	Quantity float64      `yaml:"quantity" json:"quantity,omitempty" jsonschema:"title=Quantity,description=Quantity bought per entry for fixed_quantity,minimum=0" validate:"gte=0,required_if=Policy fixed_quantity"`
}

type StrategyConfig struct {
	ID     string         `yaml:"id" json:"id" jsonschema:"title=Strategy,enum=rsi_oversold,enum=ma_crossover,enum=macd_reversal"`
	Params map[string]any `yaml:"params" json:"params,omitempty" jsonschema:"title=Strategy Parameters"`
}

// Config is the backtest configuration file.
type Config struct {
	InitialCapital float64                  `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest,minimum=0" validate:"gt=0"`
	Sizing         SizingConfig             `yaml:"sizing" json:"sizing" jsonschema:"title=Position Sizing"`
	StopLossPct    optional.Option[float64] `yaml:"stop_loss_pct" json:"stop_loss_pct" jsonschema:"title=Stop Loss,description=Fractional loss from entry that closes the position e.g. -0.05"`
	TakeProfitPct  optional.Option[float64] `yaml:"take_profit_pct" json:"take_profit_pct" jsonschema:"title=Take Profit,description=Fractional gain from entry that closes the position e.g. 0.1"`
	ExitPriority   ExitPriority             `yaml:"exit_priority" json:"exit_priority" jsonschema:"title=Exit Priority,default=stop_loss_first" validate:"oneof=stop_loss_first signal_first"`
	Broker         commission_fee.Broker    `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	// DecimalPrecision is the number of decimal places kept when sizing a quantity.
	DecimalPrecision int                        `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Decimal Precision,minimum=0,maximum=8" validate:"gte=0,lte=8"`
	Interval         string                     `yaml:"interval" json:"interval" jsonschema:"title=Bar Interval,default=1d" validate:"oneof=1m 5m 15m 30m 1h 4h 1d 1w 1mo"`
	RiskFreeRate     float64                    `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk Free Rate,description=Annual risk free rate used by the Sharpe ratio" validate:"gte=0,lt=1"`
	StartTime        optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime          optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
	Strategy         StrategyConfig             `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy"`
	// EngineVersion pins the engine major.minor the config was written for.
	EngineVersion string `yaml:"engine_version" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=Engine version the config was written for e.g. 0.4.0"`
}

// UnmarshalYAML fills unset keys with the defaults.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type config struct {
		InitialCapital   *float64              `yaml:"initial_capital"`
		Sizing           *SizingConfig         `yaml:"sizing"`
		StopLossPct      *float64              `yaml:"stop_loss_pct"`
		TakeProfitPct    *float64              `yaml:"take_profit_pct"`
		ExitPriority     ExitPriority          `yaml:"exit_priority"`
		Broker           commission_fee.Broker `yaml:"broker"`
		DecimalPrecision *int                  `yaml:"decimal_precision"`
		Interval         string                `yaml:"interval"`
		RiskFreeRate     *float64              `yaml:"risk_free_rate"`
		StartTime        *time.Time            `yaml:"start_time"`
		EndTime          *time.Time            `yaml:"end_time"`
		Strategy         StrategyConfig        `yaml:"strategy"`
		EngineVersion    string                `yaml:"engine_version"`
	}

	var raw config
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*c = DefaultConfig()

	if raw.InitialCapital != nil {
		c.InitialCapital = *raw.InitialCapital
	}

	if raw.Sizing != nil {
		c.Sizing = *raw.Sizing
		if c.Sizing.Policy == "" {
			c.Sizing.Policy = SizingAllIn
		}
	}

	if raw.StopLossPct != nil {
		c.StopLossPct = optional.Some(*raw.StopLossPct)
	}

	if raw.TakeProfitPct != nil {
		c.TakeProfitPct = optional.Some(*raw.TakeProfitPct)
	}

	if raw.ExitPriority != "" {
		c.ExitPriority = raw.ExitPriority
	}

	if raw.Broker != "" {
		c.Broker = raw.Broker
	}

	if raw.DecimalPrecision != nil {
		c.DecimalPrecision = *raw.DecimalPrecision
	}

	if raw.Interval != "" {
		c.Interval = raw.Interval
	}

	if raw.RiskFreeRate != nil {
		c.RiskFreeRate = *raw.RiskFreeRate
	}

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	c.Strategy = raw.Strategy
	c.EngineVersion = raw.EngineVersion

	return nil
}

// DefaultConfig returns an all-in, fee-free daily configuration without a strategy.
func DefaultConfig() Config {
	return Config{
		InitialCapital:   10_000_000,
		Sizing:           SizingConfig{Policy: SizingAllIn},
		StopLossPct:      optional.None[float64](),
		TakeProfitPct:    optional.None[float64](),
		ExitPriority:     ExitPriorityStopLossFirst,
		Broker:           commission_fee.BrokerZero,
		DecimalPrecision: 4,
		Interval:         "1d",
		RiskFreeRate:     0,
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
	}
}

// Validate reports the first group of invalid fields as an InvalidParameter error.
func (c Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateRisk(); err != nil {
		return err
	}

	if err := version.CheckCompatibility(version.Version, c.EngineVersion); err != nil {
		return err
	}

	if !isKnownBroker(c.Broker) {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "unknown broker %q", c.Broker)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && !c.StartTime.Unwrap().Before(c.EndTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "start_time %s must be before end_time %s",
			c.StartTime.Unwrap().Format(time.RFC3339), c.EndTime.Unwrap().Format(time.RFC3339))
	}

	return nil
}

// validateRisk checks the stop-loss and take-profit fields, which validator cannot see through optional.Option.
func (c Config) validateRisk() error {
	if c.StopLossPct.IsSome() {
		sl := c.StopLossPct.Unwrap()
		if sl <= -1 || sl >= 0 {
			return errors.Newf(errors.ErrCodeInvalidStopLoss, "stop_loss_pct must be in (-1, 0), got %g", sl)
		}
	}

	if c.TakeProfitPct.IsSome() {
		tp := c.TakeProfitPct.Unwrap()
		if tp <= 0 {
			return errors.Newf(errors.ErrCodeInvalidTakeProfit, "take_profit_pct must be positive, got %g", tp)
		}
	}

	return nil
}

func isKnownBroker(broker commission_fee.Broker) bool {
	for _, known := range commission_fee.AllBrokers {
		if known == broker {
			return true
		}
	}

	return false
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch {
			case t.String() == "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case t.String() == "optional.Option[float64]":
				return &jsonschema.Schema{
					Type: "number",
				}
			case strings.Contains(t.String(), "commission_fee.Broker"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "cuanbot-backtest-config"
	schema.Description = "Configuration schema for a single-symbol backtest"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// LoadConfig reads a YAML config file over the defaults and validates it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read config %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
