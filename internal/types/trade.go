package types

import "time"

type PositionState string

const (
	PositionStateFlat PositionState = "FLAT"
	PositionStateLong PositionState = "LONG"
)

// Position is the simulator's live state. Entry fields are meaningful only when LONG.
type Position struct {
	State      PositionState
	EntryIndex int
	EntryTime  time.Time
	EntryPrice float64
	Quantity   float64
	EntryFee   float64
}

// IsLong reports whether a position is open.
func (p Position) IsLong() bool {
	return p.State == PositionStateLong
}

// UnrealizedPnL marks the open position to the given price, net of the entry fee.
func (p Position) UnrealizedPnL(price float64) float64 {
	if !p.IsLong() {
		return 0
	}

	return (price-p.EntryPrice)*p.Quantity - p.EntryFee
}

type ExitReason string

const (
	ExitReasonSignal     ExitReason = "signal"
	ExitReasonStopLoss   ExitReason = "stop_loss"
	ExitReasonTakeProfit ExitReason = "take_profit"
	ExitReasonEndOfData  ExitReason = "end_of_data"
)

// Trade is a closed long position.
type Trade struct {
	EntryIndex int       `yaml:"entry_index" json:"entry_index"`
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price"`
	ExitIndex  int       `yaml:"exit_index" json:"exit_index"`
	ExitTime   time.Time `yaml:"exit_time" json:"exit_time"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price"`
	Quantity   float64   `yaml:"quantity" json:"quantity"`
	// Fees is the sum of entry and exit commission.
	Fees float64 `yaml:"fees" json:"fees"`
	// PnL is (exit - entry) * quantity - fees.
	PnL float64 `yaml:"pnl" json:"pnl"`
	// PnLPercent is PnL relative to the entry notional, in percent.
	PnLPercent      float64       `yaml:"pnl_percent" json:"pnl_percent"`
	HoldingDuration time.Duration `yaml:"holding_duration" json:"holding_duration"`
	HoldingBars     int           `yaml:"holding_bars" json:"holding_bars"`
	ExitReason      ExitReason    `yaml:"exit_reason" json:"exit_reason"`
}

// EquityPoint is the account value at the close of one bar.
type EquityPoint struct {
	Time   time.Time `yaml:"time" json:"time"`
	Equity float64   `yaml:"equity" json:"equity"`
}
