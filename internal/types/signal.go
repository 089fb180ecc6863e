package types

import "time"

type SignalType string

const (
	// SignalTypeHold keeps the current position state.
	SignalTypeHold SignalType = "HOLD"
	// SignalTypeEnterLong opens a long position when flat.
	SignalTypeEnterLong SignalType = "ENTER_LONG"
	// SignalTypeExitLong closes the open long position.
	SignalTypeExitLong SignalType = "EXIT_LONG"
)

type Signal struct {
	// Index is the bar index the signal is attached to
	Index int
	// Time is the time of the bar
	Time time.Time
	// Type is the type of the signal
	Type SignalType
	// Reason is a short human readable trigger description, empty for HOLD
	Reason string
}

// StrategyID names one of the built-in strategies.
type StrategyID string

const (
	StrategyRSIOversold  StrategyID = "rsi_oversold"
	StrategyMACrossover  StrategyID = "ma_crossover"
	StrategyMACDReversal StrategyID = "macd_reversal"
)

// AllStrategies lists every supported strategy identifier.
var AllStrategies = []StrategyID{
	StrategyRSIOversold,
	StrategyMACrossover,
	StrategyMACDReversal,
}
