package types

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

type TradeHoldingTime struct {
	// Minimum holding time of a trade in seconds
	Min int `yaml:"min" json:"min"`
	// Maximum holding time of a trade in seconds
	Max int `yaml:"max" json:"max"`
	// Average holding time of a trade in seconds
	Avg int `yaml:"avg" json:"avg"`
}

// Metrics summarizes a trade log and its equity curve.
// Optional values are None when the statistic is undefined for the run.
type Metrics struct {
	// Count of all closed trades.
	TradeCount int `json:"trade_count"`
	// Count of trades with positive pnl.
	WinningTrades int `json:"winning_trades"`
	// Count of trades with zero or negative pnl.
	LosingTrades int `json:"losing_trades"`
	// NoTrades is set when the run closed no trade and the win rate is undefined.
	NoTrades bool `json:"no_trades"`
	// WinRate is winning trades / total trades in [0,1].
	WinRate optional.Option[float64] `json:"win_rate"`

	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`
	// TotalProfit is the sum of trade pnl in currency.
	TotalProfit float64 `json:"total_profit"`
	// TotalProfitPct is TotalProfit relative to initial capital, in percent.
	TotalProfitPct float64 `json:"total_profit_pct"`
	// UnrealizedPnL is the mark-to-market pnl of a position still open at the last bar.
	UnrealizedPnL float64 `json:"unrealized_pnl"`

	// MaxDrawdown is the largest peak-to-trough decline as a fraction of the peak, in [0,1].
	MaxDrawdown float64 `json:"max_drawdown"`
	// MaxDrawdownValue is the same decline in currency.
	MaxDrawdownValue float64 `json:"max_drawdown_value"`

	SharpeRatio     optional.Option[float64] `json:"sharpe_ratio"`
	AnnualReturnPct optional.Option[float64] `json:"annual_return_pct"`
	CalmarRatio     optional.Option[float64] `json:"calmar_ratio"`
	ProfitFactor    optional.Option[float64] `json:"profit_factor"`

	AvgWin    float64 `json:"avg_win"`
	AvgLoss   float64 `json:"avg_loss"`
	MaxProfit float64 `json:"max_profit"`
	MaxLoss   float64 `json:"max_loss"`

	TotalFees        float64          `json:"total_fees"`
	TradeHoldingTime TradeHoldingTime `json:"trade_holding_time"`
	// BuyAndHoldPct is the return of holding from the first to the last close, in percent.
	BuyAndHoldPct float64 `json:"buy_and_hold_pct"`
}

// StrategyInfo contains metadata about the strategy that produced a result.
type StrategyInfo struct {
	ID         StrategyID     `yaml:"id" json:"id"`
	Parameters map[string]any `yaml:"parameters" json:"parameters"`
}

// BacktestResult is the immutable output of one backtest run.
type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `json:"id"`
	// CreatedAt is when this backtest run was executed.
	CreatedAt   time.Time     `json:"created_at"`
	Symbol      string        `json:"symbol"`
	Strategy    StrategyInfo  `json:"strategy"`
	Trades      []Trade       `json:"trades"`
	EquityCurve []EquityPoint `json:"equity_curve"`
	Metrics     Metrics       `json:"metrics"`
}

// statsFile is the yaml layout of stats.yaml. Undefined statistics are written as null.
type statsFile struct {
	ID        string       `yaml:"id"`
	Timestamp time.Time    `yaml:"timestamp"`
	Symbol    string       `yaml:"symbol"`
	Strategy  StrategyInfo `yaml:"strategy"`

	TradeCount     int      `yaml:"number_of_trades"`
	WinningTrades  int      `yaml:"number_of_winning_trades"`
	LosingTrades   int      `yaml:"number_of_losing_trades"`
	NoTrades       bool     `yaml:"no_trades"`
	WinRate        *float64 `yaml:"win_rate"`
	InitialCapital float64  `yaml:"initial_capital"`
	FinalEquity    float64  `yaml:"final_equity"`
	TotalProfit    float64  `yaml:"total_profit"`
	TotalProfitPct float64  `yaml:"total_profit_pct"`
	UnrealizedPnL  float64  `yaml:"unrealized_pnl"`

	MaxDrawdown      float64  `yaml:"max_drawdown"`
	MaxDrawdownValue float64  `yaml:"max_drawdown_value"`
	SharpeRatio      *float64 `yaml:"sharpe_ratio"`
	AnnualReturnPct  *float64 `yaml:"annual_return_pct"`
	CalmarRatio      *float64 `yaml:"calmar_ratio"`
	ProfitFactor     *float64 `yaml:"profit_factor"`

	AvgWin           float64          `yaml:"avg_win"`
	AvgLoss          float64          `yaml:"avg_loss"`
	MaxProfit        float64          `yaml:"maximum_profit"`
	MaxLoss          float64          `yaml:"maximum_loss"`
	TotalFees        float64          `yaml:"total_fees"`
	TradeHoldingTime TradeHoldingTime `yaml:"trade_holding_time"`
	BuyAndHoldPct    float64          `yaml:"buy_and_hold_pct"`
}

func nullable(value optional.Option[float64]) *float64 {
	if value.IsNone() {
		return nil
	}

	v := value.Unwrap()

	return &v
}

func newStatsFile(result BacktestResult) statsFile {
	m := result.Metrics

	return statsFile{
		ID:               result.ID,
		Timestamp:        result.CreatedAt,
		Symbol:           result.Symbol,
		Strategy:         result.Strategy,
		TradeCount:       m.TradeCount,
		WinningTrades:    m.WinningTrades,
		LosingTrades:     m.LosingTrades,
		NoTrades:         m.NoTrades,
		WinRate:          nullable(m.WinRate),
		InitialCapital:   m.InitialCapital,
		FinalEquity:      m.FinalEquity,
		TotalProfit:      m.TotalProfit,
		TotalProfitPct:   m.TotalProfitPct,
		UnrealizedPnL:    m.UnrealizedPnL,
		MaxDrawdown:      m.MaxDrawdown,
		MaxDrawdownValue: m.MaxDrawdownValue,
		SharpeRatio:      nullable(m.SharpeRatio),
		AnnualReturnPct:  nullable(m.AnnualReturnPct),
		CalmarRatio:      nullable(m.CalmarRatio),
		ProfitFactor:     nullable(m.ProfitFactor),
		AvgWin:           m.AvgWin,
		AvgLoss:          m.AvgLoss,
		MaxProfit:        m.MaxProfit,
		MaxLoss:          m.MaxLoss,
		TotalFees:        m.TotalFees,
		TradeHoldingTime: m.TradeHoldingTime,
		BuyAndHoldPct:    m.BuyAndHoldPct,
	}
}

// MarshalStats renders the scalar part of a result as stats.yaml content.
func MarshalStats(results []BacktestResult) ([]byte, error) {
	files := make([]statsFile, 0, len(results))
	for _, result := range results {
		files = append(files, newStatsFile(result))
	}

	return yaml.Marshal(files)
}

func WriteBacktestStats(path string, results []BacktestResult) error {
	// Marshal the stats to YAML
	data, err := MarshalStats(results)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}
