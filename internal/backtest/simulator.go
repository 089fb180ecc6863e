package backtest

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/backtest/commission_fee"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/internal/utils"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"github.com/shopspring/decimal"
)

// SimulationResult is the trade log and per-bar equity of one replay.
type SimulationResult struct {
	Trades      []types.Trade
	EquityCurve []types.EquityPoint
}

// simulator replays signals against bars with a single long position.
type simulator struct {
	cfg Config
	fee commission_fee.CommissionFee
	// maxHoldingBars closes a position held this many bars; 0 disables it.
	maxHoldingBars int

	position types.Position
	// realized is initial capital plus the pnl of every closed trade.
	realized decimal.Decimal
	trades   []types.Trade
}

// SimulateOption tunes a single replay.
type SimulateOption func(*simulator)

// WithMaxHoldingBars closes a position with ExitReasonSignal once it has been
// held for n bars. n <= 0 disables the limit.
func WithMaxHoldingBars(n int) SimulateOption {
	return func(s *simulator) {
		s.maxHoldingBars = max(n, 0)
	}
}

// Simulate fills every entry and exit at the bar close. Exits are evaluated
// only on bars after the entry bar, and a still open position is closed at the
// final bar with ExitReasonEndOfData.
func Simulate(bars []types.Bar, signals []types.Signal, cfg Config, opts ...SimulateOption) (SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return SimulationResult{}, err
	}

	if err := types.ValidateBars(bars); err != nil {
		return SimulationResult{}, err
	}

	if len(signals) != len(bars) {
		return SimulationResult{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"expected one signal per bar: got %d signals for %d bars", len(signals), len(bars))
	}

	for i, signal := range signals {
		if signal.Index != i {
			return SimulationResult{}, errors.Newf(errors.ErrCodeInvalidParameter, "signal %d carries index %d", i, signal.Index)
		}
	}

	s := &simulator{
		cfg:      cfg,
		fee:      commission_fee.GetCommissionFeeHandler(cfg.Broker),
		position: types.Position{State: types.PositionStateFlat},
		realized: decimal.NewFromFloat(cfg.InitialCapital),
	}

	for _, opt := range opts {
		opt(s)
	}

	equity := make([]types.EquityPoint, 0, len(bars))
	last := len(bars) - 1

	for i, bar := range bars {
		exited := false

		if s.position.IsLong() && i > s.position.EntryIndex {
			if reason, ok := s.exitReason(i, bar.Close, signals[i].Type); ok {
				s.close(i, bar, reason)
				exited = true
			}
		}

		if !s.position.IsLong() && !exited && i < last && signals[i].Type == types.SignalTypeEnterLong {
			s.open(i, bar)
		}

		if i == last && s.position.IsLong() {
			s.close(i, bar, types.ExitReasonEndOfData)
		}

		equity = append(equity, types.EquityPoint{
			Time:   bar.Time,
			Equity: s.equity(bar.Close),
		})
	}

	return SimulationResult{
		Trades:      s.trades,
		EquityCurve: equity,
	}, nil
}

// exitReason picks the exit that fires on bar i at price, in the configured priority.
// The holding limit counts as a strategy exit.
func (s *simulator) exitReason(i int, price float64, signal types.SignalType) (types.ExitReason, bool) {
	entry := s.position.EntryPrice
	held := i - s.position.EntryIndex

	stopLoss := s.cfg.StopLossPct.IsSome() && price <= entry*(1+s.cfg.StopLossPct.Unwrap())
	takeProfit := s.cfg.TakeProfitPct.IsSome() && price >= entry*(1+s.cfg.TakeProfitPct.Unwrap())
	exitSignal := signal == types.SignalTypeExitLong || (s.maxHoldingBars > 0 && held >= s.maxHoldingBars)

	var order []types.ExitReason

	switch s.cfg.ExitPriority {
	case ExitPrioritySignalFirst:
		order = []types.ExitReason{types.ExitReasonSignal, types.ExitReasonStopLoss, types.ExitReasonTakeProfit}
	default:
		order = []types.ExitReason{types.ExitReasonStopLoss, types.ExitReasonTakeProfit, types.ExitReasonSignal}
	}

	hit := map[types.ExitReason]bool{
		types.ExitReasonStopLoss:   stopLoss,
		types.ExitReasonTakeProfit: takeProfit,
		types.ExitReasonSignal:     exitSignal,
	}

	for _, reason := range order {
		if hit[reason] {
			return reason, true
		}
	}

	return "", false
}

func (s *simulator) open(i int, bar types.Bar) {
	quantity := s.quantity(bar.Close)
	if quantity <= 0 {
		return
	}

	s.position = types.Position{
		State:      types.PositionStateLong,
		EntryIndex: i,
		EntryTime:  bar.Time,
		EntryPrice: bar.Close,
		Quantity:   quantity,
		EntryFee:   s.fee.Calculate(commission_fee.SideBuy, quantity, bar.Close),
	}
}

func (s *simulator) close(i int, bar types.Bar, reason types.ExitReason) {
	p := s.position
	exitFee := s.fee.Calculate(commission_fee.SideSell, p.Quantity, bar.Close)

	qty := decimal.NewFromFloat(p.Quantity)
	entry := decimal.NewFromFloat(p.EntryPrice)
	fees := decimal.NewFromFloat(p.EntryFee).Add(decimal.NewFromFloat(exitFee))
	pnl := decimal.NewFromFloat(bar.Close).Sub(entry).Mul(qty).Sub(fees)

	pnlPercent := decimal.Zero
	if notional := entry.Mul(qty); !notional.IsZero() {
		pnlPercent = pnl.Div(notional).Mul(decimal.NewFromInt(100))
	}

	s.trades = append(s.trades, types.Trade{
		EntryIndex:      p.EntryIndex,
		EntryTime:       p.EntryTime,
		EntryPrice:      p.EntryPrice,
		ExitIndex:       i,
		ExitTime:        bar.Time,
		ExitPrice:       bar.Close,
		Quantity:        p.Quantity,
		Fees:            fees.InexactFloat64(),
		PnL:             pnl.InexactFloat64(),
		PnLPercent:      pnlPercent.InexactFloat64(),
		HoldingDuration: bar.Time.Sub(p.EntryTime),
		HoldingBars:     i - p.EntryIndex,
		ExitReason:      reason,
	})

	s.realized = s.realized.Add(pnl)
	s.position = types.Position{State: types.PositionStateFlat}
}

func (s *simulator) quantity(price float64) float64 {
	precision := s.cfg.DecimalPrecision

	switch s.cfg.Sizing.Policy {
	case SizingFixedNotional:
		return utils.TruncateQuantity(s.cfg.Sizing.Notional/price, precision)
	case SizingFixedQuantity:
		return utils.TruncateQuantity(s.cfg.Sizing.Quantity, precision)
	default:
		return utils.CalculateMaxQuantity(s.realized.InexactFloat64(), price, s.fee, precision)
	}
}

// equity is realized capital plus the open position marked at price, net of its entry fee.
func (s *simulator) equity(price float64) float64 {
	unrealized := decimal.NewFromFloat(s.position.UnrealizedPnL(price))

	return s.realized.Add(unrealized).InexactFloat64()
}
