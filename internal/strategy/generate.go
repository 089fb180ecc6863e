package strategy

import (
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// Generate emits one signal per snapshot. Bar t only reads snapshots t-1 and t,
// and never depends on whether a position is open: the simulator ignores
// ENTER_LONG while long and EXIT_LONG while flat. An exit rule that fires on
// the same bar as an entry rule wins.
func Generate(snapshots []types.IndicatorSnapshot, s Strategy) ([]types.Signal, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "strategy is required")
	}

	signals := make([]types.Signal, len(snapshots))

	for i, curr := range snapshots {
		if curr.Index != i {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "snapshot %d carries index %d", i, curr.Index)
		}

		signal := types.Signal{Index: i, Time: curr.Time, Type: types.SignalTypeHold}

		if i > 0 {
			prev := snapshots[i-1]

			if ok, reason := s.exit(prev, curr); ok {
				signal.Type = types.SignalTypeExitLong
				signal.Reason = reason
			} else if ok, reason := s.enter(prev, curr); ok {
				signal.Type = types.SignalTypeEnterLong
				signal.Reason = reason
			}
		}

		signals[i] = signal
	}

	return signals, nil
}
