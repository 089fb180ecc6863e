package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionUnrealizedPnL(t *testing.T) {
	flat := Position{State: PositionStateFlat, EntryPrice: 100, Quantity: 10}
	assert.False(t, flat.IsLong())
	assert.Zero(t, flat.UnrealizedPnL(120))

	long := Position{State: PositionStateLong, EntryPrice: 100, Quantity: 10, EntryFee: 5}
	assert.True(t, long.IsLong())
	assert.InDelta(t, 195.0, long.UnrealizedPnL(120), 1e-9)
	assert.InDelta(t, -105.0, long.UnrealizedPnL(90), 1e-9)
}

func TestTrendStatus(t *testing.T) {
	assert.True(t, TrendBullishStrong.IsBullish())
	assert.True(t, TrendBullishShortTerm.IsBullish())
	assert.False(t, TrendSideways.IsBullish())
	assert.True(t, TrendBearishShortTerm.IsBearish())
	assert.False(t, TrendUnknown.IsBearish())
}
