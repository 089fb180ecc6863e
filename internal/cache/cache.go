package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/rxtech-lab/cuanbot-engine/internal/types"
)

// MemoKey identifies one indicator computation over one exact bar range.
type MemoKey struct {
	Symbol    string
	Indicator types.IndicatorType
	// Params is the canonical period tuple, e.g. "12,26,9".
	Params string
	From   time.Time
	To     time.Time
	Count  int
}

// NewMemoKey builds a key for the bar range covered by bars.
func NewMemoKey(symbol string, indicator types.IndicatorType, params string, bars []types.Bar) MemoKey {
	key := MemoKey{
		Symbol:    symbol,
		Indicator: indicator,
		Params:    params,
		Count:     len(bars),
	}

	if len(bars) > 0 {
		key.From = bars[0].Time
		key.To = bars[len(bars)-1].Time
	}

	return key
}

// String renders the key in a stable form usable as an external cache key.
func (k MemoKey) String() string {
	return fmt.Sprintf("cuanbot:indicator:%s:%s:%s:%d:%d:%d",
		k.Symbol, k.Indicator, k.Params, k.From.UnixNano(), k.To.UnixNano(), k.Count)
}

// Memo stores indicator outputs for the lifetime chosen by its owner.
// Implementations must be safe for concurrent use.
type Memo interface {
	Get(key MemoKey) ([]types.Series, bool)
	Set(key MemoKey, value []types.Series)
	Reset()
}

// InMemoryMemo is a map-backed memo owned by a single caller.
type InMemoryMemo struct {
	mu      sync.RWMutex
	entries map[MemoKey][]types.Series
}

func NewInMemoryMemo() Memo {
	return &InMemoryMemo{
		entries: make(map[MemoKey][]types.Series),
	}
}

// Get implements Memo.
func (m *InMemoryMemo) Get(key MemoKey) ([]types.Series, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]

	return value, ok
}

// Set implements Memo.
func (m *InMemoryMemo) Set(key MemoKey, value []types.Series) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = value
}

// Reset implements Memo.
func (m *InMemoryMemo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[MemoKey][]types.Series)
}

// Len returns the number of stored entries.
func (m *InMemoryMemo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
