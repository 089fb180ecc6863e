package screener

import (
	"context"

	"github.com/rxtech-lab/cuanbot-engine/internal/types"
)

// BarProvider returns the chronologically ordered bars of a symbol.
type BarProvider interface {
	Bars(ctx context.Context, symbol string) ([]types.Bar, error)
}

// FundamentalsProvider returns the valuation data of a symbol. Returning an
// error with errors.ErrCodeDataNotFound marks the symbol as having no
// fundamentals; any other error fails the symbol.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error)
}
