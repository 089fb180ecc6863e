package datasource

import (
	"context"
	"os"
	"sort"

	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FundamentalsFile is a YAML map of symbol to valuation data:
//
//	BBCA.JK:
//	  pe: 24.1
//	  pbv: 4.6
//	  sector: Banking
type FundamentalsFile struct {
	entries map[string]types.Fundamentals
}

func LoadFundamentals(path string) (*FundamentalsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read fundamentals %s", path)
	}

	entries := make(map[string]types.Fundamentals)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse fundamentals %s", path)
	}

	return &FundamentalsFile{entries: entries}, nil
}

// NewFundamentalsFile wraps an in-memory map.
func NewFundamentalsFile(entries map[string]types.Fundamentals) *FundamentalsFile {
	return &FundamentalsFile{entries: entries}
}

// Fundamentals returns ErrCodeDataNotFound for symbols missing from the file.
func (f *FundamentalsFile) Fundamentals(_ context.Context, symbol string) (types.Fundamentals, error) {
	entry, ok := f.entries[symbol]
	if !ok {
		return types.Fundamentals{}, errors.Newf(errors.ErrCodeDataNotFound, "no fundamentals for %s", symbol)
	}

	return entry, nil
}

func (f *FundamentalsFile) Symbols() []string {
	symbols := make([]string, 0, len(f.entries))
	for symbol := range f.entries {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}
