package main

import (
	"context"

	"github.com/rxtech-lab/cuanbot-engine/internal/analysis"
	"github.com/rxtech-lab/cuanbot-engine/internal/datasource"
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"github.com/urfave/cli/v3"
)

type indicatorReport struct {
	Symbol   string                  `json:"symbol"`
	Snapshot types.IndicatorSnapshot `json:"snapshot"`
	Summary  types.Analysis          `json:"summary"`
}

func indicatorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "indicators",
		Usage: "Print the latest indicator snapshot and technical summary of a symbol",
		Flags: []cli.Flag{
			dataFlag(),
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Symbol to analyze",
				Required: true,
			},
			fundamentalsFlag(),
		},
		Action: indicatorsAction,
	}
}

func indicatorsAction(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.openData(cmd.String("data")); err != nil {
		return err
	}

	symbol := cmd.String("symbol")

	bars, err := e.source.Bars(ctx, symbol)
	if err != nil {
		return err
	}

	snapshots, err := e.engine.Compute(symbol, bars, indicator.DefaultConfig())
	if err != nil {
		return err
	}

	var fundamentals *types.Fundamentals

	if path := cmd.String("fundamentals"); path != "" {
		file, err := datasource.LoadFundamentals(path)
		if err != nil {
			return err
		}

		f, err := file.Fundamentals(ctx, symbol)

		switch {
		case err == nil:
			fundamentals = &f
		case !errors.HasCode(err, errors.ErrCodeDataNotFound):
			return err
		}
	}

	summary, err := analysis.Summarize(snapshots, fundamentals)
	if err != nil {
		return err
	}

	return writeJSON(cmd.Root().Writer, indicatorReport{
		Symbol:   symbol,
		Snapshot: snapshots[len(snapshots)-1],
		Summary:  summary,
	})
}
