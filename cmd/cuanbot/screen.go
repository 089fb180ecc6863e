package main

import (
	"context"
	"strings"

	"github.com/rxtech-lab/cuanbot-engine/internal/datasource"
	"github.com/rxtech-lab/cuanbot-engine/internal/screener"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func screenCommand() *cli.Command {
	filters := make([]string, 0, len(types.AllScreenerFilters))
	for _, filter := range types.AllScreenerFilters {
		filters = append(filters, string(filter))
	}

	return &cli.Command{
		Name:  "screen",
		Usage: "Rank a universe of symbols by composite score",
		Flags: []cli.Flag{
			dataFlag(),
			fundamentalsFlag(),
			&cli.StringFlag{
				Name:  "filter",
				Usage: "One of " + strings.Join(filters, ", "),
				Value: string(types.ScreenerFilterAll),
			},
			&cli.FloatFlag{
				Name:  "min-score",
				Usage: "Drop rows scoring below this value",
			},
			&cli.StringFlag{
				Name:  "sector",
				Usage: "Keep rows whose sector contains this text",
			},
			&cli.StringSliceFlag{
				Name:  "universe",
				Usage: "Symbols to screen; defaults to LQ45",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent symbol evaluations",
				Value: 8,
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Hide the progress bar",
			},
		},
		Action: screenAction,
	}
}

func screenAction(ctx context.Context, cmd *cli.Command) error {
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.openData(cmd.String("data")); err != nil {
		return err
	}

	universe := screener.LQ45
	if symbols := cmd.StringSlice("universe"); len(symbols) > 0 {
		universe = symbols
	}

	opts := []screener.Option{
		screener.WithUniverse(universe),
		screener.WithWorkers(int(cmd.Int("workers"))),
		screener.WithLogger(e.log),
		screener.WithTelemetry(e.metrics),
	}

	if path := cmd.String("fundamentals"); path != "" {
		file, err := datasource.LoadFundamentals(path)
		if err != nil {
			return err
		}

		opts = append(opts, screener.WithFundamentals(file))
	}

	if !cmd.Bool("no-progress") {
		bar := progressbar.Default(int64(len(universe)), "screening")
		defer bar.Finish()

		opts = append(opts, screener.WithProgress(func(string, error) {
			_ = bar.Add(1)
		}))
	}

	result, err := screener.NewScreener(e.source, e.engine, opts...).Screen(ctx, screener.Options{
		Filter:   types.ScreenerFilter(cmd.String("filter")),
		MinScore: cmd.Float("min-score"),
		Sector:   cmd.String("sector"),
	})
	if err != nil {
		return err
	}

	return writeJSON(cmd.Root().Writer, result)
}
