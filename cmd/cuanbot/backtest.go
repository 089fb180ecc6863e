package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/cuanbot-engine/internal/backtest"
	"github.com/rxtech-lab/cuanbot-engine/internal/writer"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Backtest a strategy config on one or more symbols",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Backtest config YAML",
				Required: true,
			},
			dataFlag(),
			&cli.StringSliceFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Symbols to backtest; defaults to every symbol in --data",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory for trades.parquet, equity.parquet and stats.yaml",
				Value:   "results",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent backtests",
				Value: 4,
			},
		},
		Action: backtestAction,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := backtest.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.openData(cmd.String("data")); err != nil {
		return err
	}

	symbols := cmd.StringSlice("symbol")
	if len(symbols) == 0 {
		if symbols, err = e.source.Symbols(ctx); err != nil {
			return err
		}
	}

	requests := make([]backtest.Request, 0, len(symbols))

	for _, symbol := range symbols {
		bars, err := e.source.Bars(ctx, symbol)
		if err != nil {
			return err
		}

		requests = append(requests, backtest.Request{Symbol: symbol, Bars: bars, Config: cfg})
	}

	runner := backtest.NewRunner(e.engine,
		backtest.WithLogger(e.log),
		backtest.WithTelemetry(e.metrics),
		backtest.WithWorkers(int(cmd.Int("workers"))),
	)
	resultWriter := writer.NewResultWriter(cmd.String("out"), e.log)
	out := cmd.Root().Writer

	failed := 0

	for _, batch := range runner.RunBatch(ctx, requests) {
		if batch.Err != nil {
			failed++

			e.log.Error("backtest failed", zap.String("symbol", batch.Symbol), zap.Error(batch.Err))
			fmt.Fprintf(out, "%-10s FAILED  %v\n", batch.Symbol, batch.Err)

			continue
		}

		dir, err := resultWriter.Write(batch.Result)
		if err != nil {
			return err
		}

		m := batch.Result.Metrics
		fmt.Fprintf(out, "%-10s trades=%d profit=%.2f (%.2f%%) max_dd=%.2f%% -> %s\n",
			batch.Symbol, m.TradeCount, m.TotalProfit, m.TotalProfitPct, m.MaxDrawdown*100, dir)
	}

	if failed == len(requests) && failed > 0 {
		return fmt.Errorf("all %d backtests failed", failed)
	}

	return nil
}
