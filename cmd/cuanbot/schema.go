package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/cuanbot-engine/internal/backtest"
	"github.com/rxtech-lab/cuanbot-engine/internal/strategy"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/urfave/cli/v3"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the backtest config, or of a strategy's params",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Print the params schema of this strategy instead",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var (
				schema string
				err    error
			)

			if id := cmd.String("strategy"); id != "" {
				schema, err = strategy.ParamsSchema(types.StrategyID(id))
			} else {
				cfg := backtest.DefaultConfig()
				schema, err = cfg.GenerateSchemaJSON()
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, schema)

			return err
		},
	}
}
