package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/rxtech-lab/cuanbot-engine/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "cuanbot",
		Usage:   "Technical indicators, strategy backtests and screening for IDX stocks",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. :9090",
			},
			&cli.StringFlag{
				Name:  "redis-addr",
				Usage: "Memoize indicator series in Redis at this address instead of in memory",
			},
			&cli.DurationFlag{
				Name:  "memo-ttl",
				Usage: "Expiry of memoized indicator series in Redis",
				Value: time.Hour,
			},
		},
		Commands: []*cli.Command{
			backtestCommand(),
			indicatorsCommand(),
			screenCommand(),
			schemaCommand(),
		},
	}
}
