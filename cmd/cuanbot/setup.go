package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rxtech-lab/cuanbot-engine/internal/cache"
	"github.com/rxtech-lab/cuanbot-engine/internal/datasource"
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/logger"
	"github.com/rxtech-lab/cuanbot-engine/internal/telemetry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// env holds what every command shares. close releases it.
type env struct {
	log     *logger.Logger
	metrics *telemetry.Metrics
	engine  *indicator.Engine
	source  *datasource.DuckDBSource
	closers []func() error
}

func newEnv(ctx context.Context, cmd *cli.Command) (*env, error) {
	level, err := zapcore.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	e := &env{log: log}
	e.closers = append(e.closers, func() error {
		_ = log.Sync()

		return nil
	})

	if addr := cmd.String("metrics-addr"); addr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		e.metrics = telemetry.NewMetrics(registry)

		go func() {
			if err := telemetry.Serve(ctx, addr, registry, log); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	var memo cache.Memo

	if addr := cmd.String("redis-addr"); addr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: addr})
		e.closers = append(e.closers, client.Close)
		memo = cache.NewRedisMemo(client, cmd.Duration("memo-ttl"), log)
	} else {
		memo = cache.NewInMemoryMemo()
	}

	e.engine = indicator.NewEngine(memo, indicator.WithTelemetry(e.metrics))

	return e, nil
}

// openData loads the bar files behind --data.
func (e *env) openData(pattern string) error {
	source, err := datasource.NewDuckDBSource(e.log)
	if err != nil {
		return err
	}

	if err := source.Initialize(pattern); err != nil {
		_ = source.Close()

		return err
	}

	e.source = source
	e.closers = append(e.closers, source.Close)

	return nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func dataFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "data",
		Aliases:  []string{"d"},
		Usage:    "Parquet or CSV file or glob with time, symbol, open, high, low, close, volume columns",
		Required: true,
	}
}

func fundamentalsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "fundamentals",
		Aliases: []string{"f"},
		Usage:   "YAML file mapping symbols to pe, pbv, market_cap and sector",
	}
}
