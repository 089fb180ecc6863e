package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/cuanbot-engine/internal/logger"
	"go.uber.org/zap"
)

const namespace = "cuanbot"

// Metrics holds the Prometheus collectors of the engine. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	BacktestRuns        *prometheus.CounterVec // labels: strategy, status
	BacktestDuration    prometheus.Histogram
	BacktestTrades      prometheus.Counter
	IndicatorComputeDur prometheus.Histogram
	MemoLookups         *prometheus.CounterVec // labels: result=hit|miss
	ScreenerSymbols     *prometheus.CounterVec // labels: status=ok|failed
	ScreenerDuration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BacktestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtest_runs_total",
			Help:      "Backtest runs by strategy and outcome",
		}, []string{"strategy", "status"}),
		BacktestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backtest_duration_seconds",
			Help:      "Wall time of a single backtest run",
			Buckets:   prometheus.DefBuckets,
		}),
		BacktestTrades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtest_trades_total",
			Help:      "Closed trades produced by backtest runs",
		}),
		IndicatorComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "indicator_compute_duration_seconds",
			Help:      "Snapshot engine compute latency per series",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		MemoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indicator_memo_lookups_total",
			Help:      "Indicator memo lookups by result",
		}, []string{"result"}),
		ScreenerSymbols: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screener_symbols_total",
			Help:      "Symbols processed by the screener by status",
		}, []string{"status"}),
		ScreenerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "screener_duration_seconds",
			Help:      "Wall time of a full screener pass",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.BacktestRuns,
			m.BacktestDuration,
			m.BacktestTrades,
			m.IndicatorComputeDur,
			m.MemoLookups,
			m.ScreenerSymbols,
			m.ScreenerDuration,
		)
	}

	return m
}

func (m *Metrics) ObserveBacktest(strategy string, err error, elapsed time.Duration, trades int) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "failed"
	}

	m.BacktestRuns.WithLabelValues(strategy, status).Inc()
	m.BacktestDuration.Observe(elapsed.Seconds())
	m.BacktestTrades.Add(float64(trades))
}

func (m *Metrics) ObserveIndicatorCompute(elapsed time.Duration) {
	if m == nil {
		return
	}

	m.IndicatorComputeDur.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveMemoLookup(hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.MemoLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveScreenerSymbol(err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "failed"
	}

	m.ScreenerSymbols.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveScreener(elapsed time.Duration) {
	if m == nil {
		return
	}

	m.ScreenerDuration.Observe(elapsed.Seconds())
}

// Serve exposes /metrics for gatherer on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("metrics server listening", zap.String("addr", addr))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
