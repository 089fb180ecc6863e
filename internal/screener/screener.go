package screener

import (
	"context"
	"slices"
	"time"

	"github.com/rxtech-lab/cuanbot-engine/internal/analysis"
	"github.com/rxtech-lab/cuanbot-engine/internal/indicator"
	"github.com/rxtech-lab/cuanbot-engine/internal/logger"
	"github.com/rxtech-lab/cuanbot-engine/internal/telemetry"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/internal/utils"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// Options are applied after every symbol has been scored.
type Options struct {
	Filter   types.ScreenerFilter `yaml:"filter" json:"filter" validate:"omitempty,oneof=all oversold bullish cheap high_score"`
	MinScore float64              `yaml:"min_score" json:"min_score" validate:"gte=0,lte=100"`
	// Sector is a case-insensitive substring of the sector name.
	Sector string `yaml:"sector" json:"sector"`
}

// Screener scores a universe of symbols with the indicator engine.
type Screener struct {
	bars         BarProvider
	fundamentals FundamentalsProvider
	engine       *indicator.Engine
	indicators   indicator.Config
	universe     []string
	workers      int
	log          *logger.Logger
	metrics      *telemetry.Metrics
	// progress is called once per finished symbol.
	progress func(symbol string, err error)
}

type Option func(*Screener)

func WithFundamentals(provider FundamentalsProvider) Option {
	return func(s *Screener) {
		s.fundamentals = provider
	}
}

// WithUniverse replaces the LQ45 universe.
func WithUniverse(symbols []string) Option {
	return func(s *Screener) {
		s.universe = symbols
	}
}

func WithWorkers(workers int) Option {
	return func(s *Screener) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

func WithIndicatorConfig(cfg indicator.Config) Option {
	return func(s *Screener) {
		s.indicators = cfg
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(s *Screener) {
		s.log = log.Named("screener")
	}
}

func WithTelemetry(m *telemetry.Metrics) Option {
	return func(s *Screener) {
		s.metrics = m
	}
}

// WithProgress registers a callback invoked from worker goroutines as symbols finish.
func WithProgress(fn func(symbol string, err error)) Option {
	return func(s *Screener) {
		s.progress = fn
	}
}

func NewScreener(bars BarProvider, engine *indicator.Engine, opts ...Option) *Screener {
	s := &Screener{
		bars:       bars,
		engine:     engine,
		indicators: indicator.DefaultConfig(),
		universe:   LQ45,
		workers:    defaultWorkers,
		log:        logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.engine == nil {
		s.engine = indicator.NewEngine(nil)
	}

	return s
}

// Universe returns the symbols the screener evaluates.
func (s *Screener) Universe() []string {
	return s.universe
}

type candidate struct {
	symbol       string
	snapshot     types.IndicatorSnapshot
	summary      types.Analysis
	fundamentals *types.Fundamentals
}

// Screen scores every symbol of the universe, then filters and ranks the rows.
// Symbols that fail are reported in Failures; only a cancelled ctx fails the call.
func (s *Screener) Screen(ctx context.Context, opts Options) (types.ScreenerResult, error) {
	if opts.Filter == "" {
		opts.Filter = types.ScreenerFilterAll
	}

	if !slices.Contains(types.AllScreenerFilters, opts.Filter) {
		return types.ScreenerResult{}, errors.Newf(errors.ErrCodeInvalidFilter, "unknown screener filter %q", opts.Filter)
	}

	if err := utils.ValidateStruct(opts); err != nil {
		return types.ScreenerResult{}, err
	}

	if err := s.indicators.Validate(); err != nil {
		return types.ScreenerResult{}, err
	}

	start := time.Now()

	s.log.Info("screening universe",
		zap.Int("symbols", len(s.universe)),
		zap.String("filter", string(opts.Filter)),
		zap.Float64("min_score", opts.MinScore),
		zap.String("sector", opts.Sector),
	)

	candidates := make([]*candidate, len(s.universe))
	failures := make([]error, len(s.universe))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, symbol := range s.universe {
		g.Go(func() error {
			c, err := s.evaluate(gctx, symbol)

			s.metrics.ObserveScreenerSymbol(err)

			if s.progress != nil {
				s.progress(symbol, err)
			}

			if err != nil {
				s.log.Warn("screening symbol failed", zap.String("symbol", symbol), zap.Error(err))
				failures[i] = err

				return nil
			}

			candidates[i] = c

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return types.ScreenerResult{}, err
	}

	result := types.ScreenerResult{
		Failures:      []types.ScreenerFailure{},
		TotalScreened: len(s.universe),
	}

	scored := make([]*candidate, 0, len(candidates))
	fundamentals := make(map[string]*types.Fundamentals, len(candidates))

	for i, c := range candidates {
		if failures[i] != nil {
			result.Failures = append(result.Failures, types.ScreenerFailure{
				Symbol: s.universe[i],
				Error:  failures[i].Error(),
			})

			continue
		}

		scored = append(scored, c)
		fundamentals[c.symbol] = c.fundamentals
	}

	valuation := ValuationScores(fundamentals)

	rows := make([]types.ScreenerRow, 0, len(scored))
	for _, c := range scored {
		rows = append(rows, c.row(valuation[c.symbol]))
	}

	rows = Filter(rows, opts)
	SortRows(rows)

	result.Rows = rows
	result.Sectors = SummarizeSectors(rows)

	s.metrics.ObserveScreener(time.Since(start))
	s.log.Info("screening finished",
		zap.Int("rows", len(rows)),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

func (s *Screener) evaluate(ctx context.Context, symbol string) (*candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := s.bars.Bars(ctx, symbol)
	if err != nil {
		return nil, err
	}

	fundamentals, err := s.lookupFundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.engine.Compute(symbol, bars, s.indicators, types.IndicatorTypeRSI, types.IndicatorTypeMACD)
	if err != nil {
		return nil, err
	}

	summary, err := analysis.Summarize(snapshots, fundamentals)
	if err != nil {
		return nil, err
	}

	return &candidate{
		symbol:       symbol,
		snapshot:     snapshots[len(snapshots)-1],
		summary:      summary,
		fundamentals: fundamentals,
	}, nil
}

func (s *Screener) lookupFundamentals(ctx context.Context, symbol string) (*types.Fundamentals, error) {
	if s.fundamentals == nil {
		return nil, nil
	}

	f, err := s.fundamentals.Fundamentals(ctx, symbol)
	if errors.HasCode(err, errors.ErrCodeDataNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &f, nil
}

func (c *candidate) row(valuationScore float64) types.ScreenerRow {
	rsi := c.snapshot.RSI.Unwrap()
	rsiScore := RSIScore(rsi)
	trendScore := TrendScore(c.snapshot)

	factors := types.ScreenerFactors{
		RSI:            rsi,
		RSIScore:       rsiScore,
		Trend:          c.summary.Trend,
		TrendScore:     trendScore,
		ValuationScore: valuationScore,
		Anomaly:        c.summary.Anomaly,
	}

	if c.snapshot.MACDHistogram.IsSome() {
		factors.MACDHistogram = c.snapshot.MACDHistogram.Unwrap()
	}

	sector := unknownSector

	if c.fundamentals != nil {
		factors.PE = fromPointer(c.fundamentals.PE)
		factors.PBV = fromPointer(c.fundamentals.PBV)

		if c.fundamentals.Sector != "" {
			sector = c.fundamentals.Sector
		}
	}

	return types.ScreenerRow{
		Symbol:         c.symbol,
		Price:          c.snapshot.Close,
		CompositeScore: CompositeScore(rsiScore, trendScore, valuationScore, c.summary.Anomaly),
		Factors:        factors,
		Sector:         sector,
		Verdict:        c.summary.Verdict,
	}
}
