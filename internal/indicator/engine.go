package indicator

import (
	"strconv"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/cuanbot-engine/internal/cache"
	"github.com/rxtech-lab/cuanbot-engine/internal/telemetry"
	"github.com/rxtech-lab/cuanbot-engine/internal/types"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// Engine turns a bar series into one IndicatorSnapshot per bar.
type Engine struct {
	memo    cache.Memo
	metrics *telemetry.Metrics
}

type EngineOption func(*Engine)

// WithTelemetry records compute latency and memo lookups on m.
func WithTelemetry(m *telemetry.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine backed by memo. A nil memo disables memoization.
func NewEngine(memo cache.Memo, opts ...EngineOption) *Engine {
	e := &Engine{memo: memo}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// outputs groups the computed series of one run. A nil slice means the
// indicator had too little history for any value.
type outputs struct {
	rsi       []types.Series
	macd      []types.Series
	shortMA   []types.Series
	longMA    []types.Series
	bollinger []types.Series
	anomaly   []types.Series
}

// Compute validates cfg and bars, then computes every indicator. Bars before
// an indicator's lookback carry None for it. Any indicator named in required
// that cannot produce a value fails the call with an InsufficientDataError.
func (e *Engine) Compute(symbol string, bars []types.Bar, cfg Config, required ...types.IndicatorType) ([]types.IndicatorSnapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	requiredSet, err := expandRequired(required)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		e.metrics.ObserveIndicatorCompute(time.Since(start))
	}()

	closes := types.Closes(bars)

	var out outputs

	steps := []struct {
		indicator types.IndicatorType
		params    string
		target    *[]types.Series
		compute   func() ([]types.Series, error)
	}{
		{types.IndicatorTypeRSI, strconv.Itoa(cfg.RSIPeriod), &out.rsi, func() ([]types.Series, error) {
			s, err := RSI(closes, cfg.RSIPeriod)

			return []types.Series{s}, err
		}},
		{types.IndicatorTypeMACD, cfg.macdParams(), &out.macd, func() ([]types.Series, error) {
			r, err := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)

			return []types.Series{r.Line, r.Signal, r.Histogram}, err
		}},
		{types.IndicatorTypeShortMA, strconv.Itoa(cfg.ShortMAPeriod), &out.shortMA, func() ([]types.Series, error) {
			s, err := SMA(closes, cfg.ShortMAPeriod)

			return []types.Series{s}, err
		}},
		{types.IndicatorTypeLongMA, strconv.Itoa(cfg.LongMAPeriod), &out.longMA, func() ([]types.Series, error) {
			s, err := SMA(closes, cfg.LongMAPeriod)

			return []types.Series{s}, err
		}},
		{types.IndicatorTypeBollingerBands, cfg.bollingerParams(), &out.bollinger, func() ([]types.Series, error) {
			r, err := BollingerBands(closes, cfg.BollingerPeriod, cfg.BollingerStdDev)

			return []types.Series{r.Upper, r.Middle, r.Lower}, err
		}},
		{types.IndicatorTypeAnomaly, cfg.Anomaly.params(), &out.anomaly, func() ([]types.Series, error) {
			r, err := AnomalyScore(bars, cfg.Anomaly)

			return []types.Series{r.Score, r.VolumeRatio}, err
		}},
	}

	for _, step := range steps {
		series, err := e.cached(cache.NewMemoKey(symbol, step.indicator, step.params, bars), step.compute)
		if err != nil {
			var insufficient *errors.InsufficientDataError
			if !errors.As(err, &insufficient) {
				return nil, err
			}

			if _, ok := requiredSet[step.indicator]; ok {
				return nil, insufficient.WithSymbol(symbol)
			}

			continue
		}

		*step.target = series
	}

	return out.snapshots(bars, cfg.Anomaly.Threshold), nil
}

func (e *Engine) cached(key cache.MemoKey, compute func() ([]types.Series, error)) ([]types.Series, error) {
	if e.memo != nil {
		if series, ok := e.memo.Get(key); ok {
			e.metrics.ObserveMemoLookup(true)

			return series, nil
		}

		e.metrics.ObserveMemoLookup(false)
	}

	series, err := compute()
	if err != nil {
		return nil, err
	}

	if e.memo != nil {
		e.memo.Set(key, series)
	}

	return series, nil
}

func (o outputs) snapshots(bars []types.Bar, threshold float64) []types.IndicatorSnapshot {
	snapshots := make([]types.IndicatorSnapshot, len(bars))
	anomaly := o.anomalyResult()

	for i, bar := range bars {
		snapshot := types.IndicatorSnapshot{
			Index:           i,
			Time:            bar.Time,
			Close:           bar.Close,
			RSI:             at(o.rsi, 0, i),
			MACD:            at(o.macd, 0, i),
			MACDSignal:      at(o.macd, 1, i),
			MACDHistogram:   at(o.macd, 2, i),
			ShortMA:         at(o.shortMA, 0, i),
			LongMA:          at(o.longMA, 0, i),
			BollingerUpper:  at(o.bollinger, 0, i),
			BollingerMiddle: at(o.bollinger, 1, i),
			BollingerLower:  at(o.bollinger, 2, i),
			AnomalyScore:    at(o.anomaly, 0, i),
			VolumeRatio:     at(o.anomaly, 1, i),
			Anomaly:         optional.None[bool](),
		}

		if flagged, ok := anomaly.Flag(i, threshold); ok {
			snapshot.Anomaly = optional.Some(flagged)
		}

		snapshots[i] = snapshot
	}

	return snapshots
}

// anomalyResult restores the anomaly outputs from their memoized series form.
func (o outputs) anomalyResult() AnomalyResult {
	if len(o.anomaly) < 2 {
		return AnomalyResult{}
	}

	return AnomalyResult{Score: o.anomaly[0], VolumeRatio: o.anomaly[1]}
}

func at(series []types.Series, output, i int) optional.Option[float64] {
	if output >= len(series) {
		return optional.None[float64]()
	}

	return series[output].At(i)
}

// expandRequired maps the requested indicator names onto the engine's outputs.
func expandRequired(required []types.IndicatorType) (map[types.IndicatorType]struct{}, error) {
	set := make(map[types.IndicatorType]struct{}, len(required))

	for _, indicator := range required {
		switch indicator {
		case types.IndicatorTypeMA:
			set[types.IndicatorTypeShortMA] = struct{}{}
			set[types.IndicatorTypeLongMA] = struct{}{}
		case types.IndicatorTypeRSI, types.IndicatorTypeMACD, types.IndicatorTypeShortMA, types.IndicatorTypeLongMA,
			types.IndicatorTypeBollingerBands, types.IndicatorTypeAnomaly:
			set[indicator] = struct{}{}
		default:
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "indicator %q is not produced by the snapshot engine", indicator)
		}
	}

	return set, nil
}
