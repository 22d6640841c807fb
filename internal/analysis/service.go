// Package analysis wires the indicator engine, signal rules and simulator into one entry point.
package analysis

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/currency"
	"github.com/rxtech-lab/argo-backtest/internal/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/metrics"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service holds read-only configuration only, so its methods are safe to call concurrently.
type Service struct {
	indicators   *indicator.Engine
	engineConfig enginev1.BacktestEngineV1Config
	strategies   strategy.Registry
	metrics      *metrics.Metrics
	log          *logger.Logger
}

type Option func(*options)

type options struct {
	indicatorConfig indicator.Config
	engineConfig    enginev1.BacktestEngineV1Config
	strategies      strategy.Registry
	metrics         *metrics.Metrics
}

// WithIndicatorConfig overrides the default indicator periods.
func WithIndicatorConfig(config indicator.Config) Option {
	return func(o *options) {
		o.indicatorConfig = config
	}
}

// WithEngineConfig sets the base simulator configuration. RunBacktest still overrides capital and commission.
// The broker chosen here decides whether that commission rate is used at all.
func WithEngineConfig(config enginev1.BacktestEngineV1Config) Option {
	return func(o *options) {
		o.engineConfig = config
	}
}

func WithStrategyRegistry(registry strategy.Registry) Option {
	return func(o *options) {
		o.strategies = registry
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// StrategyResult pairs a strategy name with the outcome of its run.
type StrategyResult struct {
	Strategy string
	Result   engine.Result
}

// SymbolResult pairs a symbol with its loaded data and the outcome of its run.
type SymbolResult struct {
	Symbol   string
	Analysis Analysis
	Result   engine.Result
}

// Analysis is everything AnalyzeSource derives from one data source query.
type Analysis struct {
	Series     types.Series
	Indicators types.IndicatorSet
	Latest     types.LatestSignals
}

func NewService(log *logger.Logger, opts ...Option) (*Service, error) {
	o := options{
		indicatorConfig: indicator.DefaultConfig(),
		engineConfig:    enginev1.DefaultConfig(),
		strategies:      strategy.NewDefaultRegistry(),
		metrics:         metrics.NewMetrics(nil),
	}

	for _, opt := range opts {
		opt(&o)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if o.strategies == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "strategy registry cannot be nil")
	}

	if err := o.engineConfig.Validate(); err != nil {
		return nil, err
	}

	indicators, err := indicator.NewEngine(o.indicatorConfig, log)
	if err != nil {
		return nil, err
	}

	return &Service{
		indicators:   indicators,
		engineConfig: o.engineConfig,
		strategies:   o.strategies,
		metrics:      o.metrics,
		log:          log,
	}, nil
}

// Strategies lists the registered strategy names.
func (s *Service) Strategies() []string {
	return s.strategies.Names()
}

// ComputeIndicators derives the full indicator set for series.
func (s *Service) ComputeIndicators(series types.Series) (types.IndicatorSet, error) {
	start := time.Now()
	set, err := s.indicators.Calculate(series)
	s.metrics.ObserveIndicators(start, err)

	return set, err
}

// LatestSignals evaluates every registered strategy on the last bar of series.
func (s *Service) LatestSignals(series types.Series, set types.IndicatorSet) (types.LatestSignals, error) {
	return strategy.Latest(series, set, s.strategies)
}

// RunBacktest simulates one strategy with the given capital and commission rate on top of the base configuration.
// commission is a fraction of the traded notional and only applies to the percentage broker;
// interactive_broker and zero_commission price trades by their own schedule and ignore it.
func (s *Service) RunBacktest(ctx context.Context, series types.Series, set types.IndicatorSet, strategyName string, initialCapital, commission float64) (engine.Result, error) {
	return s.RunBacktestWithCallbacks(ctx, series, set, strategyName, initialCapital, commission, engine.LifecycleCallbacks{})
}

// RunBacktestWithCallbacks is RunBacktest with lifecycle callbacks forwarded to the engine.
func (s *Service) RunBacktestWithCallbacks(
	ctx context.Context,
	series types.Series,
	set types.IndicatorSet,
	strategyName string,
	initialCapital, commission float64,
	callbacks engine.LifecycleCallbacks,
) (result engine.Result, err error) {
	start := time.Now()

	defer func() {
		s.metrics.ObserveRun(strategyName, start, len(result.EquityCurve), result.Report.BuyTrades, result.Report.SellTrades, err)
	}()

	config := s.engineConfig
	config.InitialCapital = initialCapital
	config.Commission = commission

	if config.Broker != commission_fee.BrokerPercentage && commission != 0 {
		s.log.Debug("Commission rate is ignored by the configured broker",
			zap.String("broker", string(config.Broker)),
			zap.Float64("commission", commission),
		)
	}

	backtester := enginev1.NewBacktestEngineV1WithLogger(s.log)

	if err := backtester.InitializeWithConfig(config); err != nil {
		return engine.Result{}, err
	}

	if err := backtester.SetStrategyRegistry(s.strategies); err != nil {
		return engine.Result{}, err
	}

	return backtester.Run(ctx, series, set, strategyName, callbacks)
}

// CompareStrategies runs each named strategy concurrently over the same inputs.
// Results keep the order of names. onDone, if set, is called once per finished run and must be safe for concurrent use.
func (s *Service) CompareStrategies(
	ctx context.Context,
	series types.Series,
	set types.IndicatorSet,
	names []string,
	initialCapital, commission float64,
	onDone func(strategyName string),
) ([]StrategyResult, error) {
	if len(names) == 0 {
		names = s.strategies.Names()
	}

	results := make([]StrategyResult, len(names))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, name := range names {
		group.Go(func() error {
			result, err := s.RunBacktest(groupCtx, series, set, name, initialCapital, commission)
			if err != nil {
				return errors.Wrapf(errors.GetCode(err), err, "strategy %s failed", name)
			}

			results[i] = StrategyResult{Strategy: name, Result: result}

			if onDone != nil {
				onDone(name)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug("Strategy comparison finished",
		zap.String("symbol", series.Symbol()),
		zap.Strings("strategies", names),
	)

	return results, nil
}

// AnalyzeSource loads q from source, converts prices with converter and computes indicators and latest signals.
func (s *Service) AnalyzeSource(ctx context.Context, source datasource.DataSource, q datasource.Query, converter currency.Converter) (Analysis, error) {
	series, err := source.ReadSeries(ctx, q)
	if err != nil {
		return Analysis{}, err
	}

	series = converter.ConvertSeries(series)

	set, err := s.ComputeIndicators(series)
	if err != nil {
		return Analysis{}, err
	}

	latest, err := s.LatestSignals(series, set)
	if err != nil {
		return Analysis{}, err
	}

	s.log.Info("Analysis completed",
		zap.String("symbol", series.Symbol()),
		zap.Int("bars", len(series)),
		zap.String("currency", converter.To()),
	)

	return Analysis{
		Series:     series,
		Indicators: set,
		Latest:     latest,
	}, nil
}

// CompareSymbols runs one strategy on every symbol of source and returns the results in symbol order.
// q supplies the shared window and interval; its symbol is replaced per run. An empty symbols list means every
// symbol in the source. Series are read one at a time and the simulations run concurrently.
func (s *Service) CompareSymbols(
	ctx context.Context,
	source datasource.DataSource,
	q datasource.Query,
	symbols []string,
	converter currency.Converter,
	strategyName string,
	initialCapital, commission float64,
	onDone func(symbol string),
) ([]SymbolResult, error) {
	if len(symbols) == 0 {
		all, err := source.Symbols(ctx)
		if err != nil {
			return nil, err
		}

		symbols = all
	}

	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeNoDataFound, "data source holds no symbols")
	}

	if _, err := s.strategies.Get(strategyName); err != nil {
		return nil, err
	}

	results := make([]SymbolResult, len(symbols))

	for i, symbol := range symbols {
		query := q
		query.Symbol = optional.Some(symbol)

		analysis, err := s.AnalyzeSource(ctx, source, query, converter)
		if err != nil {
			return nil, errors.Wrapf(errors.GetCode(err), err, "failed to load %s", symbol)
		}

		results[i] = SymbolResult{Symbol: symbol, Analysis: analysis}
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for i := range results {
		group.Go(func() error {
			r := &results[i]

			result, err := s.RunBacktest(groupCtx, r.Analysis.Series, r.Analysis.Indicators, strategyName, initialCapital, commission)
			if err != nil {
				return errors.Wrapf(errors.GetCode(err), err, "symbol %s failed", r.Symbol)
			}

			r.Result = result

			if onDone != nil {
				onDone(r.Symbol)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug("Symbol comparison finished",
		zap.String("strategy", strategyName),
		zap.Strings("symbols", symbols),
	)

	return results, nil
}
