package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/stats"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type BacktestEngineV1 struct {
	config      BacktestEngineV1Config
	strategies  strategy.Registry
	log         *logger.Logger
	initialized bool
}

func NewBacktestEngineV1() engine.Engine {
	return NewBacktestEngineV1WithLogger(nil)
}

// NewBacktestEngineV1WithLogger creates an engine that logs to log instead of a fresh production logger.
func NewBacktestEngineV1WithLogger(log *logger.Logger) *BacktestEngineV1 {
	return &BacktestEngineV1{
		config:      EmptyConfig(),
		strategies:  strategy.NewDefaultRegistry(),
		log:         log,
		initialized: false,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	// parse the config on top of the defaults
	parsed := DefaultConfig()

	err := yaml.Unmarshal([]byte(config), &parsed)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	return b.InitializeWithConfig(parsed)
}

// InitializeWithConfig validates and applies config.
func (b *BacktestEngineV1) InitializeWithConfig(config BacktestEngineV1Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if b.log == nil {
		log, err := logger.NewLogger()
		if err != nil {
			return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
		}

		b.log = log
	}

	b.config = config
	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", config.InitialCapital),
		zap.Float64("commission", config.Commission),
		zap.String("broker", string(config.Broker)),
	)

	return nil
}

// Config returns the active configuration.
func (b *BacktestEngineV1) Config() BacktestEngineV1Config {
	return b.config
}

// SetStrategyRegistry implements engine.Engine.
func (b *BacktestEngineV1) SetStrategyRegistry(registry strategy.Registry) error {
	if registry == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy registry cannot be nil")
	}

	b.strategies = registry

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, series types.Series, set types.IndicatorSet, strategyName string, callbacks engine.LifecycleCallbacks) (result engine.Result, err error) {
	if callbacks.OnRunEnd != nil {
		defer func() {
			(*callbacks.OnRunEnd)(err)
		}()
	}

	if !b.initialized {
		return engine.Result{}, errors.New(errors.ErrCodeBacktestNotReady, "backtest engine is not initialized")
	}

	rule, err := b.strategies.Get(strategyName)
	if err != nil {
		return engine.Result{}, err
	}

	if err := series.Validate(); err != nil {
		return engine.Result{}, err
	}

	if err := set.Validate(len(series)); err != nil {
		return engine.Result{}, err
	}

	series, set, err = b.window(series, set)
	if err != nil {
		return engine.Result{}, err
	}

	signals, err := strategy.Generate(series, set, rule)
	if err != nil {
		return engine.Result{}, err
	}

	state, err := NewBacktestState(b.config.InitialCapital, b.config.CommissionFee(), b.log)
	if err != nil {
		return engine.Result{}, err
	}

	total := len(series)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(series.Symbol(), strategyName, total); err != nil {
			return engine.Result{}, err
		}
	}

	for i, bar := range series {
		if err := ctx.Err(); err != nil {
			return engine.Result{}, err
		}

		executed := state.Update(bar, signals[i].Type, i == total-1)
		for _, trade := range executed {
			b.log.Debug("Trade executed",
				zap.String("symbol", trade.Symbol),
				zap.String("side", string(trade.Side)),
				zap.Int64("shares", trade.Shares),
				zap.Float64("price", trade.Price),
				zap.String("reason", string(trade.Reason)),
			)
		}

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, total); err != nil {
				return engine.Result{}, err
			}
		}
	}

	report := stats.Analyze(b.config.InitialCapital, state.Trades(), state.EquityCurve(), b.config.RiskFreeRate)

	b.log.Info("Backtest completed",
		zap.String("symbol", series.Symbol()),
		zap.String("strategy", strategyName),
		zap.Int("bars", total),
		zap.Int("trades", report.TotalTrades),
		zap.Float64("final_value", report.FinalValue),
		zap.Float64("total_return_pct", report.TotalReturnPct),
	)

	return engine.Result{
		Report:      report,
		Trades:      state.Trades(),
		EquityCurve: state.EquityCurve(),
		Signals:     signals,
	}, nil
}

// window restricts the run to the configured time range. Indicators keep the values computed over the full series.
func (b *BacktestEngineV1) window(series types.Series, set types.IndicatorSet) (types.Series, types.IndicatorSet, error) {
	if b.config.StartTime.IsNone() && b.config.EndTime.IsNone() {
		return series, set, nil
	}

	from := 0
	to := len(series)

	for i, bar := range series {
		if b.config.StartTime.IsSome() && bar.Time.Before(b.config.StartTime.Unwrap()) {
			from = i + 1
		}

		if b.config.EndTime.IsSome() && bar.Time.After(b.config.EndTime.Unwrap()) {
			to = i

			break
		}
	}

	if from >= to {
		return nil, types.IndicatorSet{}, errors.NewInsufficientDataErrorf(1, 0, series.Symbol(),
			"no data: no bars between %s and %s",
			b.config.StartTime.TakeOr(time.Time{}).Format(time.RFC3339),
			b.config.EndTime.TakeOr(time.Time{}).Format(time.RFC3339),
		)
	}

	return series[from:to], set.Slice(from, to), nil
}
