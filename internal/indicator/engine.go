package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// Engine computes every registered indicator over a series.
// It holds only configured indicators and is safe for concurrent use.
type Engine struct {
	registry IndicatorRegistry
	log      *logger.Logger
}

// NewEngine validates cfg and registers the RSI, MACD, MA and Bollinger Bands indicators.
func NewEngine(cfg Config, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	indicators, err := cfg.Indicators()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to configure indicators", err)
	}

	registry := NewIndicatorRegistry()
	for _, ind := range indicators {
		if err := registry.RegisterIndicator(ind); err != nil {
			return nil, err
		}
	}

	return NewEngineWithRegistry(registry, log), nil
}

// NewEngineWithRegistry creates an engine over a caller-provided registry.
func NewEngineWithRegistry(registry IndicatorRegistry, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		registry: registry,
		log:      log,
	}
}

// Registry returns the registry backing the engine.
func (e *Engine) Registry() IndicatorRegistry {
	return e.registry
}

// Calculate returns a fresh IndicatorSet aligned with series.
// An empty series fails with an InsufficientDataError. Short series leave leading values undefined.
func (e *Engine) Calculate(series types.Series) (types.IndicatorSet, error) {
	if err := series.Validate(); err != nil {
		return types.IndicatorSet{}, err
	}

	closes := series.Closes()
	set := types.NewIndicatorSet(len(series))

	for _, name := range e.registry.ListIndicators() {
		ind, err := e.registry.GetIndicator(name)
		if err != nil {
			return types.IndicatorSet{}, err
		}

		if err := ind.Compute(closes, &set); err != nil {
			return types.IndicatorSet{}, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "failed to compute %s", name)
		}
	}

	if err := set.Validate(len(series)); err != nil {
		return types.IndicatorSet{}, err
	}

	e.log.Debug("Calculated indicators",
		zap.String("symbol", series.Symbol()),
		zap.Int("bars", len(series)),
		zap.Int("indicators", len(e.registry.ListIndicators())),
		zap.Int("rsi_defined", set.RSI.Defined()),
		zap.Int("sma_long_defined", set.SMALong.Defined()),
	)

	return set, nil
}
