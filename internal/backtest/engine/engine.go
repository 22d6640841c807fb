package engine

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnRunStartCallback is called once the inputs are validated, before the first bar is processed.
type OnRunStartCallback func(symbol string, strategyName string, totalDataPoints int) error

// OnRunEndCallback is called when a run finishes, successfully or not.
type OnRunEndCallback func(err error)

// OnProcessDataCallback is called for each data point processed.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnRunEnd      *OnRunEndCallback
	OnProcessData *OnProcessDataCallback
}

// Result is everything a single run produces.
type Result struct {
	Report      types.BacktestReport
	Trades      []types.Trade
	EquityCurve []types.EquityPoint
	// Signals holds the decision taken on each simulated bar.
	Signals []types.Signal
}

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetStrategyRegistry replaces the rules runs can select by name.
	SetStrategyRegistry(registry strategy.Registry) error
	// Run simulates strategyName over series using the precomputed indicator set.
	// Each call allocates its own state, so concurrent runs on one engine do not interfere.
	Run(ctx context.Context, series types.Series, set types.IndicatorSet, strategyName string, callbacks LifecycleCallbacks) (Result, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
