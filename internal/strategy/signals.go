package strategy

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Generate evaluates rule on every bar and returns one signal per bar.
func Generate(series types.Series, set types.IndicatorSet, rule Rule) ([]types.Signal, error) {
	if rule == nil {
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "strategy rule is nil")
	}

	if err := set.Validate(len(series)); err != nil {
		return nil, err
	}

	signals := make([]types.Signal, len(series))
	for i, bar := range series {
		signal := rule.Evaluate(set.Snapshot(i))
		signal.Time = bar.Time
		signals[i] = signal
	}

	return signals, nil
}

// Latest summarizes the final bar: defined indicator values, every registered rule's decision and the indicator labels.
func Latest(series types.Series, set types.IndicatorSet, registry Registry) (types.LatestSignals, error) {
	last, ok := series.Last()
	if !ok {
		return types.LatestSignals{}, errors.NewInsufficientDataError(1, 0, "", "no data: series is empty")
	}

	if err := set.Validate(len(series)); err != nil {
		return types.LatestSignals{}, err
	}

	snapshot := set.Snapshot(len(series) - 1)

	latest := types.LatestSignals{
		Time:       last.Time,
		Symbol:     last.Symbol,
		Close:      last.Close,
		Indicators: snapshot.Values(),
		Strategies: make(map[string]types.SignalType),
		Labels:     Labels(snapshot),
	}

	for _, name := range registry.Names() {
		rule, err := registry.Get(name)
		if err != nil {
			return types.LatestSignals{}, err
		}

		latest.Strategies[name] = rule.Evaluate(snapshot).Type
	}

	return latest, nil
}

// Labels describes each indicator reading. Readings whose inputs are undefined are omitted.
func Labels(snapshot types.IndicatorSnapshot) map[string]string {
	labels := make(map[string]string)

	if snapshot.RSI.IsSome() {
		rsi := snapshot.RSI.Unwrap()

		switch {
		case rsi < 30:
			labels["RSI"] = "OVERSOLD (Buy Signal)"
		case rsi > 70:
			labels["RSI"] = "OVERBOUGHT (Sell Signal)"
		default:
			labels["RSI"] = "NEUTRAL"
		}
	}

	if allDefined(snapshot.MACD, snapshot.MACDSignal) {
		if snapshot.MACD.Unwrap() > snapshot.MACDSignal.Unwrap() {
			labels["MACD"] = "BULLISH (Buy Signal)"
		} else {
			labels["MACD"] = "BEARISH (Sell Signal)"
		}
	}

	if allDefined(snapshot.SMAShort, snapshot.SMALong) {
		if snapshot.SMAShort.Unwrap() > snapshot.SMALong.Unwrap() {
			labels["MA_Crossover"] = "BULLISH (Buy Signal)"
		} else {
			labels["MA_Crossover"] = "BEARISH (Sell Signal)"
		}
	}

	return labels
}
