package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func seriesFromCloses(closes ...float64) types.Series {
	series := make(types.Series, len(closes))

	for i, c := range closes {
		series[i] = types.Bar{
			Time:   testStart.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return series
}

// crossoverSet encodes the wanted signals into SMA columns so the ma_crossover rule reproduces them.
func crossoverSet(signals ...types.SignalType) types.IndicatorSet {
	set := types.NewIndicatorSet(len(signals))

	for i, signal := range signals {
		switch signal {
		case types.SignalTypeBuy:
			set.SMAShort[i] = optional.Some(2.0)
			set.SMALong[i] = optional.Some(1.0)
		case types.SignalTypeSell:
			set.SMAShort[i] = optional.Some(1.0)
			set.SMALong[i] = optional.Some(2.0)
		case types.SignalTypeHold:
			set.SMAShort[i] = optional.Some(1.0)
			set.SMALong[i] = optional.Some(1.0)
		}
	}

	return set
}

const (
	buy  = types.SignalTypeBuy
	sell = types.SignalTypeSell
	hold = types.SignalTypeHold
)
