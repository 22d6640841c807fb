package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// MA indicator implements the short and long Simple Moving Average pair used for crossovers.
type MA struct {
	shortPeriod int
	longPeriod  int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		shortPeriod: 20,
		longPeriod:  50,
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Expected parameters: shortPeriod (int), longPeriod (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: shortPeriod (int), longPeriod (int)")
	}

	shortPeriod, err := intParam(params, 0, "shortPeriod")
	if err != nil {
		return err
	}

	longPeriod, err := intParam(params, 1, "longPeriod")
	if err != nil {
		return err
	}

	m.shortPeriod = shortPeriod
	m.longPeriod = longPeriod

	return nil
}

func (m *MA) Compute(closes []float64, set *types.IndicatorSet) error {
	if err := checkAligned(m.Name(), closes, set.SMAShort, set.SMALong); err != nil {
		return err
	}

	fillSimpleMovingAverage(closes, m.shortPeriod, set.SMAShort)
	fillSimpleMovingAverage(closes, m.longPeriod, set.SMALong)

	return nil
}

// fillSimpleMovingAverage writes the trailing mean into col. The first period-1 entries stay undefined.
func fillSimpleMovingAverage(closes []float64, period int, col types.Column) {
	for i := period - 1; i < len(closes); i++ {
		col[i] = optional.Some(windowMean(closes, i, period))
	}
}

// windowMean sums the window ending at end from scratch so no drift accumulates across bars.
func windowMean(values []float64, end, period int) float64 {
	sum := 0.0
	for j := end - period + 1; j <= end; j++ {
		sum += values[j]
	}

	return sum / float64(period)
}
