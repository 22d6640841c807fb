package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12, // Default fast period
		slowPeriod:   26, // Default slow period
		signalPeriod: 9,  // Default signal period
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	fastPeriod, err := intParam(params, 0, "fastPeriod")
	if err != nil {
		return err
	}

	slowPeriod, err := intParam(params, 1, "slowPeriod")
	if err != nil {
		return err
	}

	signalPeriod, err := intParam(params, 2, "signalPeriod")
	if err != nil {
		return err
	}

	if fastPeriod >= slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fastPeriod (%d) must be smaller than slowPeriod (%d)", fastPeriod, slowPeriod)
	}

	m.fastPeriod = fastPeriod
	m.slowPeriod = slowPeriod
	m.signalPeriod = signalPeriod

	return nil
}

// Compute fills the MACD line, signal and histogram columns. All three are defined from bar 0.
func (m *MACD) Compute(closes []float64, set *types.IndicatorSet) error {
	if err := checkAligned(m.Name(), closes, set.MACD, set.MACDSignal, set.MACDHistogram); err != nil {
		return err
	}

	fast := exponentialMovingAverage(closes, m.fastPeriod)
	slow := exponentialMovingAverage(closes, m.slowPeriod)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}

	signal := exponentialMovingAverage(line, m.signalPeriod)

	for i := range closes {
		set.MACD[i] = optional.Some(line[i])
		set.MACDSignal[i] = optional.Some(signal[i])
		set.MACDHistogram[i] = optional.Some(line[i] - signal[i])
	}

	return nil
}
