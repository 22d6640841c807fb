package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
type BollingerBands struct {
	period int     // Number of periods for moving average
	stdDev float64 // Number of standard deviations
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 20,  // Default period
		stdDev: 2.0, // Default standard deviation
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters: period (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), stdDev (float64)")
	}

	period, err := intParam(params, 0, "period")
	if err != nil {
		return err
	}

	// sample standard deviation needs at least two observations
	if period < 2 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be at least 2, got %d", period)
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidStdDevPeriod, "stdDev must be a positive number, got %f", stdDev)
	}

	bb.period = period
	bb.stdDev = stdDev

	return nil
}

// Compute fills the upper, middle and lower band columns once the window is full.
func (bb *BollingerBands) Compute(closes []float64, set *types.IndicatorSet) error {
	if err := checkAligned(bb.Name(), closes, set.BBUpper, set.BBMiddle, set.BBLower); err != nil {
		return err
	}

	for i := bb.period - 1; i < len(closes); i++ {
		middle := windowMean(closes, i, bb.period)

		variance := 0.0
		for j := i - bb.period + 1; j <= i; j++ {
			diff := closes[j] - middle
			variance += diff * diff
		}

		std := math.Sqrt(variance / float64(bb.period-1))

		set.BBMiddle[i] = optional.Some(middle)
		set.BBUpper[i] = optional.Some(middle + bb.stdDev*std)
		set.BBLower[i] = optional.Some(middle - bb.stdDev*std)
	}

	return nil
}
