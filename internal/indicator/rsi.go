package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// RSI represents the Relative Strength Index indicator.
// Gains and losses are averaged with a simple trailing mean over the last period deltas.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) < 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	period, err := intParam(params, 0, "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// Compute fills the RSI column. Bars before index period are undefined.
func (r *RSI) Compute(closes []float64, set *types.IndicatorSet) error {
	if err := checkAligned(r.Name(), closes, set.RSI); err != nil {
		return err
	}

	for i := r.period; i < len(closes); i++ {
		set.RSI[i] = optional.Some(r.valueAt(closes, i))
	}

	return nil
}

// valueAt computes RSI from the deltas ending at bar i. Requires i >= period.
func (r *RSI) valueAt(closes []float64, i int) float64 {
	gain := 0.0
	loss := 0.0

	for j := i - r.period + 1; j <= i; j++ {
		change := closes[j] - closes[j-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}

	avgGain := gain / float64(r.period)
	avgLoss := loss / float64(r.period)

	// no losses in the window, RS is infinite
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
