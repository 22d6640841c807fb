package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config applies positional parameters. Omitted parameters keep their defaults.
	Config(params ...any) error
	// Compute fills the indicator's columns of set from the close prices.
	// It only reads closes and never touches other columns.
	Compute(closes []float64, set *types.IndicatorSet) error
}

func checkAligned(name types.IndicatorType, closes []float64, cols ...types.Column) error {
	for _, col := range cols {
		if len(col) != len(closes) {
			return errors.Newf(errors.ErrCodeMisalignedIndicators, "%s: column has %d values, expected %d", name, len(col), len(closes))
		}
	}

	return nil
}

// intParam reads a positive int period from params[index]. Callers check the length first.
func intParam(params []any, index int, name string) (int, error) {
	value, ok := params[index].(int)
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int", name)
	}

	if value <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, value)
	}

	return value, nil
}
