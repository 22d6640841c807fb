// Package currency converts price series between currencies at an explicit rate.
package currency

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultUSDToINR is the reference USD to INR rate. Callers pass it explicitly when no live quote is available.
const DefaultUSDToINR = 83.0

// PricePrecision is the number of decimal places converted prices are rounded to.
const PricePrecision = 2

// Converter applies a single fixed rate. It has no shared state, so one value can serve concurrent runs.
type Converter struct {
	from string
	to   string
	rate decimal.Decimal
}

// NewConverter creates a converter for amounts in from, priced in to at rate units of to per unit of from.
func NewConverter(from, to string, rate float64) (Converter, error) {
	if rate <= 0 {
		return Converter{}, errors.Newf(errors.ErrCodeInvalidConversionRate, "conversion rate %s->%s must be positive, got %f", from, to, rate)
	}

	return Converter{
		from: from,
		to:   to,
		rate: decimal.NewFromFloat(rate),
	}, nil
}

// Identity returns a converter that leaves amounts unchanged.
func Identity(currency string) Converter {
	return Converter{
		from: currency,
		to:   currency,
		rate: decimal.NewFromInt(1),
	}
}

func (c Converter) From() string {
	return c.from
}

func (c Converter) To() string {
	return c.to
}

// Rate returns the conversion rate as a float.
func (c Converter) Rate() float64 {
	return c.rate.InexactFloat64()
}

// Convert converts a single amount and rounds it to PricePrecision places.
func (c Converter) Convert(amount float64) float64 {
	return decimal.NewFromFloat(amount).Mul(c.rate).Round(PricePrecision).InexactFloat64()
}

// Inverse returns the converter for the opposite direction.
func (c Converter) Inverse() Converter {
	return Converter{
		from: c.to,
		to:   c.from,
		rate: decimal.NewFromInt(1).DivRound(c.rate, 16),
	}
}

// ConvertSeries returns a copy of series with open, high, low and close converted. Volume is unchanged.
func (c Converter) ConvertSeries(series types.Series) types.Series {
	out := series.Clone()

	for i := range out {
		out[i].Open = c.Convert(out[i].Open)
		out[i].High = c.Convert(out[i].High)
		out[i].Low = c.Convert(out[i].Low)
		out[i].Close = c.Convert(out[i].Close)
	}

	return out
}
