package types

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Bar is a single OHLCV observation.
type Bar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume int64     `yaml:"volume" json:"volume" csv:"volume"`
}

// Series is a chronologically ordered sequence of bars for a single instrument.
type Series []Bar

// Validate checks bar ordering and price/volume bounds.
// An empty series is reported as an InsufficientDataError since no run can start without data.
func (s Series) Validate() error {
	if len(s) == 0 {
		return errors.NewInsufficientDataError(1, 0, "", "no data: series is empty")
	}

	for i, bar := range s {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return errors.Newf(errors.ErrCodeInvalidSeries, "bar %d (%s) has a non-positive price", i, bar.Time.Format(time.RFC3339))
		}

		if bar.Volume < 0 {
			return errors.Newf(errors.ErrCodeInvalidSeries, "bar %d (%s) has a negative volume", i, bar.Time.Format(time.RFC3339))
		}

		if i > 0 && !bar.Time.After(s[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidSeries, "bar %d (%s) is not strictly after the previous bar", i, bar.Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Symbol returns the symbol of the first bar, or an empty string for an empty series.
func (s Series) Symbol() string {
	if len(s) == 0 {
		return ""
	}

	return s[0].Symbol
}

// Closes returns a freshly allocated slice of close prices.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}

	return closes
}

// Last returns the final bar of the series.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}

	return s[len(s)-1], true
}

// Clone returns a copy of the series that shares no memory with s.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}

	out := make(Series, len(s))
	copy(out, s)

	return out
}
