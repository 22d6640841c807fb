package indicator

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Config holds the lookback parameters of every indicator the engine computes.
type Config struct {
	RSIPeriod  int     `yaml:"rsi_period" json:"rsi_period" jsonschema:"title=RSI Period,description=Number of price deltas averaged by RSI,minimum=1,default=14" validate:"gte=1"`
	MACDFast   int     `yaml:"macd_fast" json:"macd_fast" jsonschema:"title=MACD Fast Span,minimum=1,default=12" validate:"gte=1,ltfield=MACDSlow"`
	MACDSlow   int     `yaml:"macd_slow" json:"macd_slow" jsonschema:"title=MACD Slow Span,minimum=2,default=26" validate:"gte=2"`
	MACDSignal int     `yaml:"macd_signal" json:"macd_signal" jsonschema:"title=MACD Signal Span,minimum=1,default=9" validate:"gte=1"`
	MAShort    int     `yaml:"ma_short" json:"ma_short" jsonschema:"title=Short SMA Period,minimum=1,default=20" validate:"gte=1"`
	MALong     int     `yaml:"ma_long" json:"ma_long" jsonschema:"title=Long SMA Period,minimum=1,default=50" validate:"gte=1"`
	BBPeriod   int     `yaml:"bb_period" json:"bb_period" jsonschema:"title=Bollinger Period,minimum=2,default=20" validate:"gte=2"`
	BBStdDev   float64 `yaml:"bb_std_dev" json:"bb_std_dev" jsonschema:"title=Bollinger Width,description=Number of standard deviations between the middle and outer bands,default=2" validate:"gt=0"`
}

// DefaultConfig returns the standard indicator parameters.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		MAShort:    20,
		MALong:     50,
		BBPeriod:   20,
		BBStdDev:   2,
	}
}

// Validate checks the configuration and reports failures as ErrCodeInvalidConfiguration.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid indicator config", err)
	}

	return nil
}

// Indicators builds the configured indicator set.
func (c Config) Indicators() ([]Indicator, error) {
	rsi := NewRSI()
	if err := rsi.Config(c.RSIPeriod); err != nil {
		return nil, err
	}

	macd := NewMACD()
	if err := macd.Config(c.MACDFast, c.MACDSlow, c.MACDSignal); err != nil {
		return nil, err
	}

	ma := NewMA()
	if err := ma.Config(c.MAShort, c.MALong); err != nil {
		return nil, err
	}

	bb := NewBollingerBands()
	if err := bb.Config(c.BBPeriod, c.BBStdDev); err != nil {
		return nil, err
	}

	return []Indicator{rsi, macd, ma, bb}, nil
}
