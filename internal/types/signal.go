package types

import (
	"time"
)

type SignalType string

const (
	// SignalTypeBuy tells the simulator to open a long position
	SignalTypeBuy SignalType = "BUY"
	// SignalTypeSell tells the simulator to close the open position
	SignalTypeSell SignalType = "SELL"
	// SignalTypeHold tells the simulator to take no action
	SignalTypeHold SignalType = "HOLD"
)

type Signal struct {
	// Time is the time of the bar the signal belongs to
	Time time.Time `yaml:"time" json:"time"`
	// Type is the type of the signal
	Type SignalType `yaml:"type" json:"type"`
	// Strategy is the name of the rule that produced the signal
	Strategy string `yaml:"strategy" json:"strategy"`
	// Reason is a human readable explanation
	Reason string `yaml:"reason" json:"reason"`
}

// LatestSignals condenses the last bar of a series into indicator values and per-strategy decisions.
type LatestSignals struct {
	Time       time.Time                 `yaml:"time" json:"time"`
	Symbol     string                    `yaml:"symbol" json:"symbol"`
	Close      float64                   `yaml:"close" json:"close"`
	Indicators map[IndicatorName]float64 `yaml:"indicators" json:"indicators"`
	// Strategies maps a strategy name to its decision on the last bar.
	Strategies map[string]SignalType `yaml:"strategies" json:"strategies"`
	// Labels are per-indicator readings such as "OVERSOLD (Buy Signal)".
	Labels map[string]string `yaml:"labels" json:"labels"`
}
