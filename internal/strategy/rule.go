package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

const (
	// RSIMACDName is the name of the RSI plus MACD momentum rule.
	RSIMACDName = "rsi_macd"
	// MACrossoverName is the name of the moving average crossover rule.
	MACrossoverName = "ma_crossover"
	// CombinedName is the name of the rule requiring RSI, MACD and MA agreement.
	CombinedName = "combined"
)

const reasonInsufficientData = "insufficient data"

// Rule maps one bar's indicator snapshot to a trading decision.
// Implementations are stateless and safe to share across runs.
type Rule interface {
	Name() string
	// Evaluate returns the decision for a single bar. Time is left for the caller to set.
	Evaluate(snapshot types.IndicatorSnapshot) types.Signal
}

// RSIMACDRule buys oversold momentum turning up and sells overbought momentum turning down.
type RSIMACDRule struct {
	Oversold   float64
	Overbought float64
}

// NewRSIMACDRule creates the rule with thresholds 30/70.
func NewRSIMACDRule() Rule {
	return &RSIMACDRule{
		Oversold:   30,
		Overbought: 70,
	}
}

func (r *RSIMACDRule) Name() string {
	return RSIMACDName
}

func (r *RSIMACDRule) Evaluate(snapshot types.IndicatorSnapshot) types.Signal {
	if !allDefined(snapshot.RSI, snapshot.MACD, snapshot.MACDSignal) {
		return hold(r.Name(), reasonInsufficientData)
	}

	rsi := snapshot.RSI.Unwrap()
	macd := snapshot.MACD.Unwrap()
	signal := snapshot.MACDSignal.Unwrap()

	switch {
	case rsi < r.Oversold && macd > signal:
		return newSignal(types.SignalTypeBuy, r.Name(), fmt.Sprintf("RSI oversold (%.2f) and MACD above signal", rsi))
	case rsi > r.Overbought && macd < signal:
		return newSignal(types.SignalTypeSell, r.Name(), fmt.Sprintf("RSI overbought (%.2f) and MACD below signal", rsi))
	default:
		return hold(r.Name(), "no signal")
	}
}

// MACrossoverRule follows the relative position of the short and long SMA.
type MACrossoverRule struct{}

func NewMACrossoverRule() Rule {
	return &MACrossoverRule{}
}

func (r *MACrossoverRule) Name() string {
	return MACrossoverName
}

func (r *MACrossoverRule) Evaluate(snapshot types.IndicatorSnapshot) types.Signal {
	if !allDefined(snapshot.SMAShort, snapshot.SMALong) {
		return hold(r.Name(), reasonInsufficientData)
	}

	short := snapshot.SMAShort.Unwrap()
	long := snapshot.SMALong.Unwrap()

	switch {
	case short > long:
		return newSignal(types.SignalTypeBuy, r.Name(), "short SMA above long SMA")
	case short < long:
		return newSignal(types.SignalTypeSell, r.Name(), "short SMA below long SMA")
	default:
		return hold(r.Name(), "short SMA equals long SMA")
	}
}

// CombinedRule requires RSI, MACD and the SMA pair to agree.
type CombinedRule struct {
	Oversold   float64
	Overbought float64
}

// NewCombinedRule creates the rule with the looser thresholds 40/60.
func NewCombinedRule() Rule {
	return &CombinedRule{
		Oversold:   40,
		Overbought: 60,
	}
}

func (r *CombinedRule) Name() string {
	return CombinedName
}

func (r *CombinedRule) Evaluate(snapshot types.IndicatorSnapshot) types.Signal {
	if !allDefined(snapshot.RSI, snapshot.MACD, snapshot.MACDSignal, snapshot.SMAShort, snapshot.SMALong) {
		return hold(r.Name(), reasonInsufficientData)
	}

	rsi := snapshot.RSI.Unwrap()
	macd := snapshot.MACD.Unwrap()
	signal := snapshot.MACDSignal.Unwrap()
	short := snapshot.SMAShort.Unwrap()
	long := snapshot.SMALong.Unwrap()

	switch {
	case rsi < r.Oversold && macd > signal && short > long:
		return newSignal(types.SignalTypeBuy, r.Name(), fmt.Sprintf("RSI %.2f with bullish MACD and SMA", rsi))
	case rsi > r.Overbought && macd < signal && short < long:
		return newSignal(types.SignalTypeSell, r.Name(), fmt.Sprintf("RSI %.2f with bearish MACD and SMA", rsi))
	default:
		return hold(r.Name(), "no signal")
	}
}

func allDefined(values ...optional.Option[float64]) bool {
	for _, v := range values {
		if v.IsNone() {
			return false
		}
	}

	return true
}

func newSignal(signalType types.SignalType, strategy, reason string) types.Signal {
	return types.Signal{
		Type:     signalType,
		Strategy: strategy,
		Reason:   reason,
	}
}

func hold(strategy, reason string) types.Signal {
	return newSignal(types.SignalTypeHold, strategy, reason)
}
