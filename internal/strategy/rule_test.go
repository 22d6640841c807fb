package strategy

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type RuleTestSuite struct {
	suite.Suite
}

func TestRuleSuite(t *testing.T) {
	suite.Run(t, new(RuleTestSuite))
}

type snapshotValues struct {
	rsi, macd, signal, short, long optional.Option[float64]
}

func snapshot(v snapshotValues) types.IndicatorSnapshot {
	return types.IndicatorSnapshot{
		RSI:        v.rsi,
		MACD:       v.macd,
		MACDSignal: v.signal,
		SMAShort:   v.short,
		SMALong:    v.long,
	}
}

func some(v float64) optional.Option[float64] {
	return optional.Some(v)
}

func none() optional.Option[float64] {
	return optional.None[float64]()
}

func (suite *RuleTestSuite) TestRSIMACD() {
	rule := NewRSIMACDRule()

	tests := []struct {
		name   string
		values snapshotValues
		want   types.SignalType
	}{
		{name: "oversold and bullish", values: snapshotValues{rsi: some(25), macd: some(1), signal: some(0.5)}, want: types.SignalTypeBuy},
		{name: "overbought and bearish", values: snapshotValues{rsi: some(75), macd: some(0.5), signal: some(1)}, want: types.SignalTypeSell},
		{name: "oversold but bearish", values: snapshotValues{rsi: some(25), macd: some(0.5), signal: some(1)}, want: types.SignalTypeHold},
		{name: "threshold is exclusive", values: snapshotValues{rsi: some(30), macd: some(1), signal: some(0.5)}, want: types.SignalTypeHold},
		{name: "macd tie", values: snapshotValues{rsi: some(25), macd: some(1), signal: some(1)}, want: types.SignalTypeHold},
		{name: "rsi undefined", values: snapshotValues{rsi: none(), macd: some(1), signal: some(0.5)}, want: types.SignalTypeHold},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			signal := rule.Evaluate(snapshot(tc.values))
			suite.Equal(tc.want, signal.Type)
			suite.Equal(RSIMACDName, signal.Strategy)
		})
	}
}

func (suite *RuleTestSuite) TestMACrossover() {
	rule := NewMACrossoverRule()

	suite.Equal(types.SignalTypeBuy, rule.Evaluate(snapshot(snapshotValues{short: some(11), long: some(10)})).Type)
	suite.Equal(types.SignalTypeSell, rule.Evaluate(snapshot(snapshotValues{short: some(9), long: some(10)})).Type)
	suite.Equal(types.SignalTypeHold, rule.Evaluate(snapshot(snapshotValues{short: some(10), long: some(10)})).Type)

	undefined := rule.Evaluate(snapshot(snapshotValues{short: some(11), long: none()}))
	suite.Equal(types.SignalTypeHold, undefined.Type)
	suite.Equal(reasonInsufficientData, undefined.Reason)
}

func (suite *RuleTestSuite) TestCombined() {
	rule := NewCombinedRule()

	tests := []struct {
		name   string
		values snapshotValues
		want   types.SignalType
	}{
		{
			name:   "all bullish",
			values: snapshotValues{rsi: some(35), macd: some(2), signal: some(1), short: some(11), long: some(10)},
			want:   types.SignalTypeBuy,
		},
		{
			name:   "all bearish",
			values: snapshotValues{rsi: some(65), macd: some(1), signal: some(2), short: some(9), long: some(10)},
			want:   types.SignalTypeSell,
		},
		{
			name:   "sma disagrees",
			values: snapshotValues{rsi: some(35), macd: some(2), signal: some(1), short: some(9), long: some(10)},
			want:   types.SignalTypeHold,
		},
		{
			name:   "rsi in neutral band",
			values: snapshotValues{rsi: some(50), macd: some(2), signal: some(1), short: some(11), long: some(10)},
			want:   types.SignalTypeHold,
		},
		{
			name:   "long sma undefined",
			values: snapshotValues{rsi: some(35), macd: some(2), signal: some(1), short: some(11), long: none()},
			want:   types.SignalTypeHold,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.want, rule.Evaluate(snapshot(tc.values)).Type)
		})
	}
}

func (suite *RuleTestSuite) TestLabels() {
	labels := Labels(snapshot(snapshotValues{rsi: some(20), macd: some(1), signal: some(1), short: some(12), long: some(10)}))

	suite.Equal("OVERSOLD (Buy Signal)", labels["RSI"])
	// ties read as bearish
	suite.Equal("BEARISH (Sell Signal)", labels["MACD"])
	suite.Equal("BULLISH (Buy Signal)", labels["MA_Crossover"])

	labels = Labels(snapshot(snapshotValues{rsi: some(50), macd: none(), signal: none(), short: none(), long: none()}))
	suite.Equal(map[string]string{"RSI": "NEUTRAL"}, labels)

	labels = Labels(snapshot(snapshotValues{rsi: some(80)}))
	suite.Equal("OVERBOUGHT (Sell Signal)", labels["RSI"])
}
