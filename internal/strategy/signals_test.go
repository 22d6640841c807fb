package strategy

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SignalsTestSuite struct {
	suite.Suite
	series types.Series
	set    types.IndicatorSet
}

func TestSignalsSuite(t *testing.T) {
	suite.Run(t, new(SignalsTestSuite))
}

func (suite *SignalsTestSuite) SetupTest() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.series = types.Series{
		{Time: start, Symbol: "MSFT", Open: 10, High: 10, Low: 10, Close: 10},
		{Time: start.Add(time.Hour), Symbol: "MSFT", Open: 11, High: 11, Low: 11, Close: 11},
		{Time: start.Add(2 * time.Hour), Symbol: "MSFT", Open: 12, High: 12, Low: 12, Close: 12},
	}

	suite.set = types.NewIndicatorSet(3)
	suite.set.SMAShort[1] = some(11)
	suite.set.SMALong[1] = some(10)
	suite.set.SMAShort[2] = some(9)
	suite.set.SMALong[2] = some(10)
	suite.set.RSI[2] = some(75)
	suite.set.MACD[2] = some(-1)
	suite.set.MACDSignal[2] = some(0)
}

func (suite *SignalsTestSuite) TestGenerate() {
	signals, err := Generate(suite.series, suite.set, NewMACrossoverRule())
	suite.Require().NoError(err)
	suite.Require().Len(signals, 3)

	suite.Equal(types.SignalTypeHold, signals[0].Type)
	suite.Equal(types.SignalTypeBuy, signals[1].Type)
	suite.Equal(types.SignalTypeSell, signals[2].Type)

	for i, signal := range signals {
		suite.Equal(suite.series[i].Time, signal.Time)
		suite.Equal(MACrossoverName, signal.Strategy)
	}
}

func (suite *SignalsTestSuite) TestGenerateRejectsMisalignedSet() {
	_, err := Generate(suite.series, types.NewIndicatorSet(2), NewMACrossoverRule())
	suite.Equal(errors.ErrCodeMisalignedIndicators, errors.GetCode(err))

	_, err = Generate(suite.series, suite.set, nil)
	suite.True(errors.IsInvalidStrategy(err))
}

func (suite *SignalsTestSuite) TestLatest() {
	latest, err := Latest(suite.series, suite.set, NewDefaultRegistry())
	suite.Require().NoError(err)

	suite.Equal(suite.series[2].Time, latest.Time)
	suite.Equal("MSFT", latest.Symbol)
	suite.Equal(12.0, latest.Close)
	suite.Equal(map[types.IndicatorName]float64{
		types.IndicatorRSI:        75,
		types.IndicatorMACD:       -1,
		types.IndicatorMACDSignal: 0,
		types.IndicatorSMAShort:   9,
		types.IndicatorSMALong:    10,
	}, latest.Indicators)
	suite.Equal(map[string]types.SignalType{
		CombinedName:    types.SignalTypeSell,
		MACrossoverName: types.SignalTypeSell,
		RSIMACDName:     types.SignalTypeSell,
	}, latest.Strategies)
	suite.Equal("OVERBOUGHT (Sell Signal)", latest.Labels["RSI"])
}

func (suite *SignalsTestSuite) TestLatestEmptySeries() {
	_, err := Latest(types.Series{}, types.NewIndicatorSet(0), NewDefaultRegistry())
	suite.True(errors.IsInsufficientDataError(err))
}
