package engine

import (
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BacktestStateTestSuite struct {
	suite.Suite
	state *BacktestState
}

func TestBacktestStateSuite(t *testing.T) {
	suite.Run(t, new(BacktestStateTestSuite))
}

func (suite *BacktestStateTestSuite) SetupTest() {
	state, err := NewBacktestState(10000, commission_fee.NewPercentageCommissionFee(0.001), logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.state = state
}

func (suite *BacktestStateTestSuite) TestNewBacktestStateValidation() {
	_, err := NewBacktestState(0, commission_fee.NewZeroCommissionFee(), logger.NewNopLogger())
	suite.True(errors.IsInvalidConfiguration(err))

	_, err = NewBacktestState(100, nil, logger.NewNopLogger())
	suite.Equal(errors.ErrCodeBacktestInitFailed, errors.GetCode(err))
}

func (suite *BacktestStateTestSuite) TestBuySizedByWholeShares() {
	bars := seriesFromCloses(90, 90)

	trades := suite.state.Update(bars[0], buy, false)
	suite.Require().Len(trades, 1)

	// floor(10000/90) = 111 shares cost 9990 plus 9.99 commission
	trade := trades[0]
	suite.Equal(types.PurchaseTypeBuy, trade.Side)
	suite.Equal(int64(111), trade.Shares)
	suite.Equal(90.0, trade.Price)
	suite.InDelta(9.99, trade.Commission, 1e-9)
	suite.True(trade.Profit.IsNone())
	suite.True(trade.ProfitPct.IsNone())

	position := suite.state.Position()
	suite.True(position.IsOpen())
	suite.Equal(90.0, position.EntryPrice.Unwrap())
	suite.InDelta(0.01, position.Cash, 1e-9)
	suite.GreaterOrEqual(position.Cash, 0.0)
}

func (suite *BacktestStateTestSuite) TestBuySkippedWhenCommissionOverdrawsCash() {
	bars := seriesFromCloses(100, 100)

	// floor(10000/100) = 100 shares cost 10000 plus 10 commission, so the order is skipped
	suite.Empty(suite.state.Update(bars[0], buy, false))
	suite.Empty(suite.state.Trades())

	position := suite.state.Position()
	suite.False(position.IsOpen())
	suite.Equal(10000.0, position.Cash)
	suite.Equal(10000.0, suite.state.EquityCurve()[0].Value)
}

func (suite *BacktestStateTestSuite) TestSellRecordsProfit() {
	bars := seriesFromCloses(90, 99)

	suite.state.Update(bars[0], buy, false)
	trades := suite.state.Update(bars[1], sell, false)
	suite.Require().Len(trades, 1)

	trade := trades[0]
	suite.Equal(types.PurchaseTypeSell, trade.Side)
	suite.Equal(int64(111), trade.Shares)
	suite.Equal(999.0, trade.Profit.Unwrap())
	suite.Equal(10.0, trade.ProfitPct.Unwrap())
	suite.InDelta(10.989, trade.Commission, 1e-9)
	suite.Equal(types.TradeReasonSignal, trade.Reason)

	position := suite.state.Position()
	suite.False(position.IsOpen())
	suite.True(position.EntryPrice.IsNone())
	suite.InDelta(10000-9999.99+10989-10.989, position.Cash, 1e-9)
}

func (suite *BacktestStateTestSuite) TestNoOpTransitions() {
	bars := seriesFromCloses(90, 91, 92, 93)

	suite.Empty(suite.state.Update(bars[0], sell, false), "sell while flat")
	suite.Len(suite.state.Update(bars[1], buy, false), 1)
	suite.Empty(suite.state.Update(bars[2], buy, false), "buy while long")
	suite.Empty(suite.state.Update(bars[3], hold, false))

	suite.Len(suite.state.Trades(), 1)
	suite.Len(suite.state.EquityCurve(), 4)
}

func (suite *BacktestStateTestSuite) TestFinalBarForcesClose() {
	bars := seriesFromCloses(90, 120)

	suite.state.Update(bars[0], buy, false)
	trades := suite.state.Update(bars[1], hold, true)
	suite.Require().Len(trades, 1)

	suite.Equal(types.TradeReasonEndOfRun, trades[0].Reason)
	suite.Equal(120.0, trades[0].Price)
	suite.False(suite.state.Position().IsOpen())

	// the last equity point is pure cash
	curve := suite.state.EquityCurve()
	suite.Equal(suite.state.Position().Cash, curve[len(curve)-1].Value)
}

func (suite *BacktestStateTestSuite) TestBuyOnFinalBarClosesImmediately() {
	bars := seriesFromCloses(90)

	trades := suite.state.Update(bars[0], buy, true)
	suite.Require().Len(trades, 2)

	suite.Equal(types.PurchaseTypeBuy, trades[0].Side)
	suite.Equal(types.PurchaseTypeSell, trades[1].Side)
	suite.Equal(0.0, trades[1].Profit.Unwrap())
	suite.InDelta(10000-9.99-9.99, suite.state.Position().Cash, 1e-9)
}

func (suite *BacktestStateTestSuite) TestCashTooSmallForOneShare() {
	state, err := NewBacktestState(50, commission_fee.NewPercentageCommissionFee(0.001), logger.NewNopLogger())
	suite.Require().NoError(err)

	bars := seriesFromCloses(100)
	suite.Empty(state.Update(bars[0], buy, false))
	suite.False(state.Position().IsOpen())
	suite.Equal(50.0, state.EquityCurve()[0].Value)
}

func (suite *BacktestStateTestSuite) TestFlatFeeSizing() {
	state, err := NewBacktestState(1000, commission_fee.NewInteractiveBrokerCommissionFee(), logger.NewNopLogger())
	suite.Require().NoError(err)

	bars := seriesFromCloses(10, 11)

	// 100 shares cost 1000 plus the 1 dollar minimum, which overdraws cash
	suite.Empty(state.Update(bars[0], buy, false))
	suite.False(state.Position().IsOpen())

	trades := state.Update(bars[1], buy, false)
	suite.Require().Len(trades, 1)

	suite.Equal(int64(90), trades[0].Shares)
	suite.Equal(1.0, trades[0].Commission)
	suite.Equal(9.0, state.Position().Cash)
}
