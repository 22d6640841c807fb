package types

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) TestIsClosing() {
	buy := Trade{Side: PurchaseTypeBuy, Shares: 10, Price: 100}
	suite.False(buy.IsClosing())

	sell := Trade{Side: PurchaseTypeSell, Shares: 10, Price: 110, Profit: optional.Some(100.0)}
	suite.True(sell.IsClosing())
}

func (suite *TradeTestSuite) TestPositionValue() {
	pos := Position{Cash: 50, SharesHeld: 3, EntryPrice: optional.Some(10.0)}

	suite.True(pos.IsOpen())
	suite.Equal(80.0, pos.Value(10))

	flat := Position{Cash: 100}
	suite.False(flat.IsOpen())
	suite.Equal(100.0, flat.Value(999))
}

func (suite *TradeTestSuite) TestRunStatsRoundTrip() {
	path := filepath.Join(suite.T().TempDir(), "stats.yaml")
	stats := RunStats{
		Run: RunInfo{
			ID:        "run-1",
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Symbol:    "AAPL",
			Strategy:  "combined",
		},
		Report: BacktestReport{
			InitialCapital: 10000,
			FinalValue:     10500,
			TotalReturn:    500,
			TotalReturnPct: 5,
			TotalTrades:    2,
			BuyTrades:      1,
			SellTrades:     1,
			WinRate:        100,
		},
	}

	suite.Require().NoError(WriteRunStats(path, stats))

	got, err := ReadRunStats(path)
	suite.Require().NoError(err)
	suite.Equal(stats, got)
}
