package engine

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/utils"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BacktestState is the FLAT/LONG account of a single run.
// It is owned by one run and must not be shared.
type BacktestState struct {
	position types.Position
	fee      commission_fee.CommissionFee
	trades   []types.Trade
	equity   []types.EquityPoint
	logger   *logger.Logger
}

func NewBacktestState(initialCapital float64, fee commission_fee.CommissionFee, logger *logger.Logger) (*BacktestState, error) {
	if fee == nil {
		return nil, errors.New(errors.ErrCodeBacktestInitFailed, "commission fee is required")
	}

	if initialCapital <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "initial capital must be positive, got %f", initialCapital)
	}

	return &BacktestState{
		position: types.Position{
			Cash:       initialCapital,
			SharesHeld: 0,
			EntryPrice: optional.None[float64](),
		},
		fee:    fee,
		trades: nil,
		equity: nil,
		logger: logger,
	}, nil
}

// Update applies one bar: the signal transition, the forced close on the final bar, then the equity mark.
// It returns the trades executed on this bar.
func (b *BacktestState) Update(bar types.Bar, signal types.SignalType, isFinalBar bool) []types.Trade {
	start := len(b.trades)

	switch {
	case signal == types.SignalTypeBuy && !b.position.IsOpen():
		b.open(bar)
	case signal == types.SignalTypeSell && b.position.IsOpen():
		b.close(bar, types.TradeReasonSignal)
	}

	if isFinalBar && b.position.IsOpen() {
		b.close(bar, types.TradeReasonEndOfRun)
	}

	b.equity = append(b.equity, types.EquityPoint{
		Time:  bar.Time,
		Value: b.position.Value(bar.Close),
	})

	return b.trades[start:]
}

func (b *BacktestState) open(bar types.Bar) {
	price := bar.Close

	shares := utils.CalculateBuyShares(b.position.Cash, price, b.fee)
	if shares == 0 {
		b.logger.Debug("Skipping buy, cash does not cover the order and its fee",
			zap.Time("time", bar.Time),
			zap.Float64("cash", b.position.Cash),
			zap.Float64("price", price),
		)

		return
	}

	commission := b.fee.Calculate(shares, price)

	b.position.Cash -= float64(shares)*price + commission
	b.position.SharesHeld = shares
	b.position.EntryPrice = optional.Some(price)

	b.trades = append(b.trades, types.Trade{
		Time:       bar.Time,
		Symbol:     bar.Symbol,
		Side:       types.PurchaseTypeBuy,
		Price:      price,
		Shares:     shares,
		Commission: commission,
		Profit:     optional.None[float64](),
		ProfitPct:  optional.None[float64](),
		Reason:     types.TradeReasonSignal,
	})
}

func (b *BacktestState) close(bar types.Bar, reason types.TradeReason) {
	price := bar.Close
	shares := b.position.SharesHeld
	entry := b.position.EntryPrice.Unwrap()
	commission := b.fee.Calculate(shares, price)

	priceDec := decimal.NewFromFloat(price)
	entryDec := decimal.NewFromFloat(entry)
	profitDec := priceDec.Sub(entryDec).Mul(decimal.NewFromInt(shares))
	profitPctDec := priceDec.Sub(entryDec).Div(entryDec).Mul(decimal.NewFromInt(100))

	b.position.Cash += float64(shares)*price - commission
	b.position.SharesHeld = 0
	b.position.EntryPrice = optional.None[float64]()

	b.trades = append(b.trades, types.Trade{
		Time:       bar.Time,
		Symbol:     bar.Symbol,
		Side:       types.PurchaseTypeSell,
		Price:      price,
		Shares:     shares,
		Commission: commission,
		Profit:     optional.Some(profitDec.InexactFloat64()),
		ProfitPct:  optional.Some(profitPctDec.InexactFloat64()),
		Reason:     reason,
	})
}

// Position returns a copy of the current account.
func (b *BacktestState) Position() types.Position {
	return b.position
}

func (b *BacktestState) Trades() []types.Trade {
	return b.trades
}

func (b *BacktestState) EquityCurve() []types.EquityPoint {
	return b.equity
}
