package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type PurchaseType string

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

type TradeReason string

const (
	// TradeReasonSignal marks a trade triggered by a strategy signal.
	TradeReasonSignal TradeReason = "signal"
	// TradeReasonEndOfRun marks the forced close of an open position on the final bar.
	TradeReasonEndOfRun TradeReason = "end_of_run"
)

// Trade is an executed simulated fill. Profit fields are only present on SELL trades.
type Trade struct {
	Time       time.Time    `csv:"time"`
	Symbol     string       `csv:"symbol"`
	Side       PurchaseType `csv:"side"`
	Price      float64      `csv:"price"`
	Shares     int64        `csv:"shares"`
	Commission float64      `csv:"commission"`
	// Profit is (exit price - entry price) * shares. Commission is not deducted.
	Profit optional.Option[float64] `csv:"profit"`
	// ProfitPct is (exit price - entry price) / entry price * 100.
	ProfitPct optional.Option[float64] `csv:"profit_pct"`
	Reason    TradeReason              `csv:"reason"`
}

// IsClosing reports whether the trade closed a position and carries profit fields.
func (t Trade) IsClosing() bool {
	return t.Side == PurchaseTypeSell && t.Profit.IsSome()
}

// Position is the simulator's account state. At most one long position is open at a time.
type Position struct {
	Cash       float64
	SharesHeld int64
	// EntryPrice is only present while SharesHeld > 0.
	EntryPrice optional.Option[float64]
}

// IsOpen reports whether shares are currently held.
func (p Position) IsOpen() bool {
	return p.SharesHeld > 0
}

// Value marks the position to the given price.
func (p Position) Value(price float64) float64 {
	return p.Cash + float64(p.SharesHeld)*price
}

// EquityPoint is the portfolio value after processing one bar.
type EquityPoint struct {
	Time  time.Time `yaml:"time" json:"time" csv:"time"`
	Value float64   `yaml:"value" json:"value" csv:"value"`
}
