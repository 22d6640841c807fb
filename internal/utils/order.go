package utils

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
)

// CalculateBuyShares returns floor(cash/price), or zero when that order plus its fee would overdraw cash.
// The order is never shrunk to make room for the fee.
func CalculateBuyShares(cash float64, price float64, commissionFee commission_fee.CommissionFee) int64 {
	if price <= 0 || cash <= 0 {
		return 0
	}

	shares := int64(math.Floor(cash / price))
	if shares == 0 {
		return 0
	}

	if float64(shares)*price+commissionFee.Calculate(shares, price) > cash {
		return 0
	}

	return shares
}
