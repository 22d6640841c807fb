// Package stats derives the performance report of a completed backtest run.
package stats

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

const (
	// TradingDaysPerYear annualizes per-bar returns.
	TradingDaysPerYear = 252
	// DefaultRiskFreeRate is the annual risk-free rate used for the Sharpe ratio.
	DefaultRiskFreeRate = 0.02
)

// Analyze builds the report for a run. It does not modify its inputs.
func Analyze(initialCapital float64, trades []types.Trade, equity []types.EquityPoint, riskFreeRate float64) types.BacktestReport {
	report := types.BacktestReport{
		InitialCapital: initialCapital,
		FinalValue:     initialCapital,
		TotalTrades:    len(trades),
	}

	if len(equity) > 0 {
		report.FinalValue = equity[len(equity)-1].Value
	}

	report.TotalReturn = report.FinalValue - initialCapital
	if initialCapital != 0 {
		report.TotalReturnPct = report.TotalReturn / initialCapital * 100
	}

	fees := decimal.Zero
	wins := decimal.Zero
	losses := decimal.Zero
	closing := 0

	for _, trade := range trades {
		fees = fees.Add(decimal.NewFromFloat(trade.Commission))

		switch trade.Side {
		case types.PurchaseTypeBuy:
			report.BuyTrades++
		case types.PurchaseTypeSell:
			report.SellTrades++
		}

		if !trade.IsClosing() {
			continue
		}

		closing++

		profit := trade.Profit.Unwrap()

		switch {
		case profit > 0:
			report.ProfitableTrades++
			wins = wins.Add(decimal.NewFromFloat(profit))
		case profit < 0:
			report.LosingTrades++
			losses = losses.Add(decimal.NewFromFloat(profit))
		}
	}

	report.TotalFees = fees.InexactFloat64()

	if closing > 0 {
		report.WinRate = float64(report.ProfitableTrades) / float64(closing) * 100
	}

	if report.ProfitableTrades > 0 {
		report.AvgProfit = wins.Div(decimal.NewFromInt(int64(report.ProfitableTrades))).InexactFloat64()
	}

	if report.LosingTrades > 0 {
		report.AvgLoss = losses.Div(decimal.NewFromInt(int64(report.LosingTrades))).InexactFloat64()
	}

	report.MaxDrawdownPct = MaxDrawdownPct(equity)
	report.SharpeRatio = SharpeRatio(equity, riskFreeRate)

	return report
}

// MaxDrawdownPct returns the largest decline from a running peak, in percent of that peak.
func MaxDrawdownPct(equity []types.EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Value
	maxDrawdown := 0.0

	for _, point := range equity {
		if point.Value > peak {
			peak = point.Value
		}

		if peak <= 0 {
			continue
		}

		drawdown := (peak - point.Value) / peak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}

// Returns computes simple per-bar returns. A bar following a zero equity value has a return of 0.
func Returns(equity []types.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}

	returns := make([]float64, len(equity)-1)

	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			continue
		}

		returns[i-1] = (equity[i].Value - prev) / prev
	}

	return returns
}

// SharpeRatio annualizes the mean excess per-bar return over its sample standard deviation.
// It returns 0 for fewer than two returns or when returns do not vary.
func SharpeRatio(equity []types.EquityPoint, riskFreeRate float64) float64 {
	returns := Returns(equity)
	if len(returns) < 2 {
		return 0
	}

	// subtracting a constant leaves the deviation unchanged, so measure it on the raw returns
	mean, std := meanAndSampleStd(returns)
	if std == 0 {
		return 0
	}

	excess := mean - riskFreeRate/TradingDaysPerYear

	return math.Sqrt(TradingDaysPerYear) * excess / std
}

func meanAndSampleStd(values []float64) (float64, float64) {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	return mean, math.Sqrt(variance / float64(len(values)-1))
}
