package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BacktestReport summarizes a completed run. It is created once and never mutated.
type BacktestReport struct {
	// Starting cash of the run.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	// Last equity point, or the initial capital for an empty curve.
	FinalValue float64 `yaml:"final_value" json:"final_value"`
	// FinalValue - InitialCapital.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// TotalReturn / InitialCapital * 100.
	TotalReturnPct float64 `yaml:"total_return_pct" json:"total_return_pct"`
	// Count of all trades.
	TotalTrades int `yaml:"total_trades" json:"total_trades"`
	BuyTrades   int `yaml:"buy_trades" json:"buy_trades"`
	SellTrades  int `yaml:"sell_trades" json:"sell_trades"`
	// Count of closing trades with positive profit.
	ProfitableTrades int `yaml:"profitable_trades" json:"profitable_trades"`
	// Count of closing trades with negative profit.
	LosingTrades int `yaml:"losing_trades" json:"losing_trades"`
	// Percentage of closing trades with positive profit.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Mean profit of winning closes.
	AvgProfit float64 `yaml:"avg_profit" json:"avg_profit"`
	// Mean profit of losing closes (negative).
	AvgLoss float64 `yaml:"avg_loss" json:"avg_loss"`
	// Largest peak-to-trough decline of the equity curve in percent.
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct" json:"max_drawdown_pct"`
	// Annualized Sharpe ratio of per-bar equity returns.
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// Sum of commission paid on every trade.
	TotalFees float64 `yaml:"total_fees" json:"total_fees"`
}

// RunInfo identifies a persisted backtest run.
type RunInfo struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when the results were written.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	Strategy  string    `yaml:"strategy" json:"strategy"`
	// Version of the engine that produced the run.
	Version string `yaml:"version" json:"version"`
	// TradesFilePath is the path to the trades parquet file.
	TradesFilePath string `yaml:"trades_file_path" json:"trades_file_path"`
	// EquityFilePath is the path to the equity curve parquet file.
	EquityFilePath string `yaml:"equity_file_path" json:"equity_file_path"`
}

// RunStats is the document written to stats.yaml for each run.
type RunStats struct {
	Run    RunInfo        `yaml:"run" json:"run"`
	Report BacktestReport `yaml:"report" json:"report"`
}

func WriteRunStats(path string, stats RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}

// ReadRunStats loads a stats.yaml document written by WriteRunStats.
func ReadRunStats(path string) (RunStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunStats{}, fmt.Errorf("failed to read run stats: %w", err)
	}

	var stats RunStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return RunStats{}, fmt.Errorf("failed to unmarshal run stats: %w", err)
	}

	return stats, nil
}
