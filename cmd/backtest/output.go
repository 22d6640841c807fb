package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-backtest/internal/analysis"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// BuyStyle and SellStyle highlight actionable signals.
	BuyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	SellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

const timeLayout = "2006-01-02 15:04"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(HelpStyle).
		Headers(headers...)
}

func formatValue(value types.Column, i int) string {
	v := value.At(i)
	if v.IsNone() {
		return "-"
	}

	return fmt.Sprintf("%.4f", v.Unwrap())
}

func formatSignal(signal types.SignalType) string {
	switch signal {
	case types.SignalTypeBuy:
		return BuyStyle.Render(string(signal))
	case types.SignalTypeSell:
		return SellStyle.Render(string(signal))
	default:
		return string(signal)
	}
}

// renderIndicators prints the last tail bars with every indicator column.
func renderIndicators(series types.Series, set types.IndicatorSet, tail int) string {
	headers := []string{"Time", "Close"}
	for _, name := range types.AllIndicatorNames {
		headers = append(headers, string(name))
	}

	t := newTable(headers...)

	start := max(len(series)-tail, 0)
	for i := start; i < len(series); i++ {
		row := []string{series[i].Time.Format(timeLayout), fmt.Sprintf("%.2f", series[i].Close)}

		for _, name := range types.AllIndicatorNames {
			column, _ := set.Column(name)
			row = append(row, formatValue(column, i))
		}

		t.Row(row...)
	}

	return TitleStyle.Render(fmt.Sprintf("%s indicators", series.Symbol())) + "\n" + t.Render()
}

// renderLatest prints the latest indicator readings, their labels and each strategy's decision.
func renderLatest(latest types.LatestSignals) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s @ %s  close %.2f", latest.Symbol, latest.Time.Format(timeLayout), latest.Close)))
	b.WriteString("\n")

	values := newTable("Indicator", "Value")
	for _, name := range types.AllIndicatorNames {
		if v, ok := latest.Indicators[name]; ok {
			values.Row(string(name), fmt.Sprintf("%.4f", v))
		}
	}

	b.WriteString(values.Render())
	b.WriteString("\n")

	labels := newTable("Reading", "Label")
	for _, key := range sortedKeys(latest.Labels) {
		labels.Row(key, latest.Labels[key])
	}

	b.WriteString(labels.Render())
	b.WriteString("\n")

	strategies := newTable("Strategy", "Signal")
	for _, name := range sortedKeys(latest.Strategies) {
		strategies.Row(name, formatSignal(latest.Strategies[name]))
	}

	b.WriteString(strategies.Render())

	return b.String()
}

// renderReport prints the performance summary of one run.
func renderReport(strategyName string, report types.BacktestReport) string {
	t := newTable("Metric", "Value").
		Row("Initial capital", fmt.Sprintf("%.2f", report.InitialCapital)).
		Row("Final value", fmt.Sprintf("%.2f", report.FinalValue)).
		Row("Total return", fmt.Sprintf("%.2f (%.2f%%)", report.TotalReturn, report.TotalReturnPct)).
		Row("Trades", fmt.Sprintf("%d (%d buy / %d sell)", report.TotalTrades, report.BuyTrades, report.SellTrades)).
		Row("Win rate", fmt.Sprintf("%.2f%%", report.WinRate)).
		Row("Avg profit", fmt.Sprintf("%.2f", report.AvgProfit)).
		Row("Avg loss", fmt.Sprintf("%.2f", report.AvgLoss)).
		Row("Max drawdown", fmt.Sprintf("%.2f%%", report.MaxDrawdownPct)).
		Row("Sharpe ratio", fmt.Sprintf("%.4f", report.SharpeRatio)).
		Row("Fees", fmt.Sprintf("%.2f", report.TotalFees))

	return TitleStyle.Render(strategyName) + "\n" + t.Render()
}

// renderTrades lists executed trades in order.
func renderTrades(trades []types.Trade) string {
	t := newTable("Time", "Side", "Shares", "Price", "Commission", "Profit", "Reason")

	for _, trade := range trades {
		profit := "-"
		if trade.Profit.IsSome() {
			profit = fmt.Sprintf("%.2f (%.2f%%)", trade.Profit.Unwrap(), trade.ProfitPct.TakeOr(0))
		}

		t.Row(
			trade.Time.Format(timeLayout),
			string(trade.Side),
			fmt.Sprintf("%d", trade.Shares),
			fmt.Sprintf("%.2f", trade.Price),
			fmt.Sprintf("%.2f", trade.Commission),
			profit,
			string(trade.Reason),
		)
	}

	return t.Render()
}

// renderComparison ranks strategies by total return, best first.
func renderComparison(results []analysis.StrategyResult) string {
	ranked := make([]analysis.StrategyResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Report.TotalReturnPct > ranked[j].Result.Report.TotalReturnPct
	})

	t := newTable("Strategy", "Final value", "Return %", "Trades", "Win rate %", "Max DD %", "Sharpe")

	for _, r := range ranked {
		report := r.Result.Report
		t.Row(
			r.Strategy,
			fmt.Sprintf("%.2f", report.FinalValue),
			fmt.Sprintf("%.2f", report.TotalReturnPct),
			fmt.Sprintf("%d", report.TotalTrades),
			fmt.Sprintf("%.2f", report.WinRate),
			fmt.Sprintf("%.2f", report.MaxDrawdownPct),
			fmt.Sprintf("%.4f", report.SharpeRatio),
		)
	}

	return t.Render()
}

func renderSymbolComparison(strategyName string, results []analysis.SymbolResult) string {
	ranked := make([]analysis.SymbolResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Report.TotalReturnPct > ranked[j].Result.Report.TotalReturnPct
	})

	t := newTable("Symbol", "Last close", "Final value", "Return %", "Trades", "Win rate %", "Max DD %", "Sharpe")

	for _, r := range ranked {
		report := r.Result.Report
		last := "-"

		if bar, ok := r.Analysis.Series.Last(); ok {
			last = fmt.Sprintf("%.2f", bar.Close)
		}

		t.Row(
			r.Symbol,
			last,
			fmt.Sprintf("%.2f", report.FinalValue),
			fmt.Sprintf("%.2f", report.TotalReturnPct),
			fmt.Sprintf("%d", report.TotalTrades),
			fmt.Sprintf("%.2f", report.WinRate),
			fmt.Sprintf("%.2f", report.MaxDrawdownPct),
			fmt.Sprintf("%.4f", report.SharpeRatio),
		)
	}

	return TitleStyle.Render(strategyName+" by symbol") + "\n" + t.Render()
}

func renderHistory(runs []types.RunStats) string {
	if len(runs) == 0 {
		return HelpStyle.Render("no stored runs")
	}

	t := newTable("Run", "Written", "Symbol", "Strategy", "Return %", "Trades", "Sharpe", "Version")

	for _, r := range runs {
		t.Row(
			r.Run.ID,
			r.Run.Timestamp.Format(timeLayout),
			r.Run.Symbol,
			r.Run.Strategy,
			fmt.Sprintf("%.2f", r.Report.TotalReturnPct),
			fmt.Sprintf("%d", r.Report.TotalTrades),
			fmt.Sprintf("%.4f", r.Report.SharpeRatio),
			r.Run.Version,
		)
	}

	return t.Render()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
