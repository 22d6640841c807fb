package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-backtest/internal/analysis"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/results"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func indicatorsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	fmt.Println(renderIndicators(s.analysis.Series, s.analysis.Indicators, int(cmd.Int("tail"))))

	return nil
}

func signalsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	fmt.Println(renderLatest(s.analysis.Latest))

	return nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	strategyName := cmd.String("strategy")
	series := s.analysis.Series

	bar := progressbar.Default(int64(len(series)), "simulating "+strategyName)
	onProcessData := engine.OnProcessDataCallback(func(current int, total int) error {
		return bar.Set(current)
	})

	result, err := s.service.RunBacktestWithCallbacks(
		ctx,
		series,
		s.analysis.Indicators,
		strategyName,
		s.config.Backtest.InitialCapital,
		s.config.Backtest.Commission,
		engine.LifecycleCallbacks{OnProcessData: &onProcessData},
	)
	if err != nil {
		return err
	}

	if err := bar.Finish(); err != nil {
		return err
	}

	fmt.Println(renderReport(strategyName, result.Report))
	fmt.Println(renderTrades(result.Trades))

	if output := cmd.String("output"); output != "" {
		return exportRun(ctx, s, output, strategyName, result)
	}

	return nil
}

func exportRun(ctx context.Context, s *session, folder string, strategyName string, result engine.Result) error {
	writer, err := results.NewWriter(s.log)
	if err != nil {
		return err
	}
	defer writer.Close()

	info, err := writer.Write(ctx, folder, strategyName, s.analysis.Series, result)
	if err != nil {
		return err
	}

	fmt.Println(HelpStyle.Render(fmt.Sprintf("run %s exported to %s", info.ID, info.TradesFilePath)))

	return nil
}

func compareAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	names := cmd.StringSlice("strategies")
	if len(names) == 0 {
		names = s.service.Strategies()
	}

	bar := progressbar.Default(int64(len(names)), "comparing strategies")

	compared, err := s.service.CompareStrategies(
		ctx,
		s.analysis.Series,
		s.analysis.Indicators,
		names,
		s.config.Backtest.InitialCapital,
		s.config.Backtest.Commission,
		advance(bar, s.log),
	)
	if err != nil {
		return err
	}

	if err := bar.Finish(); err != nil {
		return err
	}

	fmt.Println(renderComparison(compared))

	if best, ok := bestStrategy(compared); ok {
		fmt.Println(TitleStyle.Render(fmt.Sprintf("best: %s (%.2f%%)", best.Strategy, best.Result.Report.TotalReturnPct)))
	}

	return nil
}

// bestStrategy returns the result with the highest total return.
func bestStrategy(compared []analysis.StrategyResult) (analysis.StrategyResult, bool) {
	if len(compared) == 0 {
		return analysis.StrategyResult{}, false
	}

	best := compared[0]
	for _, r := range compared[1:] {
		if r.Result.Report.TotalReturnPct > best.Result.Report.TotalReturnPct {
			best = r
		}
	}

	return best, true
}

func compareSymbolsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newBaseSession(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	source, err := s.openSource(cmd)
	if err != nil {
		return err
	}
	defer source.Close()

	converter, err := buildConverter(cmd)
	if err != nil {
		return err
	}

	symbols := cmd.StringSlice("symbols")
	if len(symbols) == 0 {
		symbols, err = source.Symbols(ctx)
		if err != nil {
			return err
		}
	}

	strategyName := cmd.String("strategy")
	bar := progressbar.Default(int64(len(symbols)), "comparing symbols")

	compared, err := s.service.CompareSymbols(
		ctx,
		source,
		windowQuery(cmd),
		symbols,
		converter,
		strategyName,
		s.config.Backtest.InitialCapital,
		s.config.Backtest.Commission,
		advance(bar, s.log),
	)
	if err != nil {
		return err
	}

	if err := bar.Finish(); err != nil {
		return err
	}

	fmt.Println(renderSymbolComparison(strategyName, compared))

	if best, ok := bestSymbol(compared); ok {
		fmt.Println(TitleStyle.Render(fmt.Sprintf("best: %s (%.2f%%)", best.Symbol, best.Result.Report.TotalReturnPct)))
	}

	return nil
}

func historyAction(ctx context.Context, cmd *cli.Command) error {
	runs, err := results.List(cmd.String("output"), cmd.String("symbol"), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	fmt.Println(renderHistory(runs))

	return nil
}

// advance steps bar once per finished run. A failed terminal write is logged, never fatal to the run.
func advance(bar *progressbar.ProgressBar, log *logger.Logger) func(string) {
	return func(name string) {
		if err := bar.Add(1); err != nil {
			log.Debug("Failed to update progress bar", zap.String("run", name), zap.Error(err))
		}
	}
}

// bestSymbol returns the symbol result with the highest total return.
func bestSymbol(compared []analysis.SymbolResult) (analysis.SymbolResult, bool) {
	if len(compared) == 0 {
		return analysis.SymbolResult{}, false
	}

	best := compared[0]
	for _, r := range compared[1:] {
		if r.Result.Report.TotalReturnPct > best.Result.Report.TotalReturnPct {
			best = r
		}
	}

	return best, true
}
