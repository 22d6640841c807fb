// Package results persists completed backtest runs as parquet files plus a stats.yaml summary.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

const (
	TradesFileName = "trades.parquet"
	EquityFileName = "equity.parquet"
	StatsFileName  = "stats.yaml"
)

// Writer stages results in an in-memory DuckDB and exports them per run.
type Writer struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	// serializes exports so a COPY never sees a half-inserted run
	mu sync.Mutex
}

func NewWriter(logger *logger.Logger) (*Writer, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to open database", err)
	}

	w := &Writer{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := w.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return w, nil
}

// initialize creates the staging tables for trades and equity points
func (w *Writer) initialize() error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT,
			symbol TEXT,
			strategy_name TEXT,
			timestamp TIMESTAMP,
			side TEXT,
			price DOUBLE,
			shares BIGINT,
			commission DOUBLE,
			profit DOUBLE,
			profit_pct DOUBLE,
			reason TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to create trades table", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS equity (
			run_id TEXT,
			timestamp TIMESTAMP,
			value DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to create equity table", err)
	}

	return nil
}

// Write stores result under folder/<symbol>_<strategy>_<run id> and returns the run description.
func (w *Writer) Write(ctx context.Context, folder string, strategyName string, series types.Series, result engine.Result) (types.RunInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runID := uuid.New().String()
	symbol := series.Symbol()
	runFolder := filepath.Join(folder, fmt.Sprintf("%s_%s_%s", symbol, strategyName, runID))

	if err := os.MkdirAll(runFolder, 0755); err != nil {
		return types.RunInfo{}, errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to create directory", err)
	}

	if err := w.insert(ctx, runID, symbol, strategyName, result); err != nil {
		return types.RunInfo{}, err
	}

	info := types.RunInfo{
		ID:             runID,
		Timestamp:      time.Now().UTC(),
		Symbol:         symbol,
		Strategy:       strategyName,
		Version:        version.GetVersion(),
		TradesFilePath: filepath.Join(runFolder, TradesFileName),
		EquityFilePath: filepath.Join(runFolder, EquityFileName),
	}

	if err := w.export(ctx, "trades", runID, info.TradesFilePath); err != nil {
		return types.RunInfo{}, err
	}

	if err := w.export(ctx, "equity", runID, info.EquityFilePath); err != nil {
		return types.RunInfo{}, err
	}

	if err := types.WriteRunStats(filepath.Join(runFolder, StatsFileName), types.RunStats{Run: info, Report: result.Report}); err != nil {
		return types.RunInfo{}, errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to write stats", err)
	}

	w.logger.Info("Successfully exported backtest results",
		zap.String("run_id", runID),
		zap.String("folder", runFolder),
		zap.Int("trades", len(result.Trades)),
		zap.Int("equity_points", len(result.EquityCurve)),
	)

	return info, nil
}

func (w *Writer) insert(ctx context.Context, runID, symbol, strategyName string, result engine.Result) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to begin transaction", err)
	}

	for _, trade := range result.Trades {
		profit := sql.NullFloat64{Float64: trade.Profit.TakeOr(0), Valid: trade.Profit.IsSome()}
		profitPct := sql.NullFloat64{Float64: trade.ProfitPct.TakeOr(0), Valid: trade.ProfitPct.IsSome()}

		_, err := w.sq.
			Insert("trades").
			Columns(
				"run_id", "symbol", "strategy_name", "timestamp", "side", "price",
				"shares", "commission", "profit", "profit_pct", "reason",
			).
			Values(
				runID, symbol, strategyName, trade.Time, string(trade.Side), trade.Price,
				trade.Shares, trade.Commission, profit, profitPct, string(trade.Reason),
			).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to insert trade", err)
		}
	}

	for _, point := range result.EquityCurve {
		_, err := w.sq.
			Insert("equity").
			Columns("run_id", "timestamp", "value").
			Values(runID, point.Time, point.Value).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to insert equity point", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestResultFailed, "failed to commit transaction", err)
	}

	return nil
}

// export copies one run's rows to parquet. Squirrel doesn't support COPY, so the statement is raw SQL.
func (w *Writer) export(ctx context.Context, table, runID, path string) error {
	query := fmt.Sprintf(
		`COPY (SELECT * EXCLUDE (run_id) FROM %s WHERE run_id = '%s' ORDER BY timestamp) TO '%s' (FORMAT PARQUET)`,
		table, runID, strings.ReplaceAll(path, "'", "''"),
	)

	if _, err := w.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestResultFailed, err, "failed to export %s to parquet", table)
	}

	return nil
}

// Close releases the staging database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// Load reads a stats file written by Write and rejects runs recorded by an incompatible engine version.
func Load(statsPath string) (types.RunStats, error) {
	stats, err := types.ReadRunStats(statsPath)
	if err != nil {
		return types.RunStats{}, errors.Wrap(errors.ErrCodeDataNotFound, "failed to read stats", err)
	}

	if err := version.CheckCompatibility(version.GetVersion(), stats.Run.Version); err != nil {
		return types.RunStats{}, err
	}

	return stats, nil
}

// List returns the runs stored under folder, newest first. An empty symbol keeps every symbol and a
// non-positive limit keeps every run. Runs from other engine versions are listed; Load rejects them.
func List(folder string, symbol string, limit int) ([]types.RunStats, error) {
	paths, err := filepath.Glob(filepath.Join(folder, "*", StatsFileName))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid results folder", err)
	}

	runs := make([]types.RunStats, 0, len(paths))

	for _, path := range paths {
		stats, err := types.ReadRunStats(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
		}

		if symbol != "" && stats.Run.Symbol != symbol {
			continue
		}

		runs = append(runs, stats)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Run.Timestamp.After(runs[j].Run.Timestamp)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	return runs, nil
}
