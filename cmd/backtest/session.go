package main

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/analysis"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/config"
	"github.com/rxtech-lab/argo-backtest/internal/currency"
	"github.com/rxtech-lab/argo-backtest/internal/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
)

// session is the state shared by every subcommand: the resolved config, the service and the loaded data.
type session struct {
	config   config.Config
	log      *logger.Logger
	service  *analysis.Service
	analysis analysis.Analysis
}

func newSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	s, err := newBaseSession(cmd)
	if err != nil {
		return nil, err
	}

	source, err := s.openSource(cmd)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	query, err := buildQuery(ctx, cmd, source)
	if err != nil {
		return nil, err
	}

	converter, err := buildConverter(cmd)
	if err != nil {
		return nil, err
	}

	s.analysis, err = s.service.AnalyzeSource(ctx, source, query, converter)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// newBaseSession resolves the config, logger and service without loading any data.
func newBaseSession(cmd *cli.Command) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	level := zapcore.WarnLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	service, err := analysis.NewService(log,
		analysis.WithIndicatorConfig(cfg.Indicators),
		analysis.WithEngineConfig(cfg.Backtest),
	)
	if err != nil {
		return nil, err
	}

	return &session{
		config:  cfg,
		log:     log,
		service: service,
	}, nil
}

// openSource loads the --data file into an in-memory DuckDB. The caller closes it.
func (s *session) openSource(cmd *cli.Command) (datasource.DataSource, error) {
	path := cmd.String("data")
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "--data is required for this command")
	}

	source, err := datasource.NewDataSource(":memory:", s.log)
	if err != nil {
		return nil, err
	}

	if err := source.Initialize(path); err != nil {
		source.Close()

		return nil, err
	}

	return source, nil
}

// resolveConfig loads the config file, if any, and applies command line overrides.
func resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if cmd.IsSet("capital") {
		cfg.Backtest.InitialCapital = cmd.Float("capital")
	}

	if cmd.IsSet("commission") {
		cfg.Backtest.Commission = cmd.Float("commission")
	}

	if cmd.IsSet("broker") {
		cfg.Backtest.Broker = commission_fee.Broker(cmd.String("broker"))
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// buildQuery turns the data flags into a query, picking the only symbol when none is given.
func buildQuery(ctx context.Context, cmd *cli.Command, source datasource.DataSource) (datasource.Query, error) {
	query := windowQuery(cmd)

	symbol := cmd.String("symbol")
	if symbol == "" {
		symbols, err := source.Symbols(ctx)
		if err != nil {
			return datasource.Query{}, err
		}

		if len(symbols) != 1 {
			return datasource.Query{}, fmt.Errorf("data holds %d symbols %v, pick one with --symbol", len(symbols), symbols)
		}

		symbol = symbols[0]
	}

	query.Symbol = optional.Some(symbol)

	return query, nil
}

// windowQuery applies the date range and interval flags.
func windowQuery(cmd *cli.Command) datasource.Query {
	query := datasource.Query{}

	if cmd.IsSet("from") {
		query.Start = optional.Some(cmd.Timestamp("from"))
	}

	if cmd.IsSet("to") {
		query.End = optional.Some(cmd.Timestamp("to"))
	}

	if interval := cmd.String("interval"); interval != "" {
		query.Interval = optional.Some(datasource.Interval(interval))
	}

	return query
}

func buildConverter(cmd *cli.Command) (currency.Converter, error) {
	from := cmd.String("source-currency")

	to := cmd.String("currency")
	if to == "" || to == from {
		return currency.Identity(from), nil
	}

	return currency.NewConverter(from, to, cmd.Float("rate"))
}
