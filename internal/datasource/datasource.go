package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

// Query selects the bars to load. Unset fields do not filter.
type Query struct {
	Symbol optional.Option[string]
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
	// Interval resamples the stored bars into wider OHLCV buckets.
	Interval optional.Option[Interval]
}

type DataSource interface {
	// Initialize loads market data from a parquet or CSV file.
	Initialize(path string) error
	// ReadAll streams the bars matching q in time order.
	ReadAll(ctx context.Context, q Query) func(yield func(types.Bar, error) bool)
	// ReadSeries loads every bar matching q.
	ReadSeries(ctx context.Context, q Query) (types.Series, error)
	// Symbols lists the distinct symbols in the data.
	Symbols(ctx context.Context) ([]string, error)
	// Count returns the number of rows matching q.
	Count(ctx context.Context, q Query) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}
