package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/currency"
	"github.com/rxtech-lab/argo-backtest/internal/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "backtest",
		Usage:   "Compute technical indicators, trading signals and strategy backtests from OHLCV files",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config with `backtest` and `indicators` sections",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to a parquet or CSV file with time, symbol, open, high, low, close and volume columns",
			},
			&cli.StringFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Symbol to load, or to filter history by. Required when the file holds more than one",
			},
			&cli.TimestampFlag{
				Name:  "from",
				Usage: "Only load bars at or after this `YYYY-MM-DD` date",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:  "to",
				Usage: "Only load bars at or before this `YYYY-MM-DD` date",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: fmt.Sprintf("Resample bars before analysis (e.g., %s, %s)", datasource.Interval1h, datasource.Interval1d),
			},
			&cli.StringFlag{
				Name:  "currency",
				Usage: "Convert prices into this currency before analysis",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Conversion rate from the source currency to --currency",
				Value: currency.DefaultUSDToINR,
			},
			&cli.StringFlag{
				Name:  "source-currency",
				Usage: "Currency the data file is quoted in",
				Value: "USD",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "indicators",
				Usage:  "Print the most recent indicator values",
				Action: indicatorsAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "tail",
						Usage: "Number of trailing bars to print",
						Value: 5,
					},
				},
			},
			{
				Name:   "signals",
				Usage:  "Print every strategy's decision and the indicator labels for the last bar",
				Action: signalsAction,
			},
			{
				Name:   "run",
				Usage:  "Backtest a single strategy",
				Action: runAction,
				Flags: append(simulationFlags(),
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"S"},
						Usage:   fmt.Sprintf("Strategy to simulate (%s)", strings.Join(strategy.NewDefaultRegistry().Names(), ", ")),
						Value:   strategy.RSIMACDName,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Folder to export trades, equity curve and stats into",
					},
				),
			},
			{
				Name:   "compare",
				Usage:  "Backtest several strategies concurrently over the same data",
				Action: compareAction,
				Flags: append(simulationFlags(),
					&cli.StringSliceFlag{
						Name:  "strategies",
						Usage: "Strategies to compare. Defaults to all registered strategies",
					},
				),
			},
			{
				Name:   "compare-symbols",
				Usage:  "Backtest one strategy on every symbol in the data and rank them",
				Action: compareSymbolsAction,
				Flags: append(simulationFlags(),
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"S"},
						Usage:   fmt.Sprintf("Strategy to simulate (%s)", strings.Join(strategy.NewDefaultRegistry().Names(), ", ")),
						Value:   strategy.RSIMACDName,
					},
					&cli.StringSliceFlag{
						Name:  "symbols",
						Usage: "Symbols to compare. Defaults to every symbol in the data",
					},
				),
			},
			{
				Name:   "history",
				Usage:  "List runs previously exported with run --output, newest first",
				Action: historyAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Folder the runs were exported into",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list. Zero lists every run",
						Value: 10,
					},
				},
			},
		},
	}
}

// simulationFlags override the capital and commission from the config file.
func simulationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:  "capital",
			Usage: "Initial capital",
		},
		&cli.FloatFlag{
			Name:  "commission",
			Usage: "Commission as a fraction of the traded notional",
		},
		&cli.StringFlag{
			Name:  "broker",
			Usage: fmt.Sprintf("Commission model (%s, %s, %s)", commission_fee.BrokerPercentage, commission_fee.BrokerInteractiveBroker, commission_fee.BrokerZero),
		},
	}
}
