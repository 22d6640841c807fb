// Package metrics exposes Prometheus instrumentation for indicator computation and backtest runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "argo_backtest"

// Metrics holds the collectors recorded by the analysis service.
type Metrics struct {
	// labels: strategy, status=ok|error
	RunsTotal *prometheus.CounterVec
	// labels: strategy, side
	TradesTotal *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	// IndicatorComputeDur observes one full indicator pass over a series.
	IndicatorComputeDur prometheus.Histogram
	BarsProcessed       prometheus.Counter
	// labels: operation
	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered, which is handy for tests and one-off CLI runs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total backtest runs by strategy and outcome",
		}, []string{"strategy", "status"}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Total simulated trades by strategy and side",
		}, []string{"strategy", "side"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Backtest run latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		IndicatorComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "indicator_compute_duration_seconds",
			Help:      "Time to compute all indicators for a series",
			Buckets:   prometheus.DefBuckets,
		}),
		BarsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bars_processed_total",
			Help:      "Total bars fed through the simulator",
		}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total failed operations",
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RunsTotal,
			m.TradesTotal,
			m.RunDuration,
			m.IndicatorComputeDur,
			m.BarsProcessed,
			m.ErrorsTotal,
		)
	}

	return m
}

// ObserveIndicators records the duration of an indicator pass started at start.
func (m *Metrics) ObserveIndicators(start time.Time, err error) {
	m.IndicatorComputeDur.Observe(time.Since(start).Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("indicators").Inc()
	}
}

// ObserveRun records the outcome of one strategy run.
func (m *Metrics) ObserveRun(strategy string, start time.Time, bars int, buys int, sells int, err error) {
	m.RunDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())

	if err != nil {
		m.RunsTotal.WithLabelValues(strategy, "error").Inc()
		m.ErrorsTotal.WithLabelValues("run").Inc()

		return
	}

	m.RunsTotal.WithLabelValues(strategy, "ok").Inc()
	m.TradesTotal.WithLabelValues(strategy, "BUY").Add(float64(buys))
	m.TradesTotal.WithLabelValues(strategy, "SELL").Add(float64(sells))
	m.BarsProcessed.Add(float64(bars))
}
