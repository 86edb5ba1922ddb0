// Package metrics exposes Prometheus instrumentation for analyses and the
// infrastructure they depend on.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devenn05/Crypto-signal-check/internal/adapters/breaker"
	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: direction, tier
	AnalysisFailures *prometheus.CounterVec // labels: reason
	AnalysisDuration prometheus.Histogram
	VerdictsTotal    *prometheus.CounterVec // labels: indicator, verdict
	StaleAnalyses    prometheus.Counter

	// Circuit breaker state: 0=closed, 1=open, 2=half-open
	BreakerState *prometheus.GaugeVec // labels: name
	BreakerTrips *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New builds the metrics and registers them with reg. A nil reg uses a
// fresh registry, which keeps tests independent of the global one.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalcheck_analyses_total",
			Help: "Completed analyses by direction and confidence tier",
		}, []string{"direction", "tier"}),
		AnalysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalcheck_analysis_failures_total",
			Help: "Failed analyses by failure class",
		}, []string{"reason"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalcheck_analysis_duration_seconds",
			Help:    "End-to-end analysis latency including market data fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		VerdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalcheck_indicator_verdicts_total",
			Help: "Indicator verdicts by indicator name and outcome",
		}, []string{"indicator", "verdict"}),
		StaleAnalyses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalcheck_stale_analyses_total",
			Help: "Analyses served from cached klines while the exchange was unreachable",
		}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signalcheck_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
		BreakerTrips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalcheck_circuit_breaker_trips_total",
			Help: "Transitions of a circuit breaker into the open state",
		}, []string{"name"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisFailures,
		m.AnalysisDuration,
		m.VerdictsTotal,
		m.StaleAnalyses,
		m.BreakerState,
		m.BreakerTrips,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveAnalysis records a completed analysis.
func (m *Metrics) ObserveAnalysis(a *domain.Analysis, stale bool, elapsed time.Duration) {
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.AnalysesTotal.WithLabelValues(string(a.Direction), string(a.Final.Tier)).Inc()
	for _, v := range a.Verdicts {
		m.VerdictsTotal.WithLabelValues(v.Name, string(v.Verdict)).Inc()
	}
	if stale {
		m.StaleAnalyses.Inc()
	}
}

// ObserveFailure records a failed analysis under reason.
func (m *Metrics) ObserveFailure(reason string, elapsed time.Duration) {
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.AnalysisFailures.WithLabelValues(reason).Inc()
}

// BreakerTransition records a breaker state change. Its signature matches
// breaker.Breaker.OnStateChange.
func (m *Metrics) BreakerTransition(name string, from, to breaker.State) {
	m.BreakerState.WithLabelValues(name).Set(float64(to))
	if to == breaker.StateOpen {
		m.BreakerTrips.WithLabelValues(name).Inc()
	}
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
