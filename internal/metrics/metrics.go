// Package metrics exposes Prometheus instruments for provider calls,
// conversions and snapshot refreshes.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/guttosm/adrpulse/internal/domain/models"
	"github.com/guttosm/adrpulse/internal/provider"
	"github.com/guttosm/adrpulse/internal/spread"
)

const namespace = "adrpulse"

// Metrics holds every instrument registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	ProviderFetchTotal    *prometheus.CounterVec
	ProviderFetchDuration *prometheus.HistogramVec
	ConversionsTotal      *prometheus.CounterVec
	LastSpreadPercent     prometheus.Gauge
	SnapshotRefreshTotal  *prometheus.CounterVec
	QuotaCallsToday       prometheus.GaugeFunc
}

// New registers all instruments on a fresh registry. quota may be nil.
func New(quota func() models.QuotaUsage) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		ProviderFetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fetch_total",
				Help:      "Upstream market-data calls by source and outcome",
			},
			[]string{"source", "outcome"},
		),

		ProviderFetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_fetch_duration_seconds",
				Help:      "Latency of upstream market-data calls",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms .. 12.8s
			},
			[]string{"source"},
		),

		ConversionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Conversions computed, by outcome",
			},
			[]string{"outcome"},
		),

		LastSpreadPercent: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_spread_percent",
				Help:      "Spread percent of the most recent conversion that had an actual price",
			},
		),

		SnapshotRefreshTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_refresh_total",
				Help:      "Price snapshot refreshes by resulting source",
			},
			[]string{"source"},
		),
	}

	if quota != nil {
		m.QuotaCallsToday = f.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "market_api_calls_today",
				Help:      "Metered market-data API calls consumed today",
			},
			func() float64 { return float64(quota().Calls) },
		)
	}
	return m
}

// Registry returns the registry to expose through promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFetch records one upstream call.
func (m *Metrics) ObserveFetch(source string, err error, elapsed time.Duration) {
	m.ProviderFetchTotal.WithLabelValues(source, fetchOutcome(err)).Inc()
	m.ProviderFetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveConversion records a conversion and, when it carried an actual
// price, the resulting spread.
func (m *Metrics) ObserveConversion(res models.ConversionResult, err error) {
	switch {
	case err == nil:
		m.ConversionsTotal.WithLabelValues("ok").Inc()
		if res.HasSpread {
			m.LastSpreadPercent.Set(res.SpreadPercent.InexactFloat64())
		}
	case errors.Is(err, spread.ErrInvalidInput):
		m.ConversionsTotal.WithLabelValues("invalid_input").Inc()
	case errors.Is(err, spread.ErrDivisionHazard):
		m.ConversionsTotal.WithLabelValues("division_hazard").Inc()
	default:
		m.ConversionsTotal.WithLabelValues("error").Inc()
	}
}

// ObserveRefresh records a snapshot refresh.
func (m *Metrics) ObserveRefresh(source string) {
	m.SnapshotRefreshTotal.WithLabelValues(source).Inc()
}

func fetchOutcome(err error) string {
	var apiErr *provider.APIError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, provider.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, provider.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, provider.ErrNoData):
		return "no_data"
	case errors.As(err, &apiErr):
		return "http_error"
	default:
		return "error"
	}
}
