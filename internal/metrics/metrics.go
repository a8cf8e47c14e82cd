// Package metrics provides Prometheus metrics for the completion pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	CompletionsTotal   *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	CompletionTokens   *prometheus.CounterVec
	EnrichmentsTotal   *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
}

// New creates the metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CompletionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aipartner_completions_total",
				Help: "Total number of completion requests",
			},
			[]string{"provider", "status"},
		),
		CompletionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aipartner_completion_duration_seconds",
				Help:    "Duration of completion requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		CompletionTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aipartner_completion_tokens_total",
				Help: "Total tokens reported by completion backends",
			},
			[]string{"provider"},
		),
		EnrichmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aipartner_enrichments_total",
				Help: "Total number of enrichment attempts by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aipartner_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "status"},
		),
	}
}

// ObserveCompletion records one completion call.
func (m *Metrics) ObserveCompletion(provider string, err error, duration time.Duration, tokens int) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CompletionsTotal.WithLabelValues(provider, status).Inc()
	m.CompletionDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if tokens > 0 {
		m.CompletionTokens.WithLabelValues(provider).Add(float64(tokens))
	}
}

// ObserveEnrichment records one enrichment attempt.
func (m *Metrics) ObserveEnrichment(tool, outcome string) {
	m.EnrichmentsTotal.WithLabelValues(tool, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
