package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SearchesTotal         *prometheus.CounterVec
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      prometheus.Histogram

	QuotaDenialsTotal *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_gateway_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "osint_gateway_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"path"},
		),
		RequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "osint_gateway_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		SearchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_gateway_searches_total",
				Help: "Total number of search attempts by type, country and outcome",
			},
			[]string{"search_type", "country", "status"},
		),
		UpstreamRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_gateway_upstream_requests_total",
				Help: "Total number of upstream search API requests",
			},
			[]string{"status"},
		),
		UpstreamDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "osint_gateway_upstream_request_duration_seconds",
				Help:    "Upstream search request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
		),

		QuotaDenialsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_gateway_quota_denials_total",
				Help: "Total number of quota denials by kind",
			},
			[]string{"kind"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(path, status).Inc()
	m.RequestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearch(searchType, country, status string) {
	m.SearchesTotal.WithLabelValues(searchType, country, status).Inc()
}

func (m *Metrics) RecordUpstreamRequest(status string, duration time.Duration) {
	m.UpstreamRequestsTotal.WithLabelValues(status).Inc()
	m.UpstreamDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordQuotaDenial(kind string) {
	m.QuotaDenialsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
