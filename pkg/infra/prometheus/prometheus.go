package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"method", "route", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gatekeeper_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitDecisions = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_ratelimit_decisions_total",
			Help: "Rate limit decisions by limiter and outcome",
		},
		[]string{"limiter", "outcome"},
	)

	RateLimitStoreErrors = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_ratelimit_store_errors_total",
			Help: "Rate limit store failures, requests were let through",
		},
		[]string{"limiter"},
	)

	RateLimitSwept = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_ratelimit_swept_entries_total",
			Help: "Expired rate limit entries removed by the sweeper",
		},
		[]string{"limiter"},
	)

	RateLimitEntries = promauto.With(registerer).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gatekeeper_ratelimit_entries",
			Help: "Live rate limit entries after the last sweep",
		},
		[]string{"limiter"},
	)

	SecurityEvents = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_security_events_total",
			Help: "Security events recorded by type and severity",
		},
		[]string{"type", "severity"},
	)

	SinkFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_audit_sink_failures_total",
			Help: "Audit sink deliveries that failed or panicked",
		},
		[]string{"sink"},
	)

	SinkDropped = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "gatekeeper_audit_sink_dropped_total",
			Help: "Audit deliveries dropped because the dispatch queue was full",
		},
	)
)

type MetricsConfig struct {
	Enabled bool
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

func Gatherer() prometheus.Gatherer {
	return registry
}
