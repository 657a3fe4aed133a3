package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stemcrate_http_requests_total",
			Help: "Total number of HTTP requests processed, by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stemcrate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and path.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stemcrate_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)
)

// Business Metrics
var (
	PacksOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stemcrate_packs_opened_total",
			Help: "Total number of packs resolved (cache hits excluded), by pack.",
		},
		[]string{"pack"},
	)

	DrawsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stemcrate_draws_resolved_total",
			Help: "Total number of item draws resolved, by rarity.",
		},
		[]string{"rarity"},
	)

	PityTriggered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stemcrate_pity_triggered_total",
			Help: "Total number of draws forced by the pity mechanic.",
		},
	)

	GuaranteesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stemcrate_guarantees_consumed_total",
			Help: "Total number of guarantee tokens consumed by openings.",
		},
	)

	CollectionsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stemcrate_collections_committed_total",
			Help: "Total number of pending openings committed.",
		},
	)

	UnlocksMaterialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stemcrate_unlocks_materialized_total",
			Help: "Total number of character unlock records inserted, by source.",
		},
		[]string{"source"},
	)
)
