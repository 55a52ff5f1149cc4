package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delegation_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delegation_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// StatsSavesTotal counts successful saves per statistics kind
	// (structural, province, sites).
	StatsSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delegation_stats_saves_total",
			Help: "Total successful statistics saves",
		},
		[]string{"kind"},
	)

	// ClampedValuesTotal counts submitted figures floored to zero.
	ClampedValuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delegation_stats_clamped_values_total",
			Help: "Total submitted values clamped to zero",
		},
		[]string{"kind"},
	)

	DisplayTotalsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delegation_display_totals_served_total",
			Help: "Display totals computed, by data source",
		},
		[]string{"source"},
	)
)
