// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route pattern, and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triptracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triptracker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// TripListQueries counts trip listing calls by scope (all, owned) and result (ok, error).
	TripListQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triptracker_trip_list_queries_total",
			Help: "Total number of trip listing queries",
		},
		[]string{"scope", "result"},
	)
	// TripListDuration covers both the page and the count query of a listing.
	TripListDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triptracker_trip_list_duration_seconds",
			Help:    "Trip listing latency in seconds, page and count combined",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)
)
