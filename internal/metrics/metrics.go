// Package metrics exposes Prometheus collectors for the feed service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchesTotal           *prometheus.CounterVec
	fetchRetriesTotal      prometheus.Counter
	recordsTotal           *prometheus.CounterVec
	recordsDroppedTotal    *prometheus.CounterVec
	resolutionMissesTotal  *prometheus.CounterVec
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDurationSec *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "footfeed_fetches_total",
				Help: "Total upstream fetches, labeled by payload kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		fetchRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "footfeed_fetch_retries_total",
				Help: "Total fetch attempts beyond the first.",
			},
		)

		recordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "footfeed_records_total",
				Help: "Total records extracted, labeled by record type.",
			},
			[]string{"type"},
		)

		recordsDroppedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "footfeed_records_dropped_total",
				Help: "Records dropped because a mandatory field was missing.",
			},
			[]string{"type"},
		)

		resolutionMissesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "footfeed_resolution_misses_total",
				Help: "Fuzzy resolutions that found no candidate above cutoff.",
			},
			[]string{"field"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSec = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch increments the fetch counter for the given payload kind.
func ObserveFetch(kind string, err error) {
	Init()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	fetchesTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveRetry counts a retried fetch attempt.
func ObserveRetry() {
	Init()
	fetchRetriesTotal.Inc()
}

// ObserveRecords counts extracted records of the given type.
func ObserveRecords(recordType string, n int) {
	Init()
	if n > 0 {
		recordsTotal.WithLabelValues(recordType).Add(float64(n))
	}
}

// ObserveDroppedRecord counts a record dropped for a missing mandatory field.
func ObserveDroppedRecord(recordType string) {
	Init()
	recordsDroppedTotal.WithLabelValues(recordType).Inc()
}

// ObserveResolutionMiss counts a fuzzy match that stayed below cutoff.
func ObserveResolutionMiss(field string) {
	Init()
	resolutionMissesTotal.WithLabelValues(field).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSec.WithLabelValues(method, route).Observe(duration.Seconds())
}
