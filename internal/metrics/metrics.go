// Package metrics exposes Prometheus collectors for the page analyzer.
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

// Fetch outcomes recorded by ObserveFetch.
const (
	FetchSucceeded = "success"
	FetchFailed    = "error"
)

var (
	pageFetchTotal             *prometheus.CounterVec
	pagesCreatedTotal          prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pageFetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "page_fetch_total",
				Help: "Total number of upstream page fetches, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		pagesCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pages_created_total",
				Help: "Total number of page records persisted.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveFetch counts one upstream fetch with the given outcome.
func ObserveFetch(outcome string) {
	Init()
	pageFetchTotal.WithLabelValues(outcome).Inc()
}

// ObservePageCreated counts one persisted page.
func ObservePageCreated() {
	Init()
	pagesCreatedTotal.Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
