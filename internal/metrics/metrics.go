// Package metrics exposes Prometheus collectors for the catalog pipeline and HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
	OutcomeSkipped = "skipped"
)

var (
	// fetchTotal counts collaborator fetches by category, source and outcome.
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_fetch_total",
		Help: "Total number of catalog fetches by category, source and outcome",
	}, []string{"category", "source", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_fetch_duration_seconds",
		Help:    "Time taken to fetch a category from its source",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
	}, []string{"category", "source"})

	// catalogProducts is the size of each category branch after replacement.
	catalogProducts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Number of products held per category",
	}, []string{"category"})

	catalogLoading = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storefront_catalog_loading",
		Help: "1 while a category is still loading, 0 once its fetch resolved",
	}, []string{"category"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// Recorder records storefront metrics
type Recorder struct{}

// NewRecorder creates a new metrics recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordFetch records one collaborator fetch
func (r *Recorder) RecordFetch(category, source, outcome string, duration time.Duration) {
	fetchTotal.WithLabelValues(category, source, outcome).Inc()
	fetchDuration.WithLabelValues(category, source).Observe(duration.Seconds())
}

// RecordCatalog records a category snapshot
func (r *Recorder) RecordCatalog(category string, products int, loading bool) {
	catalogProducts.WithLabelValues(category).Set(float64(products))
	if loading {
		catalogLoading.WithLabelValues(category).Set(1)
	} else {
		catalogLoading.WithLabelValues(category).Set(0)
	}
}

// RecordRequest records a served HTTP request
func (r *Recorder) RecordRequest(route, method, status string, duration time.Duration) {
	httpRequests.WithLabelValues(route, method, status).Inc()
	httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}
