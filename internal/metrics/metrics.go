// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_request"
	OutcomeUnavailable = "corpus_unavailable"
	OutcomeError       = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bioboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bioboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bioboard_recommendations_total",
			Help: "Meal recommendation calls by outcome",
		},
		[]string{"outcome"},
	)

	FilterFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bioboard_recommendation_filter_fallbacks_total",
			Help: "Recommendations where the dietary filter matched nothing and the full corpus was used",
		},
	)

	CatalogMeals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bioboard_catalog_meals",
			Help: "Number of meals in the loaded corpus",
		},
	)

	CatalogLoadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bioboard_catalog_load_total",
			Help: "Catalog loads by source",
		},
		[]string{"source"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation records a recommendation outcome and whether the
// dietary filter widened to the full corpus.
func RecordRecommendation(outcome string, fellBack bool) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	if fellBack {
		FilterFallbacksTotal.Inc()
	}
}

// RecordCatalogLoad records where the corpus came from and its size.
func RecordCatalogLoad(source string, meals int) {
	CatalogLoadTotal.WithLabelValues(source).Inc()
	CatalogMeals.Set(float64(meals))
}
