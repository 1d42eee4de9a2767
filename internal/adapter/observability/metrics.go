package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	ScoringRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of scoring backend requests by path and outcome",
		},
		[]string{"path", "outcome"},
	)
	ScoringRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_request_duration_seconds",
			Help:    "Scoring backend request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"path"},
	)

	FortunesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fortunes_total",
			Help: "Total number of fortunes served by tier and data source",
		},
		[]string{"tier", "data_source"},
	)

	PinAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipfs_pin_attempts_total",
			Help: "Total number of IPFS pin attempts by outcome",
		},
		[]string{"outcome"},
	)

	MintSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mint_submissions_total",
			Help: "Total number of mint transactions submitted by outcome",
		},
		[]string{"outcome"},
	)
	MintConfirmationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mint_confirmation_duration_seconds",
			Help:    "Time from submission to confirmed receipt",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120},
		},
	)

	SuggestionTierServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_suggestion_tier_served_total",
			Help: "Which fallback tier served a job suggestion query",
		},
		[]string{"tier"},
	)
)

// InitMetrics registers all metrics with the default registry. Safe to call
// once per process.
func InitMetrics() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ScoringRequestsTotal,
		ScoringRequestDuration,
		FortunesTotal,
		PinAttemptsTotal,
		MintSubmissionsTotal,
		MintConfirmationDuration,
		SuggestionTierServedTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
