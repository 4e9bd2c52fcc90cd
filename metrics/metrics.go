package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediashare_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	StoreCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediashare_store_call_duration_seconds",
			Help:    "Duration of bounded store calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashare_store_call_errors_total",
			Help: "Store calls that ended in an error, by error kind",
		},
		[]string{"operation", "kind"},
	)

	PhotoAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashare_photo_api_requests_total",
			Help: "Requests to the photo API by outcome",
		},
		[]string{"outcome"}, // success, not_found, retry, failure, rejected
	)

	PhotoAPIBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediashare_photo_api_breaker_state",
			Help: "Photo API circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	FavoriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashare_favorite_toggles_total",
			Help: "Favorite toggles by target kind and resulting state",
		},
		[]string{"target_kind", "state"},
	)

	FavoriteRaceRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediashare_favorite_race_retries_total",
			Help: "Favorite inserts that lost a unique-constraint race and were re-read",
		},
	)

	CommentActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashare_comment_actions_total",
			Help: "Comment workflow actions",
		},
		[]string{"action"}, // add, edit, delete, admin_delete, flag, unflag
	)

	ImageViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediashare_image_views_total",
			Help: "Image detail views recorded",
		},
	)
)

// ObserveStoreCall records the duration and, when err is non-nil, the error kind of a store call.
func ObserveStoreCall(operation string, start time.Time, kind string) {
	StoreCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if kind != "" {
		StoreCallErrors.WithLabelValues(operation, kind).Inc()
	}
}

// Middleware records request latency labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
