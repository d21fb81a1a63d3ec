package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestDuration tracks request latency by method and path.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)

	// actionsTotal counts engine actions by kind and outcome.
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simplecross_actions_total",
			Help: "Total number of actions by kind and outcome",
		},
		[]string{"action", "outcome"},
	)

	// matchesTotal counts executed matches by symbol.
	matchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simplecross_matches_total",
			Help: "Total number of matches by symbol",
		},
		[]string{"symbol"},
	)

	// bookDepth tracks resting order counts.
	bookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "simplecross_book_depth",
			Help: "Current resting order count",
		},
		[]string{"symbol", "side"},
	)
)

// statusRecorder captures the response status for metrics and logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument tags every request with an id, times it, and records the
// latency histogram.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		httpRequestDuration.
			WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).
			Observe(elapsed.Seconds())

		s.log.Infow("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", elapsed,
		)
	})
}
