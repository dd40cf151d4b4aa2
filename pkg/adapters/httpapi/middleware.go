package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	orders   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hexa_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "path", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hexa_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "hexa_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}),
		orders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hexa_orders_total",
			Help: "Order use case outcomes",
		}, []string{"use_case", "outcome"}),
	}
}

// unmatchedRoute labels requests that hit no route, such as scanners.
const unmatchedRoute = "unmatched"

func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Route patterns keep label cardinality bounded.
		path := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RateLimit limits requests per client IP using a sliding window.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate_limit_exceeded", Detail: "too many requests"})
		}),
	)
}

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// requestID echoes the caller's request ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
