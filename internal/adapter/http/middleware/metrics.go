package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmkt/moneymarket/internal/infrastructure/metrics"
)

var httpRequestsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "moneymarket_http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed",
	},
)

// MetricsMiddleware records HTTP request metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses path parameters to keep label cardinality bounded.
// /api/accounts/000000011001 -> /api/accounts/:accountNo
func normalizePath(path string) string {
	for _, prefix := range []string{
		"/api/accounts/",
		"/api/transactions/",
		"/api/admin/eod-runs/",
	} {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || rest == "" {
			continue
		}

		param := ":" + pathParamName(prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return prefix + param + rest[i:]
		}

		// Static segments under the prefix stay as they are.
		if rest == "customer" || rest == "office" || rest == "entry" || rest == "validate" || rest == "latest" {
			return path
		}

		return prefix + param
	}

	return path
}

func pathParamName(prefix string) string {
	switch prefix {
	case "/api/accounts/":
		return "accountNo"
	case "/api/transactions/":
		return "tranId"
	default:
		return "date"
	}
}
