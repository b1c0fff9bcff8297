package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Decode metrics
	decodeTotal    *prometheus.CounterVec
	decodeDuration *prometheus.HistogramVec
	decodeBytes    prometheus.Histogram

	// Dictionary metrics
	dictLookupsTotal *prometheus.CounterVec
	dictEntriesTotal prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		// HTTP request metrics
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riftkit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riftkit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riftkit_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		// Decode metrics
		decodeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riftkit_decode_total",
				Help: "Total number of property tree decodes",
			},
			[]string{"status"},
		),

		decodeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riftkit_decode_duration_seconds",
				Help:    "Property tree decode duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),

		decodeBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "riftkit_decode_bytes",
				Help:    "Size in bytes of uploaded property tree files",
				Buckets: prometheus.ExponentialBuckets(256, 4, 10),
			},
		),

		// Dictionary metrics
		dictLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riftkit_dict_lookups_total",
				Help: "Total number of hash dictionary lookups",
			},
			[]string{"result"},
		),

		dictEntriesTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "riftkit_dict_entries_total",
				Help: "Number of names in the hash dictionary",
			},
		),

		// Authentication metrics
		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riftkit_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		// Health check metrics
		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riftkit_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecode records a property tree decode
func (m *Metrics) RecordDecode(success bool, size int, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.decodeTotal.WithLabelValues(status).Inc()
	m.decodeDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.decodeBytes.Observe(float64(size))
}

// RecordDictLookup records a hash dictionary lookup
func (m *Metrics) RecordDictLookup(found bool) {
	result := "hit"
	if !found {
		result = "miss"
	}
	m.dictLookupsTotal.WithLabelValues(result).Inc()
}

// UpdateDictStats updates dictionary statistics
func (m *Metrics) UpdateDictStats(entries int) {
	m.dictEntriesTotal.Set(float64(entries))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if API key is present
			apiKey := r.Header.Get("X-API-Key")
			hasAPIKey := apiKey != ""

			// Call the auth middleware
			next(h).ServeHTTP(w, r)

			// Record auth metrics based on response status
			if rw, ok := w.(*responseWriter); ok {
				success := rw.statusCode != http.StatusUnauthorized
				if hasAPIKey {
					m.RecordAuthRequest(success)
				}
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
