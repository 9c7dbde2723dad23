package metrics

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP metrics live on the MetricsManager registry and stay nil until the
// first request is recorded with business metrics enabled.
var (
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPActiveConnections prometheus.Gauge

	httpOnce sync.Once
)

// Settings from Configure. Until it is called the ENABLE_*_METRICS
// variables are read directly.
var (
	configured      atomic.Bool
	businessEnabled atomic.Bool
	systemEnabled   atomic.Bool
)

// Configure sets which metric groups are collected, overriding the
// environment.
func Configure(business, system bool) {
	businessEnabled.Store(business)
	systemEnabled.Store(system)
	configured.Store(true)
}

// BusinessEnabled reports whether business and HTTP metrics are on.
func BusinessEnabled() bool {
	if configured.Load() {
		return businessEnabled.Load()
	}
	return os.Getenv("ENABLE_BUSINESS_METRICS") == "true"
}

// SystemEnabled reports whether system metrics are on.
func SystemEnabled() bool {
	if configured.Load() {
		return systemEnabled.Load()
	}
	return os.Getenv("ENABLE_SYSTEM_METRICS") == "true"
}

func initializeHTTPMetrics() {
	httpOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		)

		HTTPRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opsboard_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		)

		HTTPActiveConnections = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "opsboard_http_active_connections",
				Help: "Number of in-flight HTTP requests",
			},
		)

		GetInstance().registry.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPActiveConnections,
		)
	})
}

// RecordHTTPRequest records one served request. route is the mux path
// template so ticket ids do not become label values.
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if !BusinessEnabled() {
		return
	}
	initializeHTTPMetrics()

	status := strconv.Itoa(statusCode)
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IncActiveConnections increments in-flight requests
func IncActiveConnections() {
	if !BusinessEnabled() {
		return
	}
	initializeHTTPMetrics()
	HTTPActiveConnections.Inc()
}

// DecActiveConnections decrements in-flight requests
func DecActiveConnections() {
	if !BusinessEnabled() {
		return
	}
	initializeHTTPMetrics()
	HTTPActiveConnections.Dec()
}
