// Package metrics owns the Prometheus histograms recorded by the service.
//
// A Registry is constructed once at process start and handed to every
// component that records samples (HTTP wrapper, backend client). All
// histograms share the same bucket layout so latency panels line up.
//
// Metrics:
//   - http_request_duration{method, path, status} (Histogram): end-to-end handler latency
//   - backend_request_duration{operation, status} (Histogram): key/value store call latency
//
// Example Prometheus Queries:
//
//	# P90 HTTP latency per path
//	histogram_quantile(0.90, sum(rate(http_request_duration_bucket[1m])) by (le, path))
//
//	# Backend error rate
//	sum(rate(backend_request_duration_count{status="error"}[5m])) by (operation)
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	HTTPRequestDurationName    = "http_request_duration"
	BackendRequestDurationName = "backend_request_duration"
)

// Backend call outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// LatencyBuckets are the histogram upper bounds in seconds. +Inf is implicit.
var LatencyBuckets = []float64{0.01, 0.1, 0.5, 2}

// Registry holds the service histograms and the Prometheus registry they
// are registered with. Observations are lock-free; the histograms use
// atomic counters internally.
type Registry struct {
	gatherer prometheus.Gatherer

	httpDuration    *prometheus.HistogramVec
	backendDuration *prometheus.HistogramVec
}

// New creates the histograms and registers them with reg.
// When reg is nil a private prometheus.Registry is used, so no Go runtime
// or process collectors end up in the exposition.
func New(reg *prometheus.Registry) (*Registry, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Registry{
		gatherer: reg,
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    HTTPRequestDurationName,
			Help:    "Requests durations in seconds by method, path template and status",
			Buckets: LatencyBuckets,
		}, []string{"method", "path", "status"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    BackendRequestDurationName,
			Help:    "Backend key/value call durations in seconds by operation and status",
			Buckets: LatencyBuckets,
		}, []string{"operation", "status"}),
	}

	for _, c := range []prometheus.Collector{r.httpDuration, r.backendDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// MustNew is like New but panics on registration failure.
func MustNew(reg *prometheus.Registry) *Registry {
	r, err := New(reg)
	if err != nil {
		panic(err)
	}
	return r
}

// ObserveHTTP records one HTTP request sample.
func (r *Registry) ObserveHTTP(method, path string, status int, d time.Duration) {
	r.httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveBackend records one backend call sample. status is StatusSuccess
// or StatusError.
func (r *Registry) ObserveBackend(operation, status string, d time.Duration) {
	r.backendDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// BackendStatus maps a call error to the backend status label.
func BackendStatus(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
