// Package metrics exposes Prometheus counters for comparisons and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus instruments.
type Collector struct {
	comparisons     *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
	httpRequests    *prometheus.CounterVec
}

// NewCollector creates the instruments and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mlbcompare_comparisons_total",
			Help: "Player comparisons by upstream outcome.",
		}, []string{"outcome"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mlbcompare_upstream_latency_seconds",
			Help:    "Latency of calls to the generative-text service.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mlbcompare_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(c.comparisons, c.upstreamLatency, c.httpRequests)
	return c
}

// ObserveComparison records one upstream call.
func (c *Collector) ObserveComparison(outcome string, latency time.Duration) {
	c.comparisons.WithLabelValues(outcome).Inc()
	c.upstreamLatency.Observe(latency.Seconds())
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
