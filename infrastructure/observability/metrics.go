// Package observability exposes the Prometheus metrics collector.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the server's Prometheus metrics. Each server instance
// owns its registry; nothing is registered process-wide.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	Resolutions    *prometheus.CounterVec
	Renders        *prometheus.CounterVec
	CrawlerFetches *prometheus.CounterVec

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewCollector creates a metrics collector with the given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intent_resolutions_total",
				Help:      "Intent resolutions by outcome",
			},
			[]string{"outcome"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "component_renders_total",
				Help:      "Component renders by outcome",
			},
			[]string{"outcome"},
		),
		CrawlerFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "crawler_fetches_total",
				Help:      "Crawler source fetches by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_cache_hits_total",
			Help:      "Resolution cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_cache_misses_total",
			Help:      "Resolution cache misses",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Resolutions,
		c.Renders,
		c.CrawlerFetches,
		c.cacheHits,
		c.cacheMisses,
	)

	return c
}

// Handler returns the /metrics endpoint handler for this collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one completed HTTP request.
func (c *Collector) ObserveHTTP(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveResolution counts one intent resolution. Nil-safe so handlers can
// run without a collector.
func (c *Collector) ObserveResolution(outcome string) {
	if c == nil {
		return
	}
	c.Resolutions.WithLabelValues(outcome).Inc()
}

// ObserveRender counts one component render.
func (c *Collector) ObserveRender(outcome string) {
	if c == nil {
		return
	}
	c.Renders.WithLabelValues(outcome).Inc()
}

// ObserveCrawlerFetch counts one source's contribution to a crawl.
func (c *Collector) ObserveCrawlerFetch(source, outcome string) {
	if c == nil {
		return
	}
	c.CrawlerFetches.WithLabelValues(source, outcome).Inc()
}

// CacheHit implements the cache metrics sink.
func (c *Collector) CacheHit() { c.cacheHits.Inc() }

// CacheMiss implements the cache metrics sink.
func (c *Collector) CacheMiss() { c.cacheMisses.Inc() }
