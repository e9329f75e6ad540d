package handler

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the analysis API.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	VideosAnalyzed   prometheus.Counter
}{}

var metricsOnce sync.Once

// InitMetrics registers all Prometheus metrics. Safe to call more than once.
func InitMetrics() {
	metricsOnce.Do(initMetrics)
}

func initMetrics() {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtrend_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "youtrend_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "youtrend_cache_hits_total",
			Help: "Total report cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "youtrend_cache_misses_total",
			Help: "Total report cache misses.",
		},
	)

	Metrics.AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtrend_analyses_total",
			Help: "Total analyses served, by kind.",
		},
		[]string{"kind"},
	)

	Metrics.AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtrend_analysis_duration_seconds",
			Help:    "Time spent producing an analysis, cache lookup included, by kind.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	Metrics.VideosAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "youtrend_videos_analyzed_total",
			Help: "Total video records submitted for analysis.",
		},
	)

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.AnalysesTotal,
		Metrics.AnalysisDuration,
		Metrics.VideosAnalyzed,
	)
}

// observeAnalysis records one served analysis. It is a no-op before InitMetrics.
func observeAnalysis(kind string, start time.Time, cacheHit bool, videos int) {
	if Metrics.AnalysesTotal == nil {
		return
	}
	Metrics.AnalysesTotal.WithLabelValues(kind).Inc()
	Metrics.AnalysisDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	Metrics.VideosAnalyzed.Add(float64(videos))
	if cacheHit {
		Metrics.CacheHits.Inc()
	} else {
		Metrics.CacheMisses.Inc()
	}
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" || Metrics.RequestDuration == nil {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next(). Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

var knownEndpoints = map[string]bool{
	"/api/trends/videos":   true,
	"/api/trends/channels": true,
	"/api/topics":          true,
	"/api/compare":         true,
	"/health/live":         true,
	"/health/ready":        true,
}

// sanitizeEndpoint collapses unknown paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	if knownEndpoints[path] {
		return path
	}
	return "other"
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
