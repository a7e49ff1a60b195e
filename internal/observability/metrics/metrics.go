package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes request-level prometheus instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// IngestMetrics counts batch ingestion outcomes.
type IngestMetrics struct {
	rowsProcessed prometheus.Counter
	batchesFailed prometheus.Counter
}

// NewHTTPMetrics registers the HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arclear_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arclear_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	prometheus.MustRegister(m.requests, m.duration)
	return m
}

// NewIngestMetrics registers the ingestion instruments on the default registry.
func NewIngestMetrics() *IngestMetrics {
	m := &IngestMetrics{
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arclear_ingest_rows_total",
			Help: "Invoice rows committed by batch ingestion.",
		}),
		batchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arclear_ingest_batches_failed_total",
			Help: "Batches rejected by validation or aborted by storage errors.",
		}),
	}
	prometheus.MustRegister(m.rowsProcessed, m.batchesFailed)
	return m
}

// RecordRows adds committed row counts.
func (m *IngestMetrics) RecordRows(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsProcessed.Add(float64(n))
}

// RecordBatchFailed increments the failed batch count.
func (m *IngestMetrics) RecordBatchFailed() {
	if m == nil {
		return
	}
	m.batchesFailed.Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
