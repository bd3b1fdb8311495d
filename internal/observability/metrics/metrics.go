package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels applied to every metric.
type Config struct {
	ServiceName string
	Environment string
}

// IngestMetrics counts the outcomes of import batches.
type IngestMetrics struct {
	rowsInserted prometheus.Counter
	rowsSkipped  prometheus.Counter
	rowsDropped  prometheus.Counter
	warnings     prometheus.Counter
}

// HTTPMetrics instruments inbound requests.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewIngestMetrics(cfg Config) *IngestMetrics {
	return newIngestMetrics(prometheus.DefaultRegisterer, cfg)
}

func newIngestMetrics(registerer prometheus.Registerer, cfg Config) *IngestMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	m := &IngestMetrics{
		rowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salesops_ingest_rows_inserted_total",
			Help:        "Fact rows inserted by the loader.",
			ConstLabels: labels,
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salesops_ingest_rows_skipped_total",
			Help:        "Rows skipped as provenance-key duplicates.",
			ConstLabels: labels,
		}),
		rowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salesops_ingest_rows_dropped_total",
			Help:        "Rows dropped for missing required fields.",
			ConstLabels: labels,
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "salesops_ingest_warnings_total",
			Help:        "Advisory price-consistency warnings.",
			ConstLabels: labels,
		}),
	}

	registerer.MustRegister(m.rowsInserted, m.rowsSkipped, m.rowsDropped, m.warnings)
	return m
}

// RecordBatch adds one committed batch outcome to the counters.
func (m *IngestMetrics) RecordBatch(inserted, skipped, warnings int) {
	if m == nil {
		return
	}
	m.rowsInserted.Add(float64(inserted))
	m.rowsSkipped.Add(float64(skipped))
	m.warnings.Add(float64(warnings))
}

// RecordDropped counts rows excluded during normalization, before any of
// them reach the loader.
func (m *IngestMetrics) RecordDropped(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.rowsDropped.Add(float64(count))
}

func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "salesops_http_requests_total",
			Help:        "Inbound HTTP requests by route, method and status.",
			ConstLabels: labels,
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "salesops_http_request_duration_seconds",
			Help:        "Inbound HTTP request duration.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	registerer.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware records request counts and latency.
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
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(route, method, status).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func constLabels(cfg Config) prometheus.Labels {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "salesops"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service":     serviceName,
		"environment": environment,
	}
}
