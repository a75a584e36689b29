package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "podhub",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "podhub",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 20},
	}, []string{"method", "path"})

	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "podhub",
		Name:      "itunes_requests_total",
		Help:      "Total requests to the iTunes Search API by result status.",
	}, []string{"status"})

	UpstreamRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "podhub",
		Name:      "itunes_request_duration_seconds",
		Help:      "iTunes Search API request duration in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20},
	})

	IngestSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "podhub",
		Name:      "ingest_saved_total",
		Help:      "Total newly stored podcast records.",
	})

	IngestMatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "podhub",
		Name:      "ingest_matched_total",
		Help:      "Total ingested results that matched an already stored record.",
	})

	IngestSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "podhub",
		Name:      "ingest_skipped_total",
		Help:      "Total ingested results skipped because of a per-item failure.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		IngestSavedTotal,
		IngestMatchedTotal,
		IngestSkippedTotal,
	)
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
