// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Metrics instruments HTTP traffic with Prometheus. Labels stay bounded:
// method, the registered Gin route (e.g. /api/v1/conversations/:id/messages)
// and the status code. Requests that matched no route share the "unmatched"
// path label so that raw ids in URLs never become label values.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedPath labels requests with no registered route.
const unmatchedPath = "unmatched"

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// status omitted to keep the histogram small
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of non-streaming HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight non-streaming HTTP requests.",
		},
	)

	// Buckets sized for JSON pages of messages and notifications.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of non-streaming HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 2 << 10, 5 << 10,
				10 << 10, 25 << 10, 50 << 10,
				100 << 10, 250 << 10, 500 << 10, 1 << 20,
			},
		},
		[]string{"method", "path"},
	)

	// stream connections are long-lived; their duration says nothing about latency
	httpStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_streams_open",
			Help: "Currently open streaming (SSE) responses.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize, httpStreams)
}

// MetricsOptions configures Metrics.
type MetricsOptions struct {
	// StreamPaths are request paths served as long-lived streams. They are
	// counted in http_requests_total and http_streams_open only.
	StreamPaths []string
}

// Metrics returns a middleware recording http_requests_total for every
// request, plus latency, in-flight and response size for regular requests.
//
//	r.Use(middleware.Metrics(middleware.MetricsOptions{StreamPaths: []string{"/api/v1/stream"}}))
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics(opt MetricsOptions) gin.HandlerFunc {
	streams := make(map[string]struct{}, len(opt.StreamPaths))
	for _, p := range opt.StreamPaths {
		streams[p] = struct{}{}
	}

	return func(c *gin.Context) {
		_, streaming := streams[c.Request.URL.Path]
		start := time.Now()
		if streaming {
			httpStreams.Inc()
			defer httpStreams.Dec()
		} else {
			httpInflight.Inc()
			defer httpInflight.Dec()
		}

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method
		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		if streaming {
			return
		}

		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written (e.g. 204).
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
