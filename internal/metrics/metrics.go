package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP request count by path, method and status."},
		[]string{"path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	// NotificationsCreated counts stored notifications by type; deduplicated
	// and self-suppressed ones are not counted.
	NotificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_created_total", Help: "Notifications persisted, by type."},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpLatency, NotificationsCreated)
}

// Handler returns a middleware recording request count and latency.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Exposer returns the standard Prometheus exposition handler.
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
