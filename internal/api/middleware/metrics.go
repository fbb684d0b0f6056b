package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"
)

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6)

// MeterRequests counts requests and records their latency per route and
// status in set.
func MeterRequests(set *metrics.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := fmt.Sprintf(`{method=%q,path=%q,status=%q}`, c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
		set.GetOrCreateCounter("http_requests_total" + labels).Inc()
		set.GetOrCreatePrometheusHistogramExt("http_request_duration_seconds"+labels, buckets).UpdateDuration(start)
	}
}
