package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aviauth/backend/pkg/metrics"
)

// Metrics is a gin middleware collecting Prometheus metrics per request.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		method := c.Request.Method

		// FullPath keeps label cardinality bounded; it is empty for
		// unmatched routes.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		latency := time.Since(start)
		metrics.HTTPRequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(latency.Seconds())
	}
}
