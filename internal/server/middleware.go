package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mindpay/internal/metrics"
)

// MetricsMiddleware labels by route template so ids do not explode the
// series count. Unmatched routes are reported as "unmatched".
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
