package middleware

import (
	"strconv"
	"time"

	"github.com/Lidan4315/Ideku-sub000/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录请求计数与时长
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(startTime).Seconds())
	}
}
