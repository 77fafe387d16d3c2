package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// MonitoringMiddleware records request latency metrics and logs each
// completed request.
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ip := c.ClientIP()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		metrics.RequestDuration.
			WithLabelValues(method, path, strconv.Itoa(statusCode)).
			Observe(duration.Seconds())
		logger.RequestLogger(method, path, ip, statusCode, duration)
	}
}
