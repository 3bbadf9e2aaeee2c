package middleware

import (
	"strconv"
	"time"

	"trendgram/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 上报每个请求的 Prometheus 指标
func MetricsMiddleware() gin.HandlerFunc {
	collector := metrics.GetGlobalCollector()
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched" // 404 等未命中路由的请求不要把基数打爆
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
