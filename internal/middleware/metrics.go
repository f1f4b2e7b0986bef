package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/degree-path-api/internal/service"
)

// Metrics records per-request duration and counts, labelled by the route
// template so path parameters do not explode the cardinality. Scrapes of the
// metrics endpoint itself are not recorded.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
