package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pathwise/degree-path-api/internal/service"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs MetricsHandler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Handle serves the metrics in Prometheus exposition format.
func (h *MetricsHandler) Handle(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
