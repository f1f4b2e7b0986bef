package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/degree-path-api/internal/dto"
	"github.com/pathwise/degree-path-api/internal/middleware"
	"github.com/pathwise/degree-path-api/internal/models"
	"github.com/pathwise/degree-path-api/internal/service"
	"github.com/pathwise/degree-path-api/pkg/response"
)

// PathHandler exposes the degree-path planning endpoints.
type PathHandler struct {
	optimizer *service.PathOptimizerService
	exports   *service.ExportService
}

// NewPathHandler constructs PathHandler.
func NewPathHandler(optimizer *service.PathOptimizerService, exports *service.ExportService) *PathHandler {
	return &PathHandler{optimizer: optimizer, exports: exports}
}

// Plan godoc
// @Summary Compute the optimal degree path for a student
// @Tags Planning
// @Produce json
// @Param id path string true "Student ID"
// @Param start_term query string false "Seed term (Fall or Spring)"
// @Param include_advice query bool false "Attach generated advisory text"
// @Param refresh query bool false "Bypass the cached plan"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /students/{id}/path [get]
func (h *PathHandler) Plan(c *gin.Context) {
	req := dto.PathPlanRequest{
		StudentID:     c.Param("id"),
		StartTerm:     models.TermType(c.Query("start_term")),
		IncludeAdvice: c.Query("include_advice") == "true",
		Refresh:       c.Query("refresh") == "true",
	}

	plan, cacheHit, err := h.optimizer.FindOptimalPath(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, plan, nil, middleware.ExtractMeta(c))
}

// Recommendations godoc
// @Summary Get top scored course recommendations
// @Tags Planning
// @Produce json
// @Param id path string true "Student ID"
// @Param limit query int false "Max recommendations (1-20)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/recommendations [get]
func (h *PathHandler) Recommendations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		limit = 5
	}
	req := dto.RecommendationRequest{StudentID: c.Param("id"), Limit: limit}

	courses, cacheHit, err := h.optimizer.GetCourseRecommendations(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, courses, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the term plan as CSV or PDF
// @Tags Planning
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/path/export [get]
func (h *PathHandler) Export(c *gin.Context) {
	req := dto.PathPlanRequest{StudentID: c.Param("id")}
	plan, _, err := h.optimizer.FindOptimalPath(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, contentType, filename, err := h.exports.RenderTermPlan(plan, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Blob(c, contentType, filename, payload)
}
