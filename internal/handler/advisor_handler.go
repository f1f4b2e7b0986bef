package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/degree-path-api/internal/dto"
	"github.com/pathwise/degree-path-api/internal/service"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
	"github.com/pathwise/degree-path-api/pkg/response"
)

// AdvisorHandler exposes the free-form advisory chat endpoint.
type AdvisorHandler struct {
	students *service.StudentService
	advisor  *service.AdvisorService
}

// NewAdvisorHandler constructs AdvisorHandler.
func NewAdvisorHandler(students *service.StudentService, advisor *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{students: students, advisor: advisor}
}

// Advise godoc
// @Summary Ask the advisory generator a question about a student's path
// @Tags Advisory
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.AdviceRequest true "Question"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/advice [post]
func (h *AdvisorHandler) Advise(c *gin.Context) {
	var req dto.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "message is required"))
		return
	}

	snapshot, err := h.students.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	advice, generated := h.advisor.Advise(c.Request.Context(), snapshot, req.Message)
	response.JSON(c, http.StatusOK, dto.AdviceResponse{Advice: advice, Generated: generated}, nil)
}
