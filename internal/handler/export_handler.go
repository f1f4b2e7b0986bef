package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/degree-path-api/internal/service"
	"github.com/pathwise/degree-path-api/pkg/response"
)

// ExportHandler exposes the background export job endpoints.
type ExportHandler struct {
	exports *service.ExportJobService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportJobService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Create godoc
// @Summary Queue a background term-plan export
// @Tags Planning
// @Produce json
// @Param id path string true "Student ID"
// @Param format query string false "csv (default) or pdf"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/path/export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	job, err := h.exports.CreateJob(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Get export job status
// @Tags Planning
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.exports.GetStatus(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export with a signed token
// @Tags Planning
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Export job ID"
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.exports.ResolveDownload(c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	contentType := "text/csv"
	if download.Format == service.ExportFormatPDF {
		contentType = "application/pdf"
	}
	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	headers := map[string]string{
		"Content-Disposition": "attachment; filename=\"" + download.Filename + "\"",
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, headers)
}
