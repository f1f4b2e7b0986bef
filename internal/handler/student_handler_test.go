package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/models"
	"github.com/pathwise/degree-path-api/internal/service"
	"github.com/pathwise/degree-path-api/pkg/response"
)

func TestStudentHandlerList(t *testing.T) {
	provider := &stubProvider{
		students: []models.StudentSummary{
			{ID: "ST12345", Name: "Alice Johnson", LearningStyle: models.StyleVisual},
		},
	}
	handler := NewStudentHandler(service.NewStudentService(provider, zap.NewNop()))

	w, c := testRequest(t, http.MethodGet, "/students?search=alice&limit=10")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []models.StudentSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Alice Johnson", envelope.Data[0].Name)
}

func TestStudentHandlerListProviderDown(t *testing.T) {
	provider := &stubProvider{listErr: fmt.Errorf("connection refused")}
	handler := NewStudentHandler(service.NewStudentService(provider, zap.NewNop()))

	w, c := testRequest(t, http.MethodGet, "/students")
	handler.List(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "PROVIDER_UNAVAILABLE", envelope.Error.Code)
}

func TestStudentHandlerOverviewNotFound(t *testing.T) {
	handler := NewStudentHandler(service.NewStudentService(&stubProvider{}, zap.NewNop()))

	w, c := testRequest(t, http.MethodGet, "/students/missing")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Overview(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "STUDENT_NOT_FOUND", envelope.Error.Code)
}

func TestStudentHandlerOverview(t *testing.T) {
	provider := &stubProvider{
		profile:   stubStudent(),
		completed: []models.CompletionRecord{{CourseID: "CMSC201", Grade: "A", Credits: 4}},
	}
	handler := NewStudentHandler(service.NewStudentService(provider, zap.NewNop()))

	w, c := testRequest(t, http.MethodGet, "/students/ST12345")
	c.Params = gin.Params{{Key: "id", Value: "ST12345"}}
	handler.Overview(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice Johnson")
	assert.Contains(t, w.Body.String(), `"gpa":"4.00"`)
}
