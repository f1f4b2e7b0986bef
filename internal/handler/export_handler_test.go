package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/models"
	"github.com/pathwise/degree-path-api/internal/service"
	"github.com/pathwise/degree-path-api/pkg/jobs"
	"github.com/pathwise/degree-path-api/pkg/response"
	"github.com/pathwise/degree-path-api/pkg/storage"
)

type stubQueue struct {
	queued []jobs.Job
}

func (q *stubQueue) Enqueue(job jobs.Job) error {
	q.queued = append(q.queued, job)
	return nil
}

func exportHandlerFixture(t *testing.T, provider *stubProvider) (*ExportHandler, *service.ExportJobService, *stubQueue) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := service.NewExportJobService(newOptimizer(provider), service.NewExportService(), store, signer, time.Hour, zap.NewNop())
	queue := &stubQueue{}
	svc.SetQueue(queue)
	return NewExportHandler(svc), svc, queue
}

func TestExportHandlerCreateAccepted(t *testing.T) {
	handler, _, queue := exportHandlerFixture(t, &stubProvider{profile: stubStudent(), available: stubCatalog()})

	w, c := testRequest(t, http.MethodPost, "/students/ST12345/path/export?format=pdf")
	c.Params = gin.Params{{Key: "id", Value: "ST12345"}}
	handler.Create(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	var envelope struct {
		Data models.ExportJob `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.ExportStatusQueued, envelope.Data.Status)
	assert.Equal(t, "pdf", envelope.Data.Format)
	require.Len(t, queue.queued, 1)
	assert.Equal(t, envelope.Data.ID, queue.queued[0].ID)
}

func TestExportHandlerCreateBadFormat(t *testing.T) {
	handler, _, queue := exportHandlerFixture(t, &stubProvider{profile: stubStudent()})

	w, c := testRequest(t, http.MethodPost, "/students/ST12345/path/export?format=xlsx")
	c.Params = gin.Params{{Key: "id", Value: "ST12345"}}
	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, queue.queued)
}

func TestExportHandlerStatusNotFound(t *testing.T) {
	handler, _, _ := exportHandlerFixture(t, &stubProvider{profile: stubStudent()})

	w, c := testRequest(t, http.MethodGet, "/exports/nope")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	handler.Status(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestExportHandlerDownloadRoundtrip(t *testing.T) {
	handler, svc, queue := exportHandlerFixture(t, &stubProvider{profile: stubStudent(), available: stubCatalog()})

	w, c := testRequest(t, http.MethodPost, "/students/ST12345/path/export")
	c.Params = gin.Params{{Key: "id", Value: "ST12345"}}
	handler.Create(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, queue.queued, 1)
	require.NoError(t, svc.Handle(c.Request.Context(), queue.queued[0]))

	jobID := queue.queued[0].ID
	status, err := svc.GetStatus(jobID)
	require.NoError(t, err)
	require.Equal(t, models.ExportStatusFinished, status.Status)
	token := status.ResultURL[strings.Index(status.ResultURL, "token=")+len("token="):]

	w, c = testRequest(t, http.MethodGet, "/exports/"+jobID+"/download?token="+token)
	c.Params = gin.Params{{Key: "id", Value: jobID}}
	handler.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "CMSC202")
}

func TestExportHandlerDownloadBadToken(t *testing.T) {
	handler, _, _ := exportHandlerFixture(t, &stubProvider{profile: stubStudent()})

	w, c := testRequest(t, http.MethodGet, "/exports/some-id/download?token=bogus")
	c.Params = gin.Params{{Key: "id", Value: "some-id"}}
	handler.Download(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
