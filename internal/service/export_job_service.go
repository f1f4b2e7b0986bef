package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/dto"
	"github.com/pathwise/degree-path-api/internal/models"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
	"github.com/pathwise/degree-path-api/pkg/jobs"
	"github.com/pathwise/degree-path-api/pkg/storage"
)

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File      *os.File
	Filename  string
	Format    string
	ExpiresAt time.Time
}

// ExportJobService runs term-plan exports in the background: a job computes
// the plan, renders the document, stores it on disk and publishes a signed
// download token. Jobs live in memory only.
type ExportJobService struct {
	optimizer *PathOptimizerService
	exporter  *ExportService
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	queue     jobDispatcher
	logger    *zap.Logger
	resultTTL time.Duration

	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

// NewExportJobService constructs the export job orchestrator. The queue is
// attached afterwards with SetQueue so the worker handler can close over the
// service itself.
func NewExportJobService(optimizer *PathOptimizerService, exporter *ExportService, store *storage.LocalStorage, signer *storage.SignedURLSigner, resultTTL time.Duration, logger *zap.Logger) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resultTTL <= 0 {
		resultTTL = 24 * time.Hour
	}
	return &ExportJobService{
		optimizer: optimizer,
		exporter:  exporter,
		store:     store,
		signer:    signer,
		logger:    logger,
		resultTTL: resultTTL,
		jobs:      make(map[string]*models.ExportJob),
	}
}

// SetQueue attaches the dispatcher feeding Handle.
func (s *ExportJobService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// CreateJob registers and enqueues an export for the given student.
func (s *ExportJobService) CreateJob(ctx context.Context, studentID, format string) (*models.ExportJob, error) {
	switch format {
	case "", ExportFormatCSV:
		format = ExportFormatCSV
	case ExportFormatPDF:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue not running")
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Format:    format,
		Status:    models.ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "term_plan_export"}); err != nil {
		s.fail(job.ID, "failed to enqueue export")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return s.snapshot(job.ID), nil
}

// GetStatus returns a copy of the job record.
func (s *ExportJobService) GetStatus(id string) (*models.ExportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return job, nil
}

// Handle processes one queued export. Wired as the queue handler.
func (s *ExportJobService) Handle(ctx context.Context, queued jobs.Job) error {
	job := s.snapshot(queued.ID)
	if job == nil {
		return fmt.Errorf("export job %s not found", queued.ID)
	}
	s.setStatus(job.ID, models.ExportStatusProcessing)

	plan, _, err := s.optimizer.FindOptimalPath(ctx, dto.PathPlanRequest{StudentID: job.StudentID})
	if err != nil {
		s.fail(job.ID, err.Error())
		return err
	}

	payload, _, filename, err := s.exporter.RenderTermPlan(plan, job.Format)
	if err != nil {
		s.fail(job.ID, err.Error())
		return err
	}

	relPath := filepath.Join(job.StudentID, fmt.Sprintf("%s-%s", job.ID, filename))
	if _, err := s.store.Save(relPath, payload); err != nil {
		s.fail(job.ID, err.Error())
		return err
	}

	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.fail(job.ID, err.Error())
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if record, ok := s.jobs[job.ID]; ok {
		record.Status = models.ExportStatusFinished
		record.ResultURL = fmt.Sprintf("/exports/%s/download?token=%s", job.ID, token)
		record.Error = ""
		record.FinishedAt = &now
	}
	s.mu.Unlock()
	return nil
}

// ResolveDownload validates a token against the requested job and opens the
// stored export file.
func (s *ExportJobService) ResolveDownload(id, token string) (*ExportDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token")
	}
	if jobID != id {
		return nil, appErrors.Clone(appErrors.ErrValidation, "token does not match export job")
	}
	job := s.snapshot(jobID)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrValidation, "export not ready")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// StartCleanup boots a goroutine that purges expired export files and drops
// finished job records past their TTL.
func (s *ExportJobService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired()
			}
		}
	}()
}

func (s *ExportJobService) cleanupExpired() {
	if deleted, err := s.store.CleanupOlderThan(s.resultTTL); err != nil {
		s.logger.Sugar().Warnw("export cleanup failed", "error", err)
	} else if len(deleted) > 0 {
		s.logger.Sugar().Infow("expired exports removed", "count", len(deleted))
	}

	cutoff := time.Now().Add(-s.resultTTL)
	s.mu.Lock()
	for id, job := range s.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
	s.mu.Unlock()
}

func (s *ExportJobService) snapshot(id string) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func (s *ExportJobService) setStatus(id string, status models.ExportStatus) {
	s.mu.Lock()
	if job, ok := s.jobs[id]; ok {
		job.Status = status
	}
	s.mu.Unlock()
}

func (s *ExportJobService) fail(id, message string) {
	now := time.Now().UTC()
	s.mu.Lock()
	if job, ok := s.jobs[id]; ok {
		job.Status = models.ExportStatusFailed
		job.Error = message
		job.FinishedAt = &now
	}
	s.mu.Unlock()
}
