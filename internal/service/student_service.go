package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/dto"
	"github.com/pathwise/degree-path-api/internal/models"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
)

// StudentService serves the student directory and per-student overview.
type StudentService struct {
	provider CourseDataProvider
	logger   *zap.Logger
}

// NewStudentService constructs a student service.
func NewStudentService(provider CourseDataProvider, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{provider: provider, logger: logger}
}

// List returns students matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	students, err := s.provider.ListStudents(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "student listing failed")
	}
	return students, nil
}

// Overview aggregates profile, history, degree progress and GPA for one
// student. History, progress and peer lookups are best-effort.
func (s *StudentService) Overview(ctx context.Context, studentID string) (*dto.StudentOverviewResponse, error) {
	profile, err := s.provider.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s not found", studentID))
	}

	overview := &dto.StudentOverviewResponse{Student: *profile}

	if overview.Completed, err = s.provider.GetCompletedCourses(ctx, studentID); err != nil {
		s.logger.Warn("completed courses lookup failed", zap.String("student_id", studentID), zap.Error(err))
		overview.Completed = nil
	}
	if overview.Enrolled, err = s.provider.GetEnrolledCourses(ctx, studentID); err != nil {
		s.logger.Warn("enrolled courses lookup failed", zap.String("student_id", studentID), zap.Error(err))
		overview.Enrolled = nil
	}
	if progress, err := s.provider.GetDegreeProgress(ctx, studentID); err != nil {
		s.logger.Warn("degree progress lookup failed", zap.String("student_id", studentID), zap.Error(err))
	} else {
		overview.Progress = progress
	}
	if peers, err := s.provider.GetSimilarStudents(ctx, studentID); err == nil {
		overview.PeerSignals = len(peers)
	}

	overview.GPA = computeGPA(overview.Completed)
	return overview, nil
}

// Snapshot loads the context the advisory chat endpoint attaches to prompts.
func (s *StudentService) Snapshot(ctx context.Context, studentID string) (*models.StudentSnapshot, error) {
	profile, err := s.provider.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s not found", studentID))
	}

	snapshot := &models.StudentSnapshot{Student: *profile}
	if snapshot.Completed, err = s.provider.GetCompletedCourses(ctx, studentID); err != nil {
		snapshot.Completed = nil
	}
	if snapshot.Enrolled, err = s.provider.GetEnrolledCourses(ctx, studentID); err != nil {
		snapshot.Enrolled = nil
	}
	return snapshot, nil
}
