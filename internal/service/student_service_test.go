package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/models"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
)

type fakeDirectoryProvider struct {
	fakeProvider
	students []models.StudentSummary
	listErr  error
	lastMax  int
}

func (f *fakeDirectoryProvider) ListStudents(_ context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	f.lastMax = filter.Limit
	return f.students, f.listErr
}

func TestStudentServiceListNormalisesLimit(t *testing.T) {
	provider := &fakeDirectoryProvider{
		students: []models.StudentSummary{{ID: "ST12345", Name: "Alice Johnson"}},
	}
	svc := NewStudentService(provider, zap.NewNop())

	students, err := svc.List(context.Background(), models.StudentFilter{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 100, provider.lastMax)
}

func TestStudentServiceListWrapsProviderFailure(t *testing.T) {
	provider := &fakeDirectoryProvider{listErr: fmt.Errorf("connection refused")}
	svc := NewStudentService(provider, zap.NewNop())

	_, err := svc.List(context.Background(), models.StudentFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProviderUnavailable.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceOverview(t *testing.T) {
	provider := &fakeProvider{
		profile: plannerProfile(),
		completed: []models.CompletionRecord{
			{CourseID: "CMSC201", Grade: "A", Credits: 4},
			{CourseID: "ENGL100", Grade: "B", Credits: 3},
		},
		enrolled: []models.EnrollmentRecord{{CourseID: "CMSC202", Term: "Spring 2026", Credits: 4}},
		peers:    []models.PeerSummary{{ID: "ST222"}, {ID: "ST333"}},
		progress: &models.DegreeProgress{TotalCreditsRequired: 120, TotalCreditsCompleted: 7},
	}
	svc := NewStudentService(provider, zap.NewNop())

	overview, err := svc.Overview(context.Background(), "ST12345")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", overview.Student.Name)
	assert.Len(t, overview.Completed, 2)
	assert.Len(t, overview.Enrolled, 1)
	assert.Equal(t, 2, overview.PeerSignals)
	assert.Equal(t, "3.57", overview.GPA)
	require.NotNil(t, overview.Progress)
	assert.Equal(t, 120, overview.Progress.TotalCreditsRequired)
}

func TestStudentServiceOverviewNotFound(t *testing.T) {
	svc := NewStudentService(&fakeProvider{profileErr: appErrors.ErrStudentNotFound}, zap.NewNop())

	_, err := svc.Overview(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStudentNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceOverviewDegradesOnHistoryFailure(t *testing.T) {
	provider := &fakeProvider{
		profile:      plannerProfile(),
		completedErr: fmt.Errorf("timeout"),
		progressErr:  fmt.Errorf("timeout"),
	}
	svc := NewStudentService(provider, zap.NewNop())

	overview, err := svc.Overview(context.Background(), "ST12345")
	require.NoError(t, err)
	assert.Empty(t, overview.Completed)
	assert.Nil(t, overview.Progress)
	assert.Equal(t, "No grades available", overview.GPA)
}

func TestStudentServiceSnapshot(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		completed: []models.CompletionRecord{{CourseID: "CMSC201", Grade: "A", Credits: 4}},
	}
	svc := NewStudentService(provider, zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background(), "ST12345")
	require.NoError(t, err)
	assert.Equal(t, "ST12345", snapshot.Student.ID)
	assert.Len(t, snapshot.Completed, 1)
}
