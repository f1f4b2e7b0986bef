package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/models"
	"github.com/pathwise/degree-path-api/internal/service"
)

// stubProvider is a canned CourseDataProvider for handler tests.
type stubProvider struct {
	profile    *models.StudentProfile
	profileErr error
	students   []models.StudentSummary
	listErr    error
	available  []models.Course
	completed  []models.CompletionRecord
	prereqs    map[string][]models.CourseRef
}

func (s *stubProvider) ListStudents(context.Context, models.StudentFilter) ([]models.StudentSummary, error) {
	return s.students, s.listErr
}

func (s *stubProvider) GetStudentProfile(context.Context, string) (*models.StudentProfile, error) {
	return s.profile, s.profileErr
}

func (s *stubProvider) GetCompletedCourses(context.Context, string) ([]models.CompletionRecord, error) {
	return s.completed, nil
}

func (s *stubProvider) GetEnrolledCourses(context.Context, string) ([]models.EnrollmentRecord, error) {
	return nil, nil
}

func (s *stubProvider) GetAvailableCourses(context.Context, string) ([]models.Course, error) {
	return s.available, nil
}

func (s *stubProvider) GetPrerequisites(_ context.Context, courseID string) ([]models.CourseRef, error) {
	return s.prereqs[courseID], nil
}

func (s *stubProvider) GetCoursesUnlockedBy(context.Context, string) ([]models.CourseRef, error) {
	return nil, nil
}

func (s *stubProvider) GetSimilarStudents(context.Context, string) ([]models.PeerSummary, error) {
	return nil, nil
}

func (s *stubProvider) GetDegreeProgress(context.Context, string) (*models.DegreeProgress, error) {
	return nil, nil
}

func stubStudent() *models.StudentProfile {
	return &models.StudentProfile{
		ID:                  "ST12345",
		Name:                "Alice Johnson",
		LearningStyle:       models.StyleVisual,
		PreferredCourseLoad: 2,
		PreferredPace:       models.PaceStandard,
	}
}

func stubCatalog() []models.Course {
	return []models.Course{
		{ID: "CMSC202", Name: "Computer Science II", Credits: 4, Level: 200, AvgDifficulty: 3.0},
		{ID: "MATH151", Name: "Calculus I", Credits: 4, Level: 100, AvgDifficulty: 3.2},
	}
}

func newOptimizer(provider service.CourseDataProvider) *service.PathOptimizerService {
	return service.NewPathOptimizerService(provider, nil, nil, nil, nil, zap.NewNop(), service.PathOptimizerConfig{})
}

func testRequest(t *testing.T, method, target string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	c.Request = req
	return w, c
}
