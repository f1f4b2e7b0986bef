package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/dto"
	"github.com/pathwise/degree-path-api/internal/models"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
)

type fakeProvider struct {
	profile      *models.StudentProfile
	profileErr   error
	completed    []models.CompletionRecord
	completedErr error
	enrolled     []models.EnrollmentRecord
	available    []models.Course
	availableErr error
	prereqs      map[string][]models.CourseRef
	unlocks      map[string][]models.CourseRef
	peers        []models.PeerSummary
	peersErr     error
	progress     *models.DegreeProgress
	progressErr  error
}

func (f *fakeProvider) ListStudents(context.Context, models.StudentFilter) ([]models.StudentSummary, error) {
	return nil, nil
}

func (f *fakeProvider) GetStudentProfile(context.Context, string) (*models.StudentProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeProvider) GetCompletedCourses(context.Context, string) ([]models.CompletionRecord, error) {
	return f.completed, f.completedErr
}

func (f *fakeProvider) GetEnrolledCourses(context.Context, string) ([]models.EnrollmentRecord, error) {
	return f.enrolled, nil
}

func (f *fakeProvider) GetAvailableCourses(context.Context, string) ([]models.Course, error) {
	return f.available, f.availableErr
}

func (f *fakeProvider) GetPrerequisites(_ context.Context, courseID string) ([]models.CourseRef, error) {
	return f.prereqs[courseID], nil
}

func (f *fakeProvider) GetCoursesUnlockedBy(_ context.Context, courseID string) ([]models.CourseRef, error) {
	return f.unlocks[courseID], nil
}

func (f *fakeProvider) GetSimilarStudents(context.Context, string) ([]models.PeerSummary, error) {
	return f.peers, f.peersErr
}

func (f *fakeProvider) GetDegreeProgress(context.Context, string) (*models.DegreeProgress, error) {
	return f.progress, f.progressErr
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func plannerProfile() *models.StudentProfile {
	return &models.StudentProfile{
		ID:                  "ST12345",
		Name:                "Alice Johnson",
		LearningStyle:       models.StyleVisual,
		PreferredCourseLoad: 2,
		PreferredPace:       models.PaceStandard,
	}
}

func plannerFixture(provider CourseDataProvider, cache *CacheService) *PathOptimizerService {
	return NewPathOptimizerService(provider, nil, cache, nil, nil, zap.NewNop(), PathOptimizerConfig{})
}

func TestFindOptimalPathSchedulesPrerequisitesFirst(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		completed: []models.CompletionRecord{{CourseID: "CMSC201", Grade: "A", Credits: 4}},
		available: []models.Course{
			{ID: "CMSC313", Name: "Computer Organization", Credits: 4, Level: 300, AvgDifficulty: 3.8},
			{ID: "CMSC202", Name: "CS II", Credits: 4, Level: 200, AvgDifficulty: 3.2},
			{ID: "MATH151", Name: "Calculus I", Credits: 4, Level: 100, AvgDifficulty: 3.0},
		},
		prereqs: map[string][]models.CourseRef{
			"CMSC202": {{ID: "CMSC201"}},
			"CMSC313": {{ID: "CMSC202"}},
		},
		unlocks: map[string][]models.CourseRef{
			"CMSC202": {{ID: "CMSC313"}},
		},
	}
	svc := plannerFixture(provider, nil)

	plan, cacheHit, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345", StartTerm: models.TermFall})
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.NotNil(t, plan)
	require.Len(t, plan.OptimalSequence, 3)
	require.NotEmpty(t, plan.TermPlan)

	assert.NotContains(t, termCourseIDs(plan.TermPlan[0]), "CMSC313")
	placedTerm := map[string]int{}
	for _, term := range plan.TermPlan {
		for _, course := range term.Courses {
			placedTerm[course.ID] = term.TermNumber
		}
	}
	assert.Less(t, placedTerm["CMSC202"], placedTerm["CMSC313"])
	assert.Equal(t, len(plan.TermPlan), plan.TotalTermsRemaining)
	assert.False(t, plan.Truncated)
	assert.NotEmpty(t, plan.EstimatedGraduation)
}

func TestFindOptimalPathStudentNotFound(t *testing.T) {
	svc := plannerFixture(&fakeProvider{profileErr: appErrors.ErrStudentNotFound}, nil)

	_, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "missing"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStudentNotFound.Code, appErr.Code)
}

func TestFindOptimalPathRejectsEmptyStudentID(t *testing.T) {
	svc := plannerFixture(&fakeProvider{}, nil)

	_, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFindOptimalPathCatalogFailureIsFatal(t *testing.T) {
	provider := &fakeProvider{
		profile:      plannerProfile(),
		availableErr: fmt.Errorf("neo4j gone"),
	}
	svc := plannerFixture(provider, nil)

	_, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProviderUnavailable.Code, appErrors.FromError(err).Code)
}

func TestFindOptimalPathDegradesOnHistoryFailure(t *testing.T) {
	provider := &fakeProvider{
		profile:      plannerProfile(),
		completedErr: fmt.Errorf("timeout"),
		peersErr:     fmt.Errorf("timeout"),
		progressErr:  fmt.Errorf("timeout"),
		available: []models.Course{
			{ID: "MATH151", Name: "Calculus I", Credits: 4, Level: 100, AvgDifficulty: 3.0},
		},
	}
	svc := plannerFixture(provider, nil)

	plan, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	require.Len(t, plan.TermPlan, 1)
	assert.Nil(t, plan.DegreeProgress)
}

func TestFindOptimalPathServesFromCache(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		available: []models.Course{{ID: "MATH151", Credits: 4, Level: 100}},
	}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := plannerFixture(provider, cache)

	first, hit, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Student.ID, second.Student.ID)
	assert.Equal(t, len(first.TermPlan), len(second.TermPlan))
}

func TestFindOptimalPathRefreshBypassesCache(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		available: []models.Course{{ID: "MATH151", Credits: 4, Level: 100}},
	}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := plannerFixture(provider, cache)

	_, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)

	_, hit, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345", Refresh: true})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFindOptimalPathCacheKeyedByStartTerm(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		available: []models.Course{{ID: "MATH151", Credits: 4, Level: 100}},
	}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := plannerFixture(provider, cache).WithClock(func() time.Time {
		return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	})

	seeded, hit, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	assert.False(t, hit)
	require.NotEmpty(t, seeded.TermPlan)
	assert.Equal(t, models.TermFall, seeded.TermPlan[0].TermType)

	// Asking for an explicit Spring start must recompute, not replay the
	// cached Fall-seeded plan.
	plan, hit, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345", StartTerm: models.TermSpring})
	require.NoError(t, err)
	assert.False(t, hit)
	require.NotEmpty(t, plan.TermPlan)
	assert.Equal(t, models.TermSpring, plan.TermPlan[0].TermType)

	plan, hit, err = svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345", StartTerm: models.TermSpring})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, models.TermSpring, plan.TermPlan[0].TermType)
}

func TestFindOptimalPathRefreshInvalidatesRecommendations(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		available: []models.Course{{ID: "MATH151", Credits: 4, Level: 100}},
	}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := plannerFixture(provider, cache)

	_, _, err := svc.GetCourseRecommendations(context.Background(), dto.RecommendationRequest{StudentID: "ST12345", Limit: 5})
	require.NoError(t, err)
	_, hit, err := svc.GetCourseRecommendations(context.Background(), dto.RecommendationRequest{StudentID: "ST12345", Limit: 5})
	require.NoError(t, err)
	require.True(t, hit)

	_, hit, err = svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345", Refresh: true})
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = svc.GetCourseRecommendations(context.Background(), dto.RecommendationRequest{StudentID: "ST12345", Limit: 5})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFindOptimalPathRecordsProviderQueryMetrics(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		available: []models.Course{{ID: "MATH151", Credits: 4, Level: 100}},
	}
	metrics := NewMetricsService()
	svc := NewPathOptimizerService(provider, nil, nil, metrics, nil, zap.NewNop(), PathOptimizerConfig{})

	_, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, query := range []string{
		"student_profile", "completed_courses", "enrolled_courses",
		"available_courses", "similar_students", "course_links", "degree_progress",
	} {
		assert.Contains(t, body, fmt.Sprintf(`provider_query_duration_seconds_count{query=%q} 1`, query))
	}
}

func TestFindOptimalPathSeedsTermFromClock(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		available: []models.Course{{ID: "MATH151", Credits: 4, Level: 100}},
	}

	spring := plannerFixture(provider, nil).WithClock(func() time.Time {
		return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	})
	plan, _, err := spring.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	assert.Equal(t, models.TermFall, plan.TermPlan[0].TermType)

	autumn := plannerFixture(provider, nil).WithClock(func() time.Time {
		return time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	})
	plan, _, err = autumn.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	assert.Equal(t, models.TermSpring, plan.TermPlan[0].TermType)
}

func TestFindOptimalPathGraduationEstimateUsesClock(t *testing.T) {
	provider := &fakeProvider{
		profile:   plannerProfile(),
		available: []models.Course{{ID: "MATH151", Credits: 4, Level: 100}},
	}
	svc := plannerFixture(provider, nil).WithClock(func() time.Time {
		return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	})

	plan, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	require.Len(t, plan.TermPlan, 1)
	assert.Equal(t, "2026-05-01", plan.EstimatedGraduation)
}

func TestFindOptimalPathTruncatesRunawayPlans(t *testing.T) {
	provider := &fakeProvider{
		profile: plannerProfile(),
		available: []models.Course{
			{ID: "LOCKED", Credits: 4, Level: 300},
		},
		prereqs: map[string][]models.CourseRef{
			"LOCKED": {{ID: "NEVER"}},
		},
	}
	svc := plannerFixture(provider, nil)

	plan, _, err := svc.FindOptimalPath(context.Background(), dto.PathPlanRequest{StudentID: "ST12345"})
	require.NoError(t, err)
	assert.True(t, plan.Truncated)
	assert.Empty(t, plan.TermPlan)
	assert.Equal(t, "Unknown", plan.EstimatedGraduation)
}

func TestGetCourseRecommendationsReturnsTopScored(t *testing.T) {
	provider := &fakeProvider{
		profile: plannerProfile(),
		available: []models.Course{
			{ID: "A", Credits: 4, Level: 100},
			{ID: "B", Credits: 3, Level: 200},
			{ID: "C", Credits: 2, Level: 300},
			{ID: "D", Credits: 1, Level: 400},
		},
	}
	svc := plannerFixture(provider, nil)

	courses, hit, err := svc.GetCourseRecommendations(context.Background(), dto.RecommendationRequest{StudentID: "ST12345", Limit: 2})
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, courses, 2)
	assert.Equal(t, "A", courses[0].ID)
	assert.GreaterOrEqual(t, courses[0].PriorityScore, courses[1].PriorityScore)
}

func TestGetCourseRecommendationsValidatesLimit(t *testing.T) {
	svc := plannerFixture(&fakeProvider{profile: plannerProfile()}, nil)

	_, _, err := svc.GetCourseRecommendations(context.Background(), dto.RecommendationRequest{StudentID: "ST12345", Limit: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, err = svc.GetCourseRecommendations(context.Background(), dto.RecommendationRequest{StudentID: "ST12345", Limit: 25})
	require.Error(t, err)
}

func TestSeedTermType(t *testing.T) {
	assert.Equal(t, models.TermFall, seedTermType(time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.TermSpring, seedTermType(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.TermSpring, seedTermType(time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)))
}
