package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/dto"
	"github.com/pathwise/degree-path-api/internal/models"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
)

// PathOptimizerConfig tunes the planning pipeline.
type PathOptimizerConfig struct {
	MaxTerms       int
	CreditsPerSlot int
	CacheTTL       time.Duration
}

// PathOptimizerService runs the degree-path pipeline: prerequisite graph,
// scoring, sequencing, term packing, graduation estimate, risk analysis and
// the optional advisory bridge. Each invocation works on its own snapshot, so
// concurrent calls for different students need no coordination.
type PathOptimizerService struct {
	provider  CourseDataProvider
	advisor   *AdvisorService
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	maxTerms       int
	creditsPerSlot int
	cacheTTL       time.Duration
	now            func() time.Time
}

// NewPathOptimizerService wires planner dependencies. The advisor and cache
// are optional; a nil advisor simply leaves ai_insights empty.
func NewPathOptimizerService(
	provider CourseDataProvider,
	advisor *AdvisorService,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg PathOptimizerConfig,
) *PathOptimizerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = defaultMaxTerms
	}
	if cfg.CreditsPerSlot <= 0 {
		cfg.CreditsPerSlot = defaultCreditsPerSlot
	}
	return &PathOptimizerService{
		provider:       provider,
		advisor:        advisor,
		cache:          cache,
		metrics:        metrics,
		validator:      validate,
		logger:         logger,
		maxTerms:       cfg.MaxTerms,
		creditsPerSlot: cfg.CreditsPerSlot,
		cacheTTL:       cfg.CacheTTL,
		now:            time.Now,
	}
}

// WithClock overrides the clock used to seed the starting term type and the
// graduation estimate. Intended for tests.
func (s *PathOptimizerService) WithClock(now func() time.Time) *PathOptimizerService {
	if now != nil {
		s.now = now
	}
	return s
}

// FindOptimalPath computes the full PathPlan. The boolean reports whether the
// plan was served from cache.
func (s *PathOptimizerService) FindOptimalPath(ctx context.Context, req dto.PathPlanRequest) (*models.PathPlan, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid path plan request")
	}

	start := s.now()

	startTerm := req.StartTerm
	if startTerm == "" {
		startTerm = seedTermType(start)
	}

	// The resolved start term is part of the key: the same student asking for
	// a Spring start must not be served a cached Fall-seeded plan.
	cacheKey := fmt.Sprintf("pathplan:%s:%s:advice=%t", req.StudentID, startTerm, req.IncludeAdvice)
	if s.cache != nil {
		if req.Refresh {
			if err := s.cache.Invalidate(ctx, "pathplan:"+req.StudentID+":*"); err != nil {
				s.logger.Warn("plan cache invalidation failed", zap.String("student_id", req.StudentID), zap.Error(err))
			}
			if err := s.cache.Invalidate(ctx, "recommendations:"+req.StudentID+":*"); err != nil {
				s.logger.Warn("recommendation cache invalidation failed", zap.String("student_id", req.StudentID), zap.Error(err))
			}
		} else {
			var cached models.PathPlan
			if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
				return &cached, true, nil
			}
		}
	}

	snapshot, err := s.loadSnapshot(ctx, req.StudentID)
	if err != nil {
		return nil, false, err
	}

	sequence := s.buildSequence(ctx, snapshot)

	packer := newTermPacker(s.maxTerms, s.creditsPerSlot, s.logger)
	termPlan, truncated := packer.Pack(req.StudentID, snapshot.Student, sequence, snapshot.CompletedIDs(), startTerm)

	plan := &models.PathPlan{
		Student:             snapshot.Student,
		OptimalSequence:     sequence,
		TermPlan:            termPlan,
		EstimatedGraduation: s.estimateGraduation(snapshot.Student, len(termPlan)),
		TotalTermsRemaining: len(termPlan),
		RiskFactors:         analyzeRisks(snapshot.Student, sequence),
		Truncated:           truncated,
	}

	progressStart := time.Now()
	progress, err := s.provider.GetDegreeProgress(ctx, req.StudentID)
	s.observeQuery("degree_progress", progressStart)
	if err != nil {
		s.logger.Warn("degree progress lookup failed",
			zap.String("student_id", req.StudentID),
			zap.String("stage", "degree_progress"),
			zap.Error(err),
		)
	} else {
		plan.DegreeProgress = progress
	}

	if req.IncludeAdvice && s.advisor != nil {
		plan.AIInsights = s.advisor.PlanInsights(ctx, snapshot, sequence, len(termPlan))
	}

	if s.metrics != nil {
		s.metrics.ObservePlanComputation(time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, plan, s.cacheTTL); err != nil {
			s.logger.Warn("plan cache write failed", zap.String("student_id", req.StudentID), zap.Error(err))
		}
	}

	return plan, false, nil
}

// GetCourseRecommendations scores the available catalog and returns the top
// results without term packing. Unlock impact is not part of the score here;
// the resolved unlock lists are still attached for display.
func (s *PathOptimizerService) GetCourseRecommendations(ctx context.Context, req dto.RecommendationRequest) ([]models.ScoredCourse, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recommendation request")
	}

	cacheKey := fmt.Sprintf("recommendations:%s:%d", req.StudentID, req.Limit)
	if s.cache != nil {
		var cached []models.ScoredCourse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	snapshot, err := s.loadSnapshot(ctx, req.StudentID)
	if err != nil {
		return nil, false, err
	}

	candidates := snapshot.Available
	if len(candidates) > req.Limit*2 {
		candidates = candidates[:req.Limit*2]
	}

	prereqs, unlocks := s.fetchCourseLinks(ctx, snapshot.Student.ID, candidates)
	scorer := newCourseScorer(snapshot.Student, newCourseGraph(nil, nil), len(snapshot.Peers) > 0)
	scored := buildOptimalSequence(candidates, scorer, prereqs, unlocks)

	if len(scored) > req.Limit {
		scored = scored[:req.Limit]
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, scored, s.cacheTTL); err != nil {
			s.logger.Warn("recommendation cache write failed", zap.String("student_id", req.StudentID), zap.Error(err))
		}
	}

	return scored, false, nil
}

// loadSnapshot assembles the per-invocation view of the student. The profile
// is mandatory; history and peer lookups degrade to empty sets with a warning
// so a flaky sub-query cannot sink the whole computation.
func (s *PathOptimizerService) loadSnapshot(ctx context.Context, studentID string) (*models.StudentSnapshot, error) {
	queryStart := time.Now()
	profile, err := s.provider.GetStudentProfile(ctx, studentID)
	s.observeQuery("student_profile", queryStart)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s not found", studentID))
	}

	snapshot := &models.StudentSnapshot{Student: *profile}

	queryStart = time.Now()
	if snapshot.Completed, err = s.provider.GetCompletedCourses(ctx, studentID); err != nil {
		s.warnProvider(studentID, "completed_courses", err)
		snapshot.Completed = nil
	}
	s.observeQuery("completed_courses", queryStart)

	queryStart = time.Now()
	if snapshot.Enrolled, err = s.provider.GetEnrolledCourses(ctx, studentID); err != nil {
		s.warnProvider(studentID, "enrolled_courses", err)
		snapshot.Enrolled = nil
	}
	s.observeQuery("enrolled_courses", queryStart)

	queryStart = time.Now()
	snapshot.Available, err = s.provider.GetAvailableCourses(ctx, studentID)
	s.observeQuery("available_courses", queryStart)
	if err != nil {
		// Without a catalog there is nothing to plan.
		return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "available courses lookup failed")
	}

	queryStart = time.Now()
	if snapshot.Peers, err = s.provider.GetSimilarStudents(ctx, studentID); err != nil {
		s.warnProvider(studentID, "similar_students", err)
		snapshot.Peers = nil
	}
	s.observeQuery("similar_students", queryStart)

	return snapshot, nil
}

// buildSequence runs graph construction, scoring and sequencing over the
// snapshot's available catalog.
func (s *PathOptimizerService) buildSequence(ctx context.Context, snapshot *models.StudentSnapshot) []models.ScoredCourse {
	prereqs, unlocks := s.fetchCourseLinks(ctx, snapshot.Student.ID, snapshot.Available)
	graph := newCourseGraph(snapshot.Available, prereqs)
	scorer := newCourseScorer(snapshot.Student, graph, len(snapshot.Peers) > 0)
	return buildOptimalSequence(snapshot.Available, scorer, prereqs, unlocks)
}

// fetchCourseLinks resolves prerequisite and unlock lists for every course. A
// failed lookup leaves that course with empty lists: it can always be
// scheduled and unlocks nothing, which keeps the plan best-effort instead of
// failing it.
func (s *PathOptimizerService) fetchCourseLinks(ctx context.Context, studentID string, courses []models.Course) (map[string][]models.CourseRef, map[string][]models.CourseRef) {
	prereqs := make(map[string][]models.CourseRef, len(courses))
	unlocks := make(map[string][]models.CourseRef, len(courses))
	defer s.observeQuery("course_links", time.Now())

	for _, course := range courses {
		refs, err := s.provider.GetPrerequisites(ctx, course.ID)
		if err != nil {
			s.warnProvider(studentID, "prerequisites:"+course.ID, err)
			refs = nil
		}
		prereqs[course.ID] = refs

		refs, err = s.provider.GetCoursesUnlockedBy(ctx, course.ID)
		if err != nil {
			s.warnProvider(studentID, "unlocks:"+course.ID, err)
			refs = nil
		}
		unlocks[course.ID] = refs
	}

	return prereqs, unlocks
}

func (s *PathOptimizerService) observeQuery(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveProviderQuery(label, time.Since(start))
	}
}

func (s *PathOptimizerService) warnProvider(studentID, stage string, err error) {
	s.logger.Warn("provider sub-query failed",
		zap.String("student_id", studentID),
		zap.String("stage", stage),
		zap.Error(err),
	)
}

// estimateGraduation projects 120 days per remaining term from now. An empty
// plan falls back to the student's stated expectation.
func (s *PathOptimizerService) estimateGraduation(profile models.StudentProfile, termCount int) string {
	if termCount == 0 {
		if profile.ExpectedGraduation != "" {
			return profile.ExpectedGraduation
		}
		return "Unknown"
	}
	return s.now().AddDate(0, 0, termCount*120).Format("2006-01-02")
}

// seedTermType picks the next upcoming term from the calendar: through May the
// next full term is Fall, afterwards Spring.
func seedTermType(now time.Time) models.TermType {
	if now.Month() <= time.May {
		return models.TermFall
	}
	return models.TermSpring
}
