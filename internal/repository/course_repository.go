package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pathwise/degree-path-api/internal/models"
)

// CourseRepository reads the course catalog, prerequisite edges and degree
// requirement groups from Postgres.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetAvailable returns catalog courses the student still needs: everything
// attached to their degree requirements minus completed coursework.
func (r *CourseRepository) GetAvailable(ctx context.Context, studentID string) ([]models.Course, error) {
	query := `SELECT DISTINCT c.id, c.name, c.credits, c.department, c.level, c.avg_difficulty,
        c.instruction_modes, c.tags, c.terms_offered
        FROM students s
        JOIN degree_requirements dr ON dr.degree_id = s.degree_id
        JOIN requirement_courses rc ON rc.requirement_id = dr.id
        JOIN courses c ON c.id = rc.course_id
        WHERE s.id = $1
          AND c.id NOT IN (SELECT course_id FROM completions WHERE student_id = $1)
          AND c.id NOT IN (SELECT course_id FROM enrollments WHERE student_id = $1)
        ORDER BY c.id ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("get available courses for %s: %w", studentID, err)
	}
	return courses, nil
}

// GetPrerequisites returns the direct prerequisites of a course.
func (r *CourseRepository) GetPrerequisites(ctx context.Context, courseID string) ([]models.CourseRef, error) {
	query := `SELECT c.id, c.name, c.credits, c.level
        FROM prerequisites p
        JOIN courses c ON c.id = p.prerequisite_id
        WHERE p.course_id = $1
        ORDER BY c.id ASC`
	var refs []models.CourseRef
	if err := r.db.SelectContext(ctx, &refs, query, courseID); err != nil {
		return nil, fmt.Errorf("get prerequisites for %s: %w", courseID, err)
	}
	return refs, nil
}

// GetUnlockedBy returns courses for which the given course is a direct
// prerequisite.
func (r *CourseRepository) GetUnlockedBy(ctx context.Context, courseID string) ([]models.CourseRef, error) {
	query := `SELECT c.id, c.name, c.credits, c.level
        FROM prerequisites p
        JOIN courses c ON c.id = p.course_id
        WHERE p.prerequisite_id = $1
        ORDER BY c.id ASC`
	var refs []models.CourseRef
	if err := r.db.SelectContext(ctx, &refs, query, courseID); err != nil {
		return nil, fmt.Errorf("get unlocks for %s: %w", courseID, err)
	}
	return refs, nil
}

// GetDegreeProgress rolls completed and enrolled credits up per requirement
// group for the student's degree.
func (r *CourseRepository) GetDegreeProgress(ctx context.Context, studentID string) (*models.DegreeProgress, error) {
	query := `SELECT dr.id AS requirement_id, dr.name AS requirement_name, dr.credits_required,
        COALESCE(done.credits, 0) AS credits_completed,
        COALESCE(active.credits, 0) AS credits_enrolled
        FROM students s
        JOIN degree_requirements dr ON dr.degree_id = s.degree_id
        LEFT JOIN LATERAL (
            SELECT SUM(c.credits) AS credits
            FROM requirement_courses rc
            JOIN completions comp ON comp.course_id = rc.course_id AND comp.student_id = s.id
            JOIN courses c ON c.id = rc.course_id
            WHERE rc.requirement_id = dr.id
        ) done ON true
        LEFT JOIN LATERAL (
            SELECT SUM(c.credits) AS credits
            FROM requirement_courses rc
            JOIN enrollments e ON e.course_id = rc.course_id AND e.student_id = s.id
            JOIN courses c ON c.id = rc.course_id
            WHERE rc.requirement_id = dr.id
        ) active ON true
        WHERE s.id = $1
        ORDER BY dr.id ASC`
	var requirements []models.RequirementProgress
	if err := r.db.SelectContext(ctx, &requirements, query, studentID); err != nil {
		return nil, fmt.Errorf("get degree progress for %s: %w", studentID, err)
	}
	return rollUpProgress(requirements), nil
}

// rollUpProgress totals requirement groups into the degree-level view.
// Completed credits are capped at each group's requirement so over-completion
// in one group never masks a shortfall in another.
func rollUpProgress(requirements []models.RequirementProgress) *models.DegreeProgress {
	progress := &models.DegreeProgress{Requirements: requirements}
	for _, req := range requirements {
		progress.TotalCreditsRequired += req.CreditsRequired
		counted := req.CreditsCompleted
		if counted > req.CreditsRequired {
			counted = req.CreditsRequired
		}
		progress.TotalCreditsCompleted += counted
		progress.TotalCreditsEnrolled += req.CreditsEnrolled
	}
	progress.TotalCreditsRemaining = progress.TotalCreditsRequired - progress.TotalCreditsCompleted
	if progress.TotalCreditsRemaining < 0 {
		progress.TotalCreditsRemaining = 0
	}
	if progress.TotalCreditsRequired > 0 {
		progress.CompletionPercentage = float64(progress.TotalCreditsCompleted) / float64(progress.TotalCreditsRequired) * 100
	}
	return progress
}
