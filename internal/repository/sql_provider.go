package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/pathwise/degree-path-api/internal/models"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
)

// SQLProvider is the Postgres-backed course data provider. It composes the
// student and course repositories behind the single interface the planner
// consumes.
type SQLProvider struct {
	students *StudentRepository
	courses  *CourseRepository
}

// NewSQLProvider constructs a SQLProvider over one database handle.
func NewSQLProvider(db *sqlx.DB) *SQLProvider {
	return &SQLProvider{
		students: NewStudentRepository(db),
		courses:  NewCourseRepository(db),
	}
}

// ListStudents returns the student directory.
func (p *SQLProvider) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	return p.students.List(ctx, filter)
}

// GetStudentProfile resolves one student profile, mapping missing rows to the
// domain not-found error.
func (p *SQLProvider) GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	profile, err := p.students.GetProfile(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, err
	}
	return profile, nil
}

// GetCompletedCourses returns the student's completed coursework.
func (p *SQLProvider) GetCompletedCourses(ctx context.Context, studentID string) ([]models.CompletionRecord, error) {
	return p.students.GetCompleted(ctx, studentID)
}

// GetEnrolledCourses returns the student's current enrollments.
func (p *SQLProvider) GetEnrolledCourses(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error) {
	return p.students.GetEnrolled(ctx, studentID)
}

// GetAvailableCourses returns unfinished courses on the student's degree path.
func (p *SQLProvider) GetAvailableCourses(ctx context.Context, studentID string) ([]models.Course, error) {
	return p.courses.GetAvailable(ctx, studentID)
}

// GetPrerequisites returns direct prerequisites of a course.
func (p *SQLProvider) GetPrerequisites(ctx context.Context, courseID string) ([]models.CourseRef, error) {
	return p.courses.GetPrerequisites(ctx, courseID)
}

// GetCoursesUnlockedBy returns courses gated on the given course.
func (p *SQLProvider) GetCoursesUnlockedBy(ctx context.Context, courseID string) ([]models.CourseRef, error) {
	return p.courses.GetUnlockedBy(ctx, courseID)
}

// GetSimilarStudents returns learning-style peers with performance signals.
func (p *SQLProvider) GetSimilarStudents(ctx context.Context, studentID string) ([]models.PeerSummary, error) {
	return p.students.GetSimilar(ctx, studentID)
}

// GetDegreeProgress returns the requirement-group rollup for the student.
func (p *SQLProvider) GetDegreeProgress(ctx context.Context, studentID string) (*models.DegreeProgress, error) {
	return p.courses.GetDegreeProgress(ctx, studentID)
}
