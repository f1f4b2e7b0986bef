package service

import (
	"context"

	"github.com/pathwise/degree-path-api/internal/models"
)

// CourseDataProvider resolves student and catalog data for the optimizer. Both
// the Postgres and the Neo4j backends satisfy it; the optimizer never sees
// which one it is talking to.
type CourseDataProvider interface {
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error)
	GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	GetCompletedCourses(ctx context.Context, studentID string) ([]models.CompletionRecord, error)
	GetEnrolledCourses(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error)
	GetAvailableCourses(ctx context.Context, studentID string) ([]models.Course, error)
	GetPrerequisites(ctx context.Context, courseID string) ([]models.CourseRef, error)
	GetCoursesUnlockedBy(ctx context.Context, courseID string) ([]models.CourseRef, error)
	GetSimilarStudents(ctx context.Context, studentID string) ([]models.PeerSummary, error)
	GetDegreeProgress(ctx context.Context, studentID string) (*models.DegreeProgress, error)
}
