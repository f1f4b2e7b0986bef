package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pathwise/degree-path-api/internal/models"
)

// StudentRepository reads student profiles, academic history and peer signals
// from Postgres.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filter.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	query := `SELECT s.id, s.name, s.learning_style,
        COALESCE(d.name, '') AS degree_name,
        COALESCE(s.expected_graduation, '') AS expected_graduation
        FROM students s
        LEFT JOIN degrees d ON d.id = s.degree_id`
	args := []interface{}{}

	if filter.Search != "" {
		query += fmt.Sprintf(" WHERE LOWER(s.name) LIKE $%d OR LOWER(s.id) LIKE $%d", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY s.name ASC LIMIT %d", limit)

	var students []models.StudentSummary
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// GetProfile fetches a single student profile. Returns sql.ErrNoRows wrapped
// when the student is unknown.
func (r *StudentRepository) GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	query := `SELECT s.id, s.name, s.learning_style, s.preferred_course_load, s.preferred_pace,
        s.work_hours_per_week, s.preferred_instruction_mode,
        COALESCE(s.degree_id, '') AS degree_id,
        COALESCE(d.name, '') AS degree_name,
        COALESCE(s.expected_graduation, '') AS expected_graduation
        FROM students s
        LEFT JOIN degrees d ON d.id = s.degree_id
        WHERE s.id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get student profile %s: %w", studentID, err)
	}
	return &profile, nil
}

// GetCompleted returns the student's finished courses with grades.
func (r *StudentRepository) GetCompleted(ctx context.Context, studentID string) ([]models.CompletionRecord, error) {
	query := `SELECT c.id AS course_id, c.name AS course_name, comp.term, comp.grade, c.credits
        FROM completions comp
        JOIN courses c ON c.id = comp.course_id
        WHERE comp.student_id = $1
        ORDER BY comp.term ASC, c.id ASC`
	var records []models.CompletionRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("get completed courses for %s: %w", studentID, err)
	}
	return records, nil
}

// GetEnrolled returns the student's in-progress courses.
func (r *StudentRepository) GetEnrolled(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error) {
	query := `SELECT c.id AS course_id, c.name AS course_name, e.term, c.credits
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1
        ORDER BY c.id ASC`
	var records []models.EnrollmentRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("get enrolled courses for %s: %w", studentID, err)
	}
	return records, nil
}

// GetSimilar returns peers sharing the student's learning style, scored by
// overlap in completed coursework.
func (r *StudentRepository) GetSimilar(ctx context.Context, studentID string) ([]models.PeerSummary, error) {
	query := `SELECT p.id, p.name, p.learning_style,
        COALESCE(sim.similarity, 0.5) AS similarity,
        COALESCE(stats.average_gpa, 0) AS average_gpa,
        COALESCE(stats.courses_completed, 0) AS courses_completed
        FROM students s
        JOIN students p ON p.learning_style = s.learning_style AND p.id <> s.id
        LEFT JOIN student_similarity sim ON sim.student_id = s.id AND sim.peer_id = p.id
        LEFT JOIN LATERAL (
            SELECT COUNT(*) AS courses_completed,
                   AVG(CASE comp.grade
                       WHEN 'A' THEN 4.0 WHEN 'A-' THEN 3.7
                       WHEN 'B+' THEN 3.3 WHEN 'B' THEN 3.0 WHEN 'B-' THEN 2.7
                       WHEN 'C+' THEN 2.3 WHEN 'C' THEN 2.0 WHEN 'C-' THEN 1.7
                       WHEN 'D' THEN 1.0 ELSE 0.0 END) AS average_gpa
            FROM completions comp WHERE comp.student_id = p.id
        ) stats ON true
        WHERE s.id = $1
        ORDER BY similarity DESC, p.id ASC
        LIMIT 10`
	var peers []models.PeerSummary
	if err := r.db.SelectContext(ctx, &peers, query, studentID); err != nil {
		return nil, fmt.Errorf("get similar students for %s: %w", studentID, err)
	}
	return peers, nil
}
