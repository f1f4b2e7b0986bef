package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwise/degree-path-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "learning_style", "degree_name", "expected_graduation"}).
		AddRow("ST12345", "Alice Johnson", "Visual", "Computer Science BS", "Spring 2027").
		AddRow("ST22222", "Bob Lee", "Auditory", "", "")
	mock.ExpectQuery("SELECT s.id, s.name, s.learning_style").
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Alice Johnson", students[0].Name)
	assert.Equal(t, "Computer Science BS", students[0].DegreeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "learning_style", "degree_name", "expected_graduation"}).
		AddRow("ST12345", "Alice Johnson", "Visual", "", "")
	mock.ExpectQuery("WHERE LOWER\\(s.name\\) LIKE \\$1 OR LOWER\\(s.id\\) LIKE \\$1").
		WithArgs("%alice%").
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{Search: "Alice"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ST12345", students[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetProfile(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "learning_style", "preferred_course_load", "preferred_pace",
		"work_hours_per_week", "preferred_instruction_mode", "degree_id", "degree_name", "expected_graduation",
	}).AddRow("ST12345", "Alice Johnson", "Visual", 2, "Standard", 10, "Online", "DEG1", "Computer Science BS", "Spring 2027")
	mock.ExpectQuery("FROM students s").
		WithArgs("ST12345").
		WillReturnRows(rows)

	profile, err := repo.GetProfile(context.Background(), "ST12345")
	require.NoError(t, err)
	assert.Equal(t, models.StyleVisual, profile.LearningStyle)
	assert.Equal(t, 2, profile.PreferredCourseLoad)
	assert.Equal(t, 10, profile.WorkHoursPerWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetProfileNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students s").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetCompleted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "course_name", "term", "grade", "credits"}).
		AddRow("CMSC201", "Computer Science I", "Fall 2024", "A", 4).
		AddRow("ENGL100", "Composition", "Fall 2024", "B+", 3)
	mock.ExpectQuery("FROM completions comp").
		WithArgs("ST12345").
		WillReturnRows(rows)

	records, err := repo.GetCompleted(context.Background(), "ST12345")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Grade)
	assert.Equal(t, 3, records[1].Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetSimilar(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "learning_style", "similarity", "average_gpa", "courses_completed"}).
		AddRow("ST22222", "Bob Lee", "Visual", 0.82, 3.4, 12).
		AddRow("ST33333", "Cara Diaz", "Visual", 0.5, 3.9, 20)
	mock.ExpectQuery("LEFT JOIN student_similarity sim").
		WithArgs("ST12345").
		WillReturnRows(rows)

	peers, err := repo.GetSimilar(context.Background(), "ST12345")
	require.NoError(t, err)
	require.Len(t, peers, 2)
	assert.Equal(t, 0.82, peers[0].Similarity)
	assert.Equal(t, 12, peers[0].CoursesCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
