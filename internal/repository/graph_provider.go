package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pathwise/degree-path-api/internal/models"
	"github.com/pathwise/degree-path-api/pkg/errors"
	"github.com/pathwise/degree-path-api/pkg/graphdb"
)

// GraphProvider is the Neo4j-backed course data provider. The catalog is
// modelled as Course nodes with PREREQUISITE_FOR edges; students connect via
// COMPLETED, ENROLLED_IN and PURSUING, and peer signals come from
// SIMILAR_LEARNING_STYLE and SIMILAR_PERFORMANCE edges.
type GraphProvider struct {
	client *graphdb.Client
}

// NewGraphProvider constructs a GraphProvider.
func NewGraphProvider(client *graphdb.Client) *GraphProvider {
	return &GraphProvider{client: client}
}

func (p *GraphProvider) read(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := p.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: p.client.Database,
	})
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(records))
		for _, record := range records {
			out = append(out, record.AsMap())
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return rows.([]map[string]any), nil
}

// ListStudents returns the student directory.
func (p *GraphProvider) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `MATCH (s:Student)
        OPTIONAL MATCH (s)-[:PURSUING]->(d:Degree)
        RETURN s.id AS id, s.name AS name, s.learningStyle AS learning_style,
               d.name AS degree_name, s.expectedGraduation AS expected_graduation
        ORDER BY s.name LIMIT $limit`
	rows, err := p.read(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	search := strings.ToLower(filter.Search)
	students := make([]models.StudentSummary, 0, len(rows))
	for _, row := range rows {
		summary := models.StudentSummary{
			ID:                 asString(row["id"]),
			Name:               asString(row["name"]),
			LearningStyle:      models.LearningStyle(asString(row["learning_style"])),
			DegreeName:         asString(row["degree_name"]),
			ExpectedGraduation: asString(row["expected_graduation"]),
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(summary.Name), search) &&
			!strings.Contains(strings.ToLower(summary.ID), search) {
			continue
		}
		students = append(students, summary)
	}
	return students, nil
}

// GetStudentProfile resolves one student profile.
func (p *GraphProvider) GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	query := `MATCH (s:Student {id: $student_id})
        OPTIONAL MATCH (s)-[:PURSUING]->(d:Degree)
        RETURN s.id AS id, s.name AS name, s.learningStyle AS learning_style,
               s.preferredCourseLoad AS preferred_course_load,
               s.preferredPace AS preferred_pace,
               s.workHoursPerWeek AS work_hours_per_week,
               s.preferredInstructionMode AS preferred_instruction_mode,
               d.id AS degree_id, d.name AS degree_name,
               s.expectedGraduation AS expected_graduation`
	rows, err := p.read(ctx, query, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("get student profile %s: %w", studentID, err)
	}
	if len(rows) == 0 {
		return nil, errors.ErrStudentNotFound
	}
	row := rows[0]
	return &models.StudentProfile{
		ID:                       asString(row["id"]),
		Name:                     asString(row["name"]),
		LearningStyle:            models.LearningStyle(asString(row["learning_style"])),
		PreferredCourseLoad:      asInt(row["preferred_course_load"]),
		PreferredPace:            models.Pace(asString(row["preferred_pace"])),
		WorkHoursPerWeek:         asInt(row["work_hours_per_week"]),
		PreferredInstructionMode: asString(row["preferred_instruction_mode"]),
		DegreeID:                 asString(row["degree_id"]),
		DegreeName:               asString(row["degree_name"]),
		ExpectedGraduation:       asString(row["expected_graduation"]),
	}, nil
}

// GetCompletedCourses returns coursework the student has finished.
func (p *GraphProvider) GetCompletedCourses(ctx context.Context, studentID string) ([]models.CompletionRecord, error) {
	query := `MATCH (s:Student {id: $student_id})-[comp:COMPLETED]->(c:Course)
        RETURN c.id AS course_id, c.name AS course_name, c.credits AS credits,
               comp.grade AS grade, comp.term AS term
        ORDER BY comp.term, c.level, c.name`
	rows, err := p.read(ctx, query, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("get completed courses for %s: %w", studentID, err)
	}
	records := make([]models.CompletionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.CompletionRecord{
			CourseID:   asString(row["course_id"]),
			CourseName: asString(row["course_name"]),
			Term:       asString(row["term"]),
			Grade:      asString(row["grade"]),
			Credits:    asInt(row["credits"]),
		})
	}
	return records, nil
}

// GetEnrolledCourses returns courses the student is currently taking.
func (p *GraphProvider) GetEnrolledCourses(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error) {
	query := `MATCH (s:Student {id: $student_id})-[enr:ENROLLED_IN]->(c:Course)
        RETURN c.id AS course_id, c.name AS course_name, c.credits AS credits, enr.term AS term
        ORDER BY enr.term, c.level, c.name`
	rows, err := p.read(ctx, query, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("get enrolled courses for %s: %w", studentID, err)
	}
	records := make([]models.EnrollmentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.EnrollmentRecord{
			CourseID:   asString(row["course_id"]),
			CourseName: asString(row["course_name"]),
			Term:       asString(row["term"]),
			Credits:    asInt(row["credits"]),
		})
	}
	return records, nil
}

// GetAvailableCourses returns degree courses the student has neither completed
// nor enrolled in.
func (p *GraphProvider) GetAvailableCourses(ctx context.Context, studentID string) ([]models.Course, error) {
	query := `MATCH (s:Student {id: $student_id})-[:PURSUING]->(d:Degree)
        MATCH (c:Course)-[:FULFILLS]->(:RequirementGroup)-[:PART_OF]->(d)
        WHERE NOT (s)-[:COMPLETED]->(c) AND NOT (s)-[:ENROLLED_IN]->(c)
        RETURN DISTINCT c.id AS course_id, c.name AS course_name, c.credits AS credits,
               c.department AS department, c.level AS level,
               c.avgDifficulty AS avg_difficulty, c.instructionModes AS instruction_modes,
               c.tags AS tags, c.termsOffered AS terms_offered
        ORDER BY c.level, c.name`
	rows, err := p.read(ctx, query, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("get available courses for %s: %w", studentID, err)
	}
	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, models.Course{
			ID:               asString(row["course_id"]),
			Name:             asString(row["course_name"]),
			Credits:          asInt(row["credits"]),
			Department:       asString(row["department"]),
			Level:            asInt(row["level"]),
			AvgDifficulty:    asFloat(row["avg_difficulty"]),
			InstructionModes: pq.StringArray(asStrings(row["instruction_modes"])),
			Tags:             pq.StringArray(asStrings(row["tags"])),
			TermsOffered:     pq.StringArray(asStrings(row["terms_offered"])),
		})
	}
	return courses, nil
}

// GetPrerequisites returns the direct prerequisites of a course.
func (p *GraphProvider) GetPrerequisites(ctx context.Context, courseID string) ([]models.CourseRef, error) {
	query := `MATCH (prereq:Course)-[:PREREQUISITE_FOR]->(c:Course {id: $course_id})
        RETURN prereq.id AS course_id, prereq.name AS course_name,
               prereq.credits AS credits, prereq.level AS level
        ORDER BY prereq.level, prereq.name`
	rows, err := p.read(ctx, query, map[string]any{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("get prerequisites for %s: %w", courseID, err)
	}
	return courseRefs(rows), nil
}

// GetCoursesUnlockedBy returns courses gated on the given course.
func (p *GraphProvider) GetCoursesUnlockedBy(ctx context.Context, courseID string) ([]models.CourseRef, error) {
	query := `MATCH (c:Course {id: $course_id})-[:PREREQUISITE_FOR]->(unlocked:Course)
        RETURN unlocked.id AS course_id, unlocked.name AS course_name,
               unlocked.credits AS credits, unlocked.level AS level
        ORDER BY unlocked.level, unlocked.name`
	rows, err := p.read(ctx, query, map[string]any{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("get unlocks for %s: %w", courseID, err)
	}
	return courseRefs(rows), nil
}

// GetSimilarStudents returns peers with precomputed similarity edges.
func (p *GraphProvider) GetSimilarStudents(ctx context.Context, studentID string) ([]models.PeerSummary, error) {
	query := `MATCH (s:Student {id: $student_id})
        MATCH (s)-[sim:SIMILAR_LEARNING_STYLE|SIMILAR_PERFORMANCE]->(similar:Student)
        WHERE sim.similarity >= 0.7
        OPTIONAL MATCH (similar)-[comp:COMPLETED]->(:Course)
        WITH similar, sim,
             AVG(CASE comp.grade
                 WHEN 'A' THEN 4.0 WHEN 'A-' THEN 3.7 WHEN 'B+' THEN 3.3
                 WHEN 'B' THEN 3.0 WHEN 'B-' THEN 2.7 WHEN 'C+' THEN 2.3
                 WHEN 'C' THEN 2.0 WHEN 'C-' THEN 1.7 WHEN 'D' THEN 1.0
                 ELSE 0.0 END) AS avg_gpa,
             COUNT(comp) AS courses_completed
        RETURN similar.id AS id, similar.name AS name,
               similar.learningStyle AS learning_style,
               sim.similarity AS similarity, avg_gpa, courses_completed
        ORDER BY sim.similarity DESC LIMIT 10`
	rows, err := p.read(ctx, query, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("get similar students for %s: %w", studentID, err)
	}
	peers := make([]models.PeerSummary, 0, len(rows))
	for _, row := range rows {
		peers = append(peers, models.PeerSummary{
			ID:               asString(row["id"]),
			Name:             asString(row["name"]),
			LearningStyle:    models.LearningStyle(asString(row["learning_style"])),
			Similarity:       asFloat(row["similarity"]),
			AverageGPA:       asFloat(row["avg_gpa"]),
			CoursesCompleted: asInt(row["courses_completed"]),
		})
	}
	return peers, nil
}

// GetDegreeProgress rolls completed and enrolled credits up per requirement
// group.
func (p *GraphProvider) GetDegreeProgress(ctx context.Context, studentID string) (*models.DegreeProgress, error) {
	query := `MATCH (s:Student {id: $student_id})-[:PURSUING]->(d:Degree)
        MATCH (rg:RequirementGroup)-[:PART_OF]->(d)
        OPTIONAL MATCH (s)-[:COMPLETED]->(done:Course)-[:FULFILLS]->(rg)
        OPTIONAL MATCH (s)-[:ENROLLED_IN]->(active:Course)-[:FULFILLS]->(rg)
        WITH rg, SUM(DISTINCT done.credits) AS completed_credits,
             SUM(DISTINCT active.credits) AS enrolled_credits
        RETURN rg.id AS requirement_id, rg.name AS requirement_name,
               rg.creditsRequired AS credits_required,
               COALESCE(completed_credits, 0) AS credits_completed,
               COALESCE(enrolled_credits, 0) AS credits_enrolled
        ORDER BY rg.name`
	rows, err := p.read(ctx, query, map[string]any{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("get degree progress for %s: %w", studentID, err)
	}
	requirements := make([]models.RequirementProgress, 0, len(rows))
	for _, row := range rows {
		requirements = append(requirements, models.RequirementProgress{
			RequirementID:    asString(row["requirement_id"]),
			RequirementName:  asString(row["requirement_name"]),
			CreditsRequired:  asInt(row["credits_required"]),
			CreditsCompleted: asInt(row["credits_completed"]),
			CreditsEnrolled:  asInt(row["credits_enrolled"]),
		})
	}
	return rollUpProgress(requirements), nil
}

func courseRefs(rows []map[string]any) []models.CourseRef {
	refs := make([]models.CourseRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, models.CourseRef{
			ID:      asString(row["course_id"]),
			Name:    asString(row["course_name"]),
			Credits: asInt(row["credits"]),
			Level:   asInt(row["level"]),
		})
	}
	return refs
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func asStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
