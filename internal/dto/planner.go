package dto

import "github.com/pathwise/degree-path-api/internal/models"

// PathPlanRequest carries the inputs for a full path computation. StartTerm is
// explicit so plans are reproducible regardless of when they are requested;
// when empty the service seeds it from its clock.
type PathPlanRequest struct {
	StudentID     string          `json:"student_id" validate:"required"`
	StartTerm     models.TermType `json:"start_term" validate:"omitempty,oneof=Fall Spring"`
	IncludeAdvice bool            `json:"include_advice"`
	Refresh       bool            `json:"refresh"`
}

// RecommendationRequest asks for the top scored courses without term packing.
type RecommendationRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Limit     int    `json:"limit" validate:"min=1,max=20"`
}

// StudentOverviewResponse aggregates a student's academic standing.
type StudentOverviewResponse struct {
	Student     models.StudentProfile     `json:"student"`
	Completed   []models.CompletionRecord `json:"completed_courses"`
	Enrolled    []models.EnrollmentRecord `json:"enrolled_courses"`
	Progress    *models.DegreeProgress    `json:"degree_progress,omitempty"`
	GPA         string                    `json:"gpa"`
	PeerSignals int                       `json:"peer_signals"`
}
