package models

// TermType identifies the scheduling period. Summer is never auto-selected by
// the packer; Fall and Spring alternate.
type TermType string

const (
	TermFall   TermType = "Fall"
	TermSpring TermType = "Spring"
	TermSummer TermType = "Summer"
)

// Next returns the term type following the receiver. Summer inputs resume the
// Fall/Spring cycle.
func (t TermType) Next() TermType {
	if t == TermFall {
		return TermSpring
	}
	return TermFall
}

// RiskLevel classifies the load of a planned term.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// TermPlanEntry is one scheduling period in the generated plan.
type TermPlanEntry struct {
	TermNumber          int            `json:"term_number"`
	TermType            TermType       `json:"term_type"`
	Courses             []ScoredCourse `json:"courses"`
	TotalCredits        int            `json:"total_credits"`
	EstimatedDifficulty float64        `json:"estimated_difficulty"`
	RiskLevel           RiskLevel      `json:"risk_level"`
}

// RequirementProgress tracks one requirement group of a degree.
type RequirementProgress struct {
	RequirementID    string `db:"requirement_id" json:"requirement_id"`
	RequirementName  string `db:"requirement_name" json:"requirement_name"`
	CreditsRequired  int    `db:"credits_required" json:"credits_required"`
	CreditsCompleted int    `db:"credits_completed" json:"credits_completed"`
	CreditsEnrolled  int    `db:"credits_enrolled" json:"credits_enrolled"`
}

// DegreeProgress is the rolled-up requirement view included with a plan.
type DegreeProgress struct {
	Requirements          []RequirementProgress `json:"requirements"`
	TotalCreditsRequired  int                   `json:"total_credits_required"`
	TotalCreditsCompleted int                   `json:"total_credits_completed"`
	TotalCreditsEnrolled  int                   `json:"total_credits_enrolled"`
	TotalCreditsRemaining int                   `json:"total_credits_remaining"`
	CompletionPercentage  float64               `json:"completion_percentage"`
}

// PathPlan is the full optimizer output for one student.
type PathPlan struct {
	Student             StudentProfile  `json:"student_info"`
	DegreeProgress      *DegreeProgress `json:"degree_progress,omitempty"`
	OptimalSequence     []ScoredCourse  `json:"optimal_sequence"`
	TermPlan            []TermPlanEntry `json:"term_plan"`
	EstimatedGraduation string          `json:"estimated_graduation"`
	TotalTermsRemaining int             `json:"total_terms_remaining"`
	RiskFactors         []RiskFactor    `json:"risk_factors"`
	AIInsights          string          `json:"ai_insights,omitempty"`
	Truncated           bool            `json:"truncated,omitempty"`
}
