package models

// Severity grades a risk factor.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Risk factor types emitted by the analyzer, in detection order.
const (
	RiskHighDifficultyLoad    = "High Difficulty Load"
	RiskWorkStudyBalance      = "Work-Study Balance"
	RiskLearningStyleMismatch = "Learning Style Mismatch"
	RiskComplexPrerequisites  = "Complex Prerequisites"
)

// RiskFactor is a heuristic warning about an aspect of a generated plan.
type RiskFactor struct {
	Type           string   `json:"type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}
