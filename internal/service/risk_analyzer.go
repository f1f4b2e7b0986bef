package service

import (
	"fmt"

	"github.com/pathwise/degree-path-api/internal/models"
)

// analyzeRisks runs the four heuristic checks over the sequenced plan. The
// checks are independent and always evaluated in the same order so the output
// is deterministic.
func analyzeRisks(profile models.StudentProfile, sequence []models.ScoredCourse) []models.RiskFactor {
	risks := make([]models.RiskFactor, 0, 4)

	highDifficulty := 0
	for _, course := range sequence {
		if course.DifficultyPrediction > 4.0 {
			highDifficulty++
		}
	}
	if highDifficulty > 3 {
		risks = append(risks, models.RiskFactor{
			Type:           models.RiskHighDifficultyLoad,
			Severity:       models.SeverityMedium,
			Description:    fmt.Sprintf("Plan includes %d high-difficulty courses", highDifficulty),
			Recommendation: "Consider spreading difficult courses across more terms",
		})
	}

	if profile.WorkHoursPerWeek > 20 {
		risks = append(risks, models.RiskFactor{
			Type:           models.RiskWorkStudyBalance,
			Severity:       models.SeverityHigh,
			Description:    fmt.Sprintf("Working %d hours per week while studying", profile.WorkHoursPerWeek),
			Recommendation: "Consider reducing course load or work hours during difficult terms",
		})
	}

	mismatched := 0
	head := sequence
	if len(head) > 6 {
		head = head[:6]
	}
	for _, course := range head {
		if course.LearningStyleMatch < 0.3 {
			mismatched++
		}
	}
	if mismatched > 0 {
		risks = append(risks, models.RiskFactor{
			Type:           models.RiskLearningStyleMismatch,
			Severity:       models.SeverityLow,
			Description:    fmt.Sprintf("%d courses may not align with your learning style", mismatched),
			Recommendation: "Seek additional support or alternative sections for these courses",
		})
	}

	complex := 0
	for _, course := range sequence {
		if len(course.Prerequisites) > 2 {
			complex++
		}
	}
	if complex > 0 {
		risks = append(risks, models.RiskFactor{
			Type:           models.RiskComplexPrerequisites,
			Severity:       models.SeverityMedium,
			Description:    "Some courses have long prerequisite chains",
			Recommendation: "Plan carefully to avoid delays if any prerequisite course is failed",
		})
	}

	return risks
}
