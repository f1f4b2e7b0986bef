package service

import (
	"fmt"

	"github.com/pathwise/degree-path-api/internal/models"
)

var gradePoints = map[string]float64{
	"A": 4.0, "A-": 3.7, "B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7, "D+": 1.3, "D": 1.0, "F": 0.0,
}

// computeGPA returns the credit-weighted GPA over completed courses, formatted
// to two decimals. Unknown grades count as 0.0.
func computeGPA(completed []models.CompletionRecord) string {
	if len(completed) == 0 {
		return "No grades available"
	}

	totalPoints := 0.0
	totalCredits := 0
	for _, record := range completed {
		credits := record.Credits
		if credits <= 0 {
			credits = 3
		}
		totalPoints += gradePoints[record.Grade] * float64(credits)
		totalCredits += credits
	}

	if totalCredits == 0 {
		return "No credits available"
	}
	return fmt.Sprintf("%.2f", totalPoints/float64(totalCredits))
}
