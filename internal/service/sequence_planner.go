package service

import (
	"sort"

	"github.com/pathwise/degree-path-api/internal/models"
)

// buildOptimalSequence scores every available course and returns them ordered
// by descending priority. The sort is stable so catalog input order breaks
// ties deterministically. Each entry carries its resolved prerequisite and
// unlock lists for the packer and the response payload.
func buildOptimalSequence(
	courses []models.Course,
	scorer *courseScorer,
	prereqs map[string][]models.CourseRef,
	unlocks map[string][]models.CourseRef,
) []models.ScoredCourse {
	sequence := make([]models.ScoredCourse, 0, len(courses))
	for _, course := range courses {
		sequence = append(sequence, models.ScoredCourse{
			Course:               course,
			PriorityScore:        scorer.Score(course),
			Prerequisites:        prereqs[course.ID],
			Unlocks:              unlocks[course.ID],
			LearningStyleMatch:   scorer.StyleMatch(course),
			DifficultyPrediction: scorer.PredictDifficulty(course),
		})
	}

	sort.SliceStable(sequence, func(i, j int) bool {
		return sequence[i].PriorityScore > sequence[j].PriorityScore
	})

	return sequence
}
