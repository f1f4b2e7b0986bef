package service

import (
	"strings"

	"github.com/pathwise/degree-path-api/internal/models"
)

// styleKeywords maps each learning style to the course tags that indicate a
// good fit for it.
var styleKeywords = map[models.LearningStyle][]string{
	models.StyleVisual:         {"visual", "graphics", "charts", "diagrams", "visualization"},
	models.StyleAuditory:       {"discussion", "lecture", "presentation", "verbal"},
	models.StyleKinesthetic:    {"hands-on", "lab", "practical", "project", "interactive"},
	models.StyleReadingWriting: {"writing", "reading", "research", "analysis", "documentation"},
}

// courseScorer computes priority scores for one student against one catalog
// snapshot. Scoring is pure: the same inputs always produce the same score.
type courseScorer struct {
	profile  models.StudentProfile
	graph    *courseGraph
	hasPeers bool
}

func newCourseScorer(profile models.StudentProfile, graph *courseGraph, hasPeers bool) *courseScorer {
	return &courseScorer{profile: profile, graph: graph, hasPeers: hasPeers}
}

// Score combines unlock impact, learning-style fit, course level, peer-backed
// difficulty, credit efficiency and instruction-mode preference into a single
// priority scalar. Higher scores schedule earlier.
func (s *courseScorer) Score(course models.Course) float64 {
	score := float64(s.graph.UnlockedCount(course.ID)) * 10

	score += s.StyleMatch(course) * 15

	score += (500 - float64(course.Level)) / 100 * 5

	// Peer difficulty data is a soft signal: without similar students the
	// penalty is skipped entirely rather than guessed.
	if s.hasPeers {
		score += (course.AvgDifficulty - 1) * -3
	}

	score += float64(course.Credits) * 2

	for _, mode := range course.InstructionModes {
		if mode == s.profile.PreferredInstructionMode {
			score += 5
			break
		}
	}

	return score
}

// StyleMatch rates tag alignment with the student's learning style on [0, 1].
// Courses without tags, and unrecognised styles, rate neutral (0.5).
func (s *courseScorer) StyleMatch(course models.Course) float64 {
	keywords := styleKeywords[s.profile.LearningStyle]
	if len(course.Tags) == 0 || len(keywords) == 0 {
		return 0.5
	}

	matches := 0
	for _, tag := range course.Tags {
		lowered := strings.ToLower(tag)
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				matches++
				break
			}
		}
	}

	ratio := float64(matches) / float64(len(course.Tags))
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// PredictDifficulty adjusts the catalog's average difficulty by the style
// match: a better fit lowers perceived difficulty. Clamped to [1, 5].
func (s *courseScorer) PredictDifficulty(course models.Course) float64 {
	predicted := course.AvgDifficulty + (0.5-s.StyleMatch(course))*2
	if predicted < 1.0 {
		return 1.0
	}
	if predicted > 5.0 {
		return 5.0
	}
	return predicted
}
