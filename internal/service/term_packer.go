package service

import (
	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/models"
)

const (
	defaultMaxTerms       = 20
	defaultCreditsPerSlot = 4
)

// termPacker partitions a scored sequence into consecutive terms under load,
// credit and difficulty constraints.
type termPacker struct {
	maxTerms       int
	creditsPerSlot int
	logger         *zap.Logger
}

func newTermPacker(maxTerms, creditsPerSlot int, logger *zap.Logger) *termPacker {
	if maxTerms <= 0 {
		maxTerms = defaultMaxTerms
	}
	if creditsPerSlot <= 0 {
		creditsPerSlot = defaultCreditsPerSlot
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &termPacker{maxTerms: maxTerms, creditsPerSlot: creditsPerSlot, logger: logger}
}

// maxCoursesPerTerm derives the per-term course cap from pace and workload.
func maxCoursesPerTerm(profile models.StudentProfile) int {
	load := profile.PreferredCourseLoad
	if load <= 0 {
		load = 4
	}

	switch {
	case profile.PreferredPace == models.PacePartTime || profile.WorkHoursPerWeek > 20:
		if load-1 < 2 {
			return 2
		}
		return load - 1
	case profile.PreferredPace == models.PaceAccelerated:
		if load+1 > 6 {
			return 6
		}
		return load + 1
	default:
		return load
	}
}

// Pack greedily fills terms from the sequence. Courses become eligible only
// once every prerequisite is in the completed history or a prior term. A term
// that places nothing is dropped but still advances the counter, so a catalog
// with unsatisfiable prerequisites terminates at the term cap instead of
// looping; the returned flag reports that truncation.
func (p *termPacker) Pack(
	studentID string,
	profile models.StudentProfile,
	sequence []models.ScoredCourse,
	completed map[string]struct{},
	startTerm models.TermType,
) ([]models.TermPlanEntry, bool) {
	maxCourses := maxCoursesPerTerm(profile)
	maxCredits := maxCourses * p.creditsPerSlot

	// History is shared state across terms; clone so the caller's set is not
	// mutated while packing.
	history := make(map[string]struct{}, len(completed))
	for id := range completed {
		history[id] = struct{}{}
	}

	remaining := make([]models.ScoredCourse, len(sequence))
	copy(remaining, sequence)

	terms := make([]models.TermPlanEntry, 0)
	termType := startTerm
	truncated := false

	for termCounter := 1; len(remaining) > 0; termCounter++ {
		if termCounter > p.maxTerms {
			truncated = true
			p.logger.Warn("term packing exhausted",
				zap.String("student_id", studentID),
				zap.String("stage", "term_packer"),
				zap.Int("unplaced_courses", len(remaining)),
				zap.Int("max_terms", p.maxTerms),
			)
			break
		}

		// Eligibility is fixed at term start: courses placed within the term
		// do not unlock anything until the next one.
		eligible := make([]models.ScoredCourse, 0, len(remaining))
		for _, course := range remaining {
			if prereqsMet(course, history) {
				eligible = append(eligible, course)
			}
		}

		entry := models.TermPlanEntry{
			TermNumber: termCounter,
			TermType:   termType,
			RiskLevel:  models.RiskLow,
		}
		placed := make(map[string]struct{}, maxCourses)
		totalDifficulty := 0.0

		for _, course := range eligible {
			if len(entry.Courses) >= maxCourses {
				break
			}
			if entry.TotalCredits+course.Credits > maxCredits {
				continue
			}
			// Difficulty-clustering guard: once the term is already loaded
			// with hard material, keep further high-difficulty courses out.
			if len(entry.Courses) > 0 &&
				course.DifficultyPrediction > 4.0 &&
				totalDifficulty/float64(len(entry.Courses)) > 3.5 {
				continue
			}

			entry.Courses = append(entry.Courses, course)
			entry.TotalCredits += course.Credits
			totalDifficulty += course.DifficultyPrediction
			placed[course.ID] = struct{}{}
			history[course.ID] = struct{}{}
		}

		if len(entry.Courses) > 0 {
			entry.EstimatedDifficulty = totalDifficulty / float64(len(entry.Courses))
			entry.RiskLevel = termRiskLevel(entry)
			terms = append(terms, entry)

			next := remaining[:0]
			for _, course := range remaining {
				if _, ok := placed[course.ID]; !ok {
					next = append(next, course)
				}
			}
			remaining = next
		}

		termType = termType.Next()
	}

	return terms, truncated
}

func prereqsMet(course models.ScoredCourse, history map[string]struct{}) bool {
	for _, prereq := range course.Prerequisites {
		if _, ok := history[prereq.ID]; !ok {
			return false
		}
	}
	return true
}

// termRiskLevel scores a packed term on difficulty, course count and credits.
func termRiskLevel(term models.TermPlanEntry) models.RiskLevel {
	score := 0

	switch {
	case term.EstimatedDifficulty > 4.0:
		score += 3
	case term.EstimatedDifficulty > 3.5:
		score += 2
	case term.EstimatedDifficulty > 3.0:
		score++
	}

	switch {
	case len(term.Courses) > 5:
		score += 2
	case len(term.Courses) > 4:
		score++
	}

	switch {
	case term.TotalCredits > 18:
		score += 2
	case term.TotalCredits > 15:
		score++
	}

	switch {
	case score >= 5:
		return models.RiskHigh
	case score >= 3:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
