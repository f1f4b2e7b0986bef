package service

import (
	"github.com/pathwise/degree-path-api/internal/models"
)

// courseGraph holds the prerequisite relation over the available catalog as a
// forward (prerequisite -> unlocked courses) adjacency. Eligibility during
// term packing reads each course's own prerequisite list; the graph only
// answers unlock-impact queries for scoring. The input is assumed acyclic: no
// cycle detection is performed, and a cyclic catalog leaves the affected
// courses permanently ineligible during term packing, which surfaces as a
// truncated plan rather than an error.
type courseGraph struct {
	unlocks map[string]map[string]struct{}
}

// newCourseGraph builds the adjacency from the per-course prerequisite lists.
func newCourseGraph(courses []models.Course, prereqs map[string][]models.CourseRef) *courseGraph {
	g := &courseGraph{
		unlocks: make(map[string]map[string]struct{}, len(courses)),
	}
	for _, course := range courses {
		for _, prereq := range prereqs[course.ID] {
			g.addEdge(prereq.ID, course.ID)
		}
	}
	return g
}

func (g *courseGraph) addEdge(prereqID, courseID string) {
	if g.unlocks[prereqID] == nil {
		g.unlocks[prereqID] = make(map[string]struct{})
	}
	g.unlocks[prereqID][courseID] = struct{}{}
}

// UnlockedCount is the out-degree of a course in the prerequisite relation:
// how many available courses it directly unlocks.
func (g *courseGraph) UnlockedCount(courseID string) int {
	return len(g.unlocks[courseID])
}
