package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathwise/degree-path-api/internal/models"
)

func TestCourseGraphUnlockedCount(t *testing.T) {
	courses := []models.Course{{ID: "CMSC201"}, {ID: "CMSC202"}, {ID: "CMSC313"}, {ID: "CMSC341"}}
	prereqs := map[string][]models.CourseRef{
		"CMSC202": {{ID: "CMSC201"}},
		"CMSC313": {{ID: "CMSC202"}},
		"CMSC341": {{ID: "CMSC202"}},
	}

	graph := newCourseGraph(courses, prereqs)
	assert.Equal(t, 1, graph.UnlockedCount("CMSC201"))
	assert.Equal(t, 2, graph.UnlockedCount("CMSC202"))
	assert.Equal(t, 0, graph.UnlockedCount("CMSC341"))
}

func TestCourseGraphTracksPrerequisitesOutsideCatalog(t *testing.T) {
	// BIO302's prerequisite is not in the available set; the unlock edge must
	// still exist so its completion counts toward unlock impact.
	courses := []models.Course{{ID: "BIO302"}}
	prereqs := map[string][]models.CourseRef{
		"BIO302": {{ID: "BIO301"}},
	}

	graph := newCourseGraph(courses, prereqs)
	assert.Equal(t, 1, graph.UnlockedCount("BIO301"))
}

func TestCourseGraphEmpty(t *testing.T) {
	graph := newCourseGraph(nil, nil)
	assert.Equal(t, 0, graph.UnlockedCount("anything"))
}
