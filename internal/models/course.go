package models

import "github.com/lib/pq"

// Course is immutable catalog reference data owned by the course data
// provider. The optimizer only reads and annotates copies.
type Course struct {
	ID               string         `db:"id" json:"course_id"`
	Name             string         `db:"name" json:"course_name"`
	Credits          int            `db:"credits" json:"credits"`
	Department       string         `db:"department" json:"department"`
	Level            int            `db:"level" json:"level"`
	AvgDifficulty    float64        `db:"avg_difficulty" json:"avg_difficulty"`
	InstructionModes pq.StringArray `db:"instruction_modes" json:"instruction_modes" swaggertype:"array,string"`
	Tags             pq.StringArray `db:"tags" json:"tags" swaggertype:"array,string"`
	TermsOffered     pq.StringArray `db:"terms_offered" json:"terms_offered,omitempty" swaggertype:"array,string"`
}

// CourseRef is the resolved shape attached to scored courses for their
// prerequisite and unlock lists.
type CourseRef struct {
	ID      string `db:"id" json:"course_id"`
	Name    string `db:"name" json:"course_name"`
	Credits int    `db:"credits" json:"credits"`
	Level   int    `db:"level" json:"level"`
}

// ScoredCourse annotates a catalog course with planner output. Instances are
// created fresh per optimizer invocation and never mutated after sequencing.
type ScoredCourse struct {
	Course
	PriorityScore        float64     `json:"priority_score"`
	Prerequisites        []CourseRef `json:"prerequisites"`
	Unlocks              []CourseRef `json:"unlocks"`
	LearningStyleMatch   float64     `json:"learning_style_match"`
	DifficultyPrediction float64     `json:"difficulty_prediction"`
}
