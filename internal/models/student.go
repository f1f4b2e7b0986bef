package models

// LearningStyle is a student's preferred learning modality.
type LearningStyle string

const (
	StyleVisual         LearningStyle = "Visual"
	StyleAuditory       LearningStyle = "Auditory"
	StyleKinesthetic    LearningStyle = "Kinesthetic"
	StyleReadingWriting LearningStyle = "Reading-Writing"
)

// Pace is a student's preferred progression speed. It adjusts the per-term
// course-load cap during term packing.
type Pace string

const (
	PaceStandard    Pace = "Standard"
	PacePartTime    Pace = "Part-time"
	PaceAccelerated Pace = "Accelerated"
)

// StudentProfile holds the preferences and constraints the optimizer scores
// against. One snapshot is supplied per planning call.
type StudentProfile struct {
	ID                       string        `db:"id" json:"id"`
	Name                     string        `db:"name" json:"name"`
	LearningStyle            LearningStyle `db:"learning_style" json:"learning_style"`
	PreferredCourseLoad      int           `db:"preferred_course_load" json:"preferred_course_load"`
	PreferredPace            Pace          `db:"preferred_pace" json:"preferred_pace"`
	WorkHoursPerWeek         int           `db:"work_hours_per_week" json:"work_hours_per_week"`
	PreferredInstructionMode string        `db:"preferred_instruction_mode" json:"preferred_instruction_mode"`
	DegreeID                 string        `db:"degree_id" json:"degree_id,omitempty"`
	DegreeName               string        `db:"degree_name" json:"degree_name,omitempty"`
	ExpectedGraduation       string        `db:"expected_graduation" json:"expected_graduation,omitempty"`
}

// StudentSummary is the directory listing shape.
type StudentSummary struct {
	ID                 string        `db:"id" json:"id"`
	Name               string        `db:"name" json:"name"`
	LearningStyle      LearningStyle `db:"learning_style" json:"learning_style"`
	DegreeName         string        `db:"degree_name" json:"degree_name,omitempty"`
	ExpectedGraduation string        `db:"expected_graduation" json:"expected_graduation,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search string
	Limit  int
}

// CompletionRecord is a course the student has finished, with the grade earned.
type CompletionRecord struct {
	CourseID   string `db:"course_id" json:"course_id"`
	CourseName string `db:"course_name" json:"course_name"`
	Term       string `db:"term" json:"term"`
	Grade      string `db:"grade" json:"grade"`
	Credits    int    `db:"credits" json:"credits"`
}

// EnrollmentRecord is a course the student is currently taking.
type EnrollmentRecord struct {
	CourseID   string `db:"course_id" json:"course_id"`
	CourseName string `db:"course_name" json:"course_name"`
	Term       string `db:"term" json:"term"`
	Credits    int    `db:"credits" json:"credits"`
}

// PeerSummary describes a similar student. Peer data is a soft signal: its
// absence degrades scoring to neutral heuristics.
type PeerSummary struct {
	ID               string        `db:"id" json:"id"`
	Name             string        `db:"name" json:"name"`
	LearningStyle    LearningStyle `db:"learning_style" json:"learning_style"`
	Similarity       float64       `db:"similarity" json:"similarity"`
	AverageGPA       float64       `db:"average_gpa" json:"average_gpa"`
	CoursesCompleted int           `db:"courses_completed" json:"courses_completed"`
}

// StudentSnapshot bundles everything the optimizer reads for one invocation.
type StudentSnapshot struct {
	Student   StudentProfile     `json:"student"`
	Completed []CompletionRecord `json:"completed_courses"`
	Enrolled  []EnrollmentRecord `json:"enrolled_courses"`
	Available []Course           `json:"available_courses"`
	Peers     []PeerSummary      `json:"similar_students"`
}

// CompletedIDs returns the set of completed course ids.
func (s *StudentSnapshot) CompletedIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Completed))
	for _, c := range s.Completed {
		ids[c.CourseID] = struct{}{}
	}
	return ids
}
