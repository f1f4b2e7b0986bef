package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pathwise/degree-path-api/internal/models"
)

// AdviceUnavailable is the fixed fallback substituted whenever the advisory
// generator fails or times out. The deterministic plan is never blocked on it.
const AdviceUnavailable = "AI recommendations temporarily unavailable"

// AdvisoryClient generates free text from a prompt. Implementations call an
// external service and must honour context cancellation.
type AdvisoryClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AdvisorService bridges the planner to the external advisory text generator.
// It is a soft dependency: every method degrades to a fixed message instead of
// returning an error.
type AdvisorService struct {
	client  AdvisoryClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewAdvisorService constructs the bridge. A nil client disables generation.
func NewAdvisorService(client AdvisoryClient, timeout time.Duration, logger *zap.Logger) *AdvisorService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorService{client: client, timeout: timeout, logger: logger}
}

// PlanInsights summarises the computed plan for the generator and returns its
// narrative, or the fixed fallback.
func (s *AdvisorService) PlanInsights(ctx context.Context, snapshot *models.StudentSnapshot, sequence []models.ScoredCourse, termCount int) string {
	head := sequence
	if len(head) > 10 {
		head = head[:10]
	}

	prompt := fmt.Sprintf(`As an academic advisor AI, provide personalized recommendations for this student's degree plan.

Student Profile:
%s
Proposed Course Sequence (first %d courses, %d terms planned):
%s
Please provide:
1. Overall assessment of the plan
2. Specific recommendations for course selection or timing
3. Study strategies based on learning style
4. Potential challenges and how to address them
5. Resources or support services that might be helpful

Keep recommendations practical and actionable.`,
		studentSummary(snapshot), len(head), termCount, courseSummary(head))

	return s.generate(ctx, snapshot.Student.ID, "plan_insights", prompt)
}

// Advise answers a free-form question with the student context attached. The
// boolean reports whether the text was actually generated.
func (s *AdvisorService) Advise(ctx context.Context, snapshot *models.StudentSnapshot, message string) (string, bool) {
	prompt := fmt.Sprintf(`You are an expert academic advisor helping a student plan their degree.
Be personalized, practical and encouraging but realistic.

%s
Student Question: %s

Response:`, studentSummary(snapshot), message)

	text := s.generate(ctx, snapshot.Student.ID, "advice", prompt)
	return text, text != AdviceUnavailable
}

func (s *AdvisorService) generate(ctx context.Context, studentID, stage, prompt string) string {
	if s == nil || s.client == nil {
		return AdviceUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("advisory generation failed",
			zap.String("student_id", studentID),
			zap.String("stage", stage),
			zap.Error(err),
		)
		return AdviceUnavailable
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return AdviceUnavailable
	}
	return text
}

func studentSummary(snapshot *models.StudentSnapshot) string {
	student := snapshot.Student
	b := &strings.Builder{}
	fmt.Fprintf(b, "Name: %s\n", student.Name)
	fmt.Fprintf(b, "Learning Style: %s\n", student.LearningStyle)
	if student.DegreeName != "" {
		fmt.Fprintf(b, "Degree: %s\n", student.DegreeName)
	}
	fmt.Fprintf(b, "Preferred Course Load: %d courses per term\n", student.PreferredCourseLoad)
	fmt.Fprintf(b, "Preferred Pace: %s\n", student.PreferredPace)
	fmt.Fprintf(b, "Work Hours: %d hours per week\n", student.WorkHoursPerWeek)
	fmt.Fprintf(b, "Completed Courses: %d courses\n", len(snapshot.Completed))
	fmt.Fprintf(b, "Average Grade: %s\n", computeGPA(snapshot.Completed))
	return b.String()
}

func courseSummary(courses []models.ScoredCourse) string {
	b := &strings.Builder{}
	for i, course := range courses {
		fmt.Fprintf(b, "%d. %s (%s) - %d credits, Level %d, Predicted Difficulty: %.1f/5.0\n",
			i+1, course.Name, course.ID, course.Credits, course.Level, course.DifficultyPrediction)
	}
	return b.String()
}
