package service

import (
	"fmt"
	"strings"

	"github.com/pathwise/degree-path-api/internal/models"
	appErrors "github.com/pathwise/degree-path-api/pkg/errors"
	"github.com/pathwise/degree-path-api/pkg/export"
)

// Export formats supported for term-plan downloads.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportService renders a computed term plan as a downloadable document.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService constructs an export service.
func NewExportService() *ExportService {
	return &ExportService{csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

// RenderTermPlan produces the document bytes plus content type and filename.
func (s *ExportService) RenderTermPlan(plan *models.PathPlan, format string) ([]byte, string, string, error) {
	dataset := termPlanDataset(plan)
	title := fmt.Sprintf("Degree path for %s", plan.Student.Name)

	switch strings.ToLower(format) {
	case ExportFormatCSV, "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv export failed")
		}
		return payload, "text/csv", exportFilename(plan.Student.ID, ExportFormatCSV), nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf export failed")
		}
		return payload, "application/pdf", exportFilename(plan.Student.ID, ExportFormatPDF), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func termPlanDataset(plan *models.PathPlan) export.Table {
	columns := []export.Column{
		{Key: "term", Label: "Term"},
		{Key: "type", Label: "Type"},
		{Key: "course", Label: "Course", Weight: 1.3},
		{Key: "name", Label: "Name", Weight: 3},
		{Key: "credits", Label: "Credits"},
		{Key: "difficulty", Label: "Difficulty", Weight: 1.2},
		{Key: "risk", Label: "Risk"},
	}
	rows := make([]map[string]string, 0, len(plan.TermPlan)*4)
	for _, term := range plan.TermPlan {
		for _, course := range term.Courses {
			rows = append(rows, map[string]string{
				"term":       fmt.Sprintf("%d", term.TermNumber),
				"type":       string(term.TermType),
				"course":     course.ID,
				"name":       course.Name,
				"credits":    fmt.Sprintf("%d", course.Credits),
				"difficulty": fmt.Sprintf("%.1f", course.DifficultyPrediction),
				"risk":       string(term.RiskLevel),
			})
		}
	}
	return export.Table{Columns: columns, Rows: rows}
}

func exportFilename(studentID, format string) string {
	return fmt.Sprintf("degree-path-%s.%s", studentID, format)
}
