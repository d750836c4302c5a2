package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
	"github.com/ayushshivam48/edulytix-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportService renders student and result listings as downloadable files.
type ExportService struct {
	students StudentStore
	results  ResultStore
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService creates a new instance of ExportService.
func NewExportService(students StudentStore, results ResultStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students: students,
		results:  results,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Students renders the student roster in the requested format.
func (s *ExportService) Students(ctx context.Context, filter models.StudentFilter, format ExportFormat) ([]byte, string, error) {
	filter.PageSize = 100
	students, _, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Enrollment", "Name", "Email", "Course", "Semester"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"Enrollment": st.Enrollment,
			"Name":       st.Name,
			"Email":      st.Email,
			"Course":     st.Course,
			"Semester":   strconv.Itoa(st.Semester),
		})
	}

	return s.render(data, "Student Roster", format)
}

// Results renders a student's result history in the requested format.
func (s *ExportService) Results(ctx context.Context, studentID string, format ExportFormat) ([]byte, string, error) {
	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Semester", "Subject", "Internal", "External", "Status"},
	}
	for _, r := range results {
		data.Rows = append(data.Rows, map[string]string{
			"Semester": strconv.Itoa(r.Semester),
			"Subject":  r.Subject,
			"Internal": strconv.FormatFloat(r.Internal, 'f', -1, 64),
			"External": strconv.FormatFloat(r.External, 'f', -1, 64),
			"Status":   string(r.Status),
		})
	}

	return s.render(data, "Result History", format)
}

func (s *ExportService) render(data export.Dataset, title string, format ExportFormat) ([]byte, string, error) {
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", fmt.Errorf("render csv: %w", err)
		}
		return payload, "text/csv", nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, "", fmt.Errorf("render pdf: %w", err)
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
