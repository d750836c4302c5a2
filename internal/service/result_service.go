package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

// ResultStore defines the result operations used by ResultService.
type ResultStore interface {
	Create(ctx context.Context, result *models.Result) error
	FindByID(ctx context.Context, id string) (*models.Result, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Result, error)
	Update(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id string) error
}

// ResultService manages exam results and SGPA computation.
type ResultService struct {
	results  ResultStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewResultService creates a new instance of ResultService.
func NewResultService(results ResultStore, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{results: results, validate: validator.New(), logger: logger}
}

// Create records a result row for a student and subject.
func (s *ResultService) Create(ctx context.Context, req models.ResultRequest) (*models.Result, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	result := &models.Result{
		StudentID: req.StudentID,
		Course:    req.Course,
		Semester:  req.Semester,
		Subject:   req.Subject,
		Internal:  req.Internal,
		External:  req.External,
		Status:    normalizeStatus(req.Status),
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("result recorded", zap.String("result_id", result.ID), zap.String("student_id", result.StudentID))
	return result, nil
}

// Get returns a result row by ID.
func (s *ResultService) Get(ctx context.Context, id string) (*models.Result, error) {
	result, err := s.results.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}

// List returns result rows with pagination metadata.
func (s *ResultService) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, *models.Pagination, error) {
	results, total, err := s.results.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return results, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Summary builds a student's full academic record grouped by semester with
// one SGPA per semester.
func (s *ResultService) Summary(ctx context.Context, studentID string) (*models.ResultSummary, error) {
	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	bySemester := map[int][]models.Result{}
	var order []int
	for _, r := range results {
		if _, seen := bySemester[r.Semester]; !seen {
			order = append(order, r.Semester)
		}
		bySemester[r.Semester] = append(bySemester[r.Semester], r)
	}

	summary := &models.ResultSummary{StudentID: studentID, Semesters: make([]models.SemesterResult, 0, len(order))}
	for _, sem := range order {
		subjects := bySemester[sem]
		summary.Semesters = append(summary.Semesters, models.SemesterResult{
			Semester: sem,
			Subjects: subjects,
			SGPA:     computeSGPA(subjects),
		})
	}
	return summary, nil
}

// Update replaces the marks and status of a result row.
func (s *ResultService) Update(ctx context.Context, id string, req models.ResultRequest) (*models.Result, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	result, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result.StudentID = req.StudentID
	result.Course = req.Course
	result.Semester = req.Semester
	result.Subject = req.Subject
	result.Internal = req.Internal
	result.External = req.External
	result.Status = normalizeStatus(req.Status)

	if err := s.results.Update(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("result updated", zap.String("result_id", result.ID))
	return result, nil
}

// Delete removes a result row.
func (s *ResultService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.results.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("result deleted", zap.String("result_id", id))
	return nil
}

// computeSGPA averages the per-subject grade points, where a subject's grade
// point is the mean of its internal and external marks. The value is rounded
// to two decimal places.
func computeSGPA(subjects []models.Result) float64 {
	if len(subjects) == 0 {
		return 0
	}
	var sum float64
	for _, r := range subjects {
		sum += (r.Internal + r.External) / 2
	}
	return math.Round(sum/float64(len(subjects))*100) / 100
}

func normalizeStatus(raw string) models.ResultStatus {
	if raw == string(models.ResultStatusPass) {
		return models.ResultStatusPass
	}
	return models.ResultStatusFail
}
