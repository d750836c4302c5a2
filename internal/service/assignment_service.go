package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

// AssignmentStore defines the assignment operations used by AssignmentService.
type AssignmentStore interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

// AssignmentService manages published coursework.
type AssignmentService struct {
	assignments AssignmentStore
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService creates a new instance of AssignmentService.
func NewAssignmentService(assignments AssignmentStore, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, validate: validator.New(), logger: logger}
}

// Create publishes an assignment for a course semester.
func (s *AssignmentService) Create(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid due date")
	}

	assignment := &models.Assignment{
		Course:      req.Course,
		Semester:    req.Semester,
		Subject:     req.Subject,
		Title:       req.Title,
		DueDate:     dueDate,
		TeacherName: req.TeacherName,
		TeacherID:   req.TeacherID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("assignment published", zap.String("assignment_id", assignment.ID), zap.String("subject", assignment.Subject))
	return assignment, nil
}

// Get returns an assignment by ID.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return assignment, nil
}

// List returns assignments with pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	assignments, total, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return assignments, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Update replaces an assignment's details.
func (s *AssignmentService) Update(ctx context.Context, id string, req models.AssignmentRequest) (*models.Assignment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid due date")
	}

	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assignment.Course = req.Course
	assignment.Semester = req.Semester
	assignment.Subject = req.Subject
	assignment.Title = req.Title
	assignment.DueDate = dueDate
	assignment.TeacherName = req.TeacherName
	assignment.TeacherID = req.TeacherID

	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("assignment updated", zap.String("assignment_id", assignment.ID))
	return assignment, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("assignment deleted", zap.String("assignment_id", id))
	return nil
}
