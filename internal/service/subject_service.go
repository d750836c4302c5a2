package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

// SubjectStore defines the subject operations used by SubjectService.
type SubjectStore interface {
	Create(ctx context.Context, subject *models.Subject) error
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// SubjectService manages the subject catalogue.
type SubjectService struct {
	subjects SubjectStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSubjectService creates a new instance of SubjectService.
func NewSubjectService(subjects SubjectStore, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{subjects: subjects, validate: validator.New(), logger: logger}
}

// Create adds a subject to the catalogue.
func (s *SubjectService) Create(ctx context.Context, req models.SubjectRequest) (*models.Subject, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	subject := &models.Subject{
		Name:     req.Name,
		Code:     req.Code,
		Course:   req.Course,
		Semester: req.Semester,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info("subject created", zap.String("subject_id", subject.ID), zap.String("name", subject.Name))
	return subject, nil
}

// Get returns a subject by ID.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return subject, nil
}

// List returns subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.subjects.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return subjects, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Update replaces a subject's details.
func (s *SubjectService) Update(ctx context.Context, id string, req models.SubjectRequest) (*models.Subject, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	subject.Name = req.Name
	subject.Code = req.Code
	subject.Course = req.Course
	subject.Semester = req.Semester

	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info("subject updated", zap.String("subject_id", subject.ID))
	return subject, nil
}

// Delete removes a subject from the catalogue.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("subject deleted", zap.String("subject_id", id))
	return nil
}
