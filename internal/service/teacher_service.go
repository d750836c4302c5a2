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

// TeacherStore defines the teacher identity operations used by TeacherService.
type TeacherStore interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
	FindByCode(ctx context.Context, code string) (*models.Teacher, error)
	List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, int, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

// TeacherService manages teacher identity records.
type TeacherService struct {
	teachers TeacherStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTeacherService creates a new instance of TeacherService.
func NewTeacherService(teachers TeacherStore, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{teachers: teachers, validate: validator.New(), logger: logger}
}

// Get returns a teacher identity by ID.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	return teacher, nil
}

// GetByCode returns a teacher identity by teacher ID.
func (s *TeacherService) GetByCode(ctx context.Context, code string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, fmt.Errorf("get teacher by code: %w", err)
	}
	return teacher, nil
}

// GetByUserID returns the teacher identity owned by an account.
func (s *TeacherService) GetByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, fmt.Errorf("get teacher by user: %w", err)
	}
	return teacher, nil
}

// List returns teachers with account details and pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, *models.Pagination, error) {
	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Update applies mutable profile fields to a teacher identity.
func (s *TeacherService) Update(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Specialization != nil {
		teacher.Specialization = req.Specialization
	}
	if req.Phone != nil {
		teacher.Phone = req.Phone
	}
	if req.Address != nil {
		teacher.Address = req.Address
	}

	if err := s.teachers.Update(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("teacher updated", zap.String("teacher_id", teacher.ID))
	return teacher, nil
}

// Delete removes a teacher identity.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.teachers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("teacher deleted", zap.String("teacher_id", id))
	return nil
}
