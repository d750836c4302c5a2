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

// StudentStore defines the student identity operations used by StudentService.
type StudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	FindByEnrollment(ctx context.Context, enrollment string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService manages student identity records.
type StudentService struct {
	students StudentStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewStudentService creates a new instance of StudentService.
func NewStudentService(students StudentStore, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, validate: validator.New(), logger: logger}
}

// Get returns a student identity by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}

// GetByEnrollment returns a student identity by enrollment number.
func (s *StudentService) GetByEnrollment(ctx context.Context, enrollment string) (*models.Student, error) {
	student, err := s.students.FindByEnrollment(ctx, enrollment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, fmt.Errorf("get student by enrollment: %w", err)
	}
	return student, nil
}

// GetByUserID returns the student identity owned by an account.
func (s *StudentService) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, fmt.Errorf("get student by user: %w", err)
	}
	return student, nil
}

// List returns students with account details and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Update applies mutable profile fields to a student identity.
func (s *StudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Course != "" {
		student.Course = req.Course
	}
	if req.Semester > 0 {
		student.Semester = req.Semester
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.Address != nil {
		student.Address = req.Address
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student updated", zap.String("student_id", student.ID))
	return student, nil
}

// Delete removes a student identity.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
