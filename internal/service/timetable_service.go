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

// TimetableStore defines the timetable operations used by TimetableService.
type TimetableStore interface {
	Create(ctx context.Context, entry *models.TimetableEntry) error
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, error)
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
}

// TimetableService manages the weekly class schedule.
type TimetableService struct {
	timetables TimetableStore
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewTimetableService creates a new instance of TimetableService.
func NewTimetableService(timetables TimetableStore, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{timetables: timetables, validate: validator.New(), logger: logger}
}

// Create adds a slot to the weekly grid.
func (s *TimetableService) Create(ctx context.Context, req models.TimetableRequest) (*models.TimetableEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	entry := &models.TimetableEntry{
		Day:      req.Day,
		Period:   req.Period,
		Subject:  req.Subject,
		Teacher:  req.Teacher,
		Course:   req.Course,
		Semester: req.Semester,
	}
	if err := s.timetables.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("timetable slot created", zap.String("entry_id", entry.ID), zap.String("day", entry.Day), zap.String("period", entry.Period))
	return entry, nil
}

// Get returns a timetable slot by ID.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.TimetableEntry, error) {
	entry, err := s.timetables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, fmt.Errorf("get timetable entry: %w", err)
	}
	return entry, nil
}

// List returns the weekly grid for a course semester.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, error) {
	return s.timetables.List(ctx, filter)
}

// Update replaces a timetable slot's details.
func (s *TimetableService) Update(ctx context.Context, id string, req models.TimetableRequest) (*models.TimetableEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Day = req.Day
	entry.Period = req.Period
	entry.Subject = req.Subject
	entry.Teacher = req.Teacher
	entry.Course = req.Course
	entry.Semester = req.Semester

	if err := s.timetables.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("timetable slot updated", zap.String("entry_id", entry.ID))
	return entry, nil
}

// Delete removes a timetable slot.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.timetables.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("timetable slot deleted", zap.String("entry_id", id))
	return nil
}
