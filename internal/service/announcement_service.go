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

// AnnouncementStore defines the announcement operations used by
// AnnouncementService.
type AnnouncementStore interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	FindByID(ctx context.Context, id string) (*models.Announcement, error)
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService manages notices for courses and the whole institution.
type AnnouncementService struct {
	announcements AnnouncementStore
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewAnnouncementService creates a new instance of AnnouncementService.
func NewAnnouncementService(announcements AnnouncementStore, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{announcements: announcements, validate: validator.New(), logger: logger}
}

// Create publishes an announcement. An omitted date defaults to now.
func (s *AnnouncementService) Create(ctx context.Context, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	date, err := announcementDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	announcement := &models.Announcement{
		Course:   req.Course,
		Semester: req.Semester,
		Subject:  req.Subject,
		Message:  req.Message,
		Date:     date,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.logger.Info("announcement published", zap.String("announcement_id", announcement.ID))
	return announcement, nil
}

// Get returns an announcement by ID.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	announcement, err := s.announcements.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return announcement, nil
}

// List returns announcements visible to the given scope.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, *models.Pagination, error) {
	announcements, total, err := s.announcements.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return announcements, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Update replaces an announcement's details.
func (s *AnnouncementService) Update(ctx context.Context, id string, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	date, err := announcementDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	announcement.Course = req.Course
	announcement.Semester = req.Semester
	announcement.Subject = req.Subject
	announcement.Message = req.Message
	announcement.Date = date

	if err := s.announcements.Update(ctx, announcement); err != nil {
		return nil, err
	}

	s.logger.Info("announcement updated", zap.String("announcement_id", announcement.ID))
	return announcement, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("announcement deleted", zap.String("announcement_id", id))
	return nil
}

func announcementDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
