package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

// AttendanceStore defines the attendance operations used by AttendanceService.
type AttendanceStore interface {
	Create(ctx context.Context, record *models.Attendance) error
	BulkCreate(ctx context.Context, records []models.Attendance) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error)
	SummaryByStudent(ctx context.Context, studentID string) ([]models.SubjectAttendanceRatio, error)
}

// AttendanceService records class attendance and computes per-subject
// percentages.
type AttendanceService struct {
	attendance AttendanceStore
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewAttendanceService creates a new instance of AttendanceService.
func NewAttendanceService(attendance AttendanceStore, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{attendance: attendance, validate: validator.New(), logger: logger}
}

// Record stores a single attendance entry.
func (s *AttendanceService) Record(ctx context.Context, req models.AttendanceRequest) (*models.Attendance, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	record := &models.Attendance{
		StudentID: req.StudentID,
		TeacherID: req.TeacherID,
		Subject:   req.Subject,
		Course:    req.Course,
		Semester:  req.Semester,
		Date:      date,
		Status:    models.AttendanceStatus(req.Status),
	}
	if err := s.attendance.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("attendance recorded", zap.String("student_id", record.StudentID), zap.String("subject", record.Subject))
	return record, nil
}

// RecordBulk stores attendance for a whole class session atomically.
func (s *AttendanceService) RecordBulk(ctx context.Context, req models.BulkAttendanceRequest) (int, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	records := make([]models.Attendance, 0, len(req.Entries))
	for _, entry := range req.Entries {
		records = append(records, models.Attendance{
			StudentID: entry.StudentID,
			TeacherID: req.TeacherID,
			Subject:   req.Subject,
			Course:    req.Course,
			Semester:  req.Semester,
			Date:      date,
			Status:    models.AttendanceStatus(entry.Status),
		})
	}
	if err := s.attendance.BulkCreate(ctx, records); err != nil {
		return 0, err
	}

	s.logger.Info("bulk attendance recorded",
		zap.String("subject", req.Subject),
		zap.Int("entries", len(records)))
	return len(records), nil
}

// List returns attendance rows with pagination metadata.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, *models.Pagination, error) {
	records, total, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	// Attendance listings allow a larger page than other resources so a full
	// class session fits on one page.
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 100
	}
	return records, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Summary computes a student's attendance percentage per subject. Only rows
// marked present count toward the numerator; late and absent both count
// against it.
func (s *AttendanceService) Summary(ctx context.Context, studentID string) ([]models.SubjectAttendanceSummary, error) {
	ratios, err := s.attendance.SummaryByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.SubjectAttendanceSummary, 0, len(ratios))
	for _, ratio := range ratios {
		summaries = append(summaries, models.SubjectAttendanceSummary{
			Subject:    ratio.Subject,
			Semester:   ratio.Semester,
			Percentage: attendancePercentage(ratio.Present, ratio.Total),
		})
	}
	return summaries, nil
}

func attendancePercentage(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}
