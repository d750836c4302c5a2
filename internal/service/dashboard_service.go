package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

const (
	adminOverviewCacheKey    = "dash:admin"
	studentDashboardCacheKey = "dash:student:%s"
)

// DashboardCache abstracts the cache used for dashboard payloads.
type DashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DashboardCounter yields the headline counts for the admin overview.
type DashboardCounter interface {
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

// SubjectCounter counts catalogue entries for the admin overview.
type SubjectCounter interface {
	Count(ctx context.Context) (int, error)
}

// AssignmentCounter counts published assignments for the admin overview.
type AssignmentCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardService aggregates role-specific home views with cache-aside
// reads. Cache failures degrade to direct store reads.
type DashboardService struct {
	users         DashboardCounter
	subjects      SubjectCounter
	assignments   AssignmentCounter
	students      StudentStore
	assignmentSvc *AssignmentService
	announcements *AnnouncementService
	attendance    *AttendanceService
	cache         DashboardCache
	ttl           time.Duration
	logger        *zap.Logger
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(
	users DashboardCounter,
	subjects SubjectCounter,
	assignments AssignmentCounter,
	students StudentStore,
	assignmentSvc *AssignmentService,
	announcements *AnnouncementService,
	attendance *AttendanceService,
	cache DashboardCache,
	ttl time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{
		users:         users,
		subjects:      subjects,
		assignments:   assignments,
		students:      students,
		assignmentSvc: assignmentSvc,
		announcements: announcements,
		attendance:    attendance,
		cache:         cache,
		ttl:           ttl,
		logger:        logger,
	}
}

// AdminOverview returns headline counts for the admin home view.
func (s *DashboardService) AdminOverview(ctx context.Context) (*models.AdminOverview, error) {
	var cached models.AdminOverview
	if err := s.cache.Get(ctx, adminOverviewCacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("admin overview cache read failed", zap.Error(err))
	}

	overview := &models.AdminOverview{}
	var err error
	if overview.Students, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return nil, err
	}
	if overview.Teachers, err = s.users.CountByRole(ctx, models.RoleTeacher); err != nil {
		return nil, err
	}
	if overview.Subjects, err = s.subjects.Count(ctx); err != nil {
		return nil, err
	}
	if overview.Assignments, err = s.assignments.Count(ctx); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, adminOverviewCacheKey, overview, s.ttl); err != nil {
		s.logger.Warn("admin overview cache write failed", zap.Error(err))
	}
	return overview, nil
}

// StudentHome aggregates the assignments, announcements and attendance view
// for the student owning the given account.
func (s *DashboardService) StudentHome(ctx context.Context, userID string) (*models.StudentDashboard, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, fmt.Errorf("load student profile: %w", err)
	}

	key := fmt.Sprintf(studentDashboardCacheKey, student.ID)
	var cached models.StudentDashboard
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("student dashboard cache read failed", zap.Error(err))
	}

	assignments, _, err := s.assignmentSvc.List(ctx, models.AssignmentFilter{
		Course:   student.Course,
		Semester: student.Semester,
	})
	if err != nil {
		return nil, err
	}

	announcements, _, err := s.announcements.List(ctx, models.AnnouncementFilter{
		Course:   student.Course,
		Semester: student.Semester,
	})
	if err != nil {
		return nil, err
	}

	attendance, err := s.attendance.Summary(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	dashboard := &models.StudentDashboard{
		Assignments:   assignments,
		Announcements: announcements,
		Attendance:    attendance,
	}

	if err := s.cache.Set(ctx, key, dashboard, s.ttl); err != nil {
		s.logger.Warn("student dashboard cache write failed", zap.Error(err))
	}
	return dashboard, nil
}

// Invalidate drops all cached dashboard payloads. Called after writes that
// change what a dashboard would show.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.DeleteByPattern(ctx, "dash:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
