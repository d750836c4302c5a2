package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

type mapCache struct {
	values map[string]interface{}
	gets   int
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]interface{})}
}

func (m *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	value, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *models.AdminOverview:
		*d = *value.(*models.AdminOverview)
	case *models.StudentDashboard:
		*d = *value.(*models.StudentDashboard)
	}
	return nil
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	m.values[key] = value
	return nil
}

func (m *mapCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = make(map[string]interface{})
	return nil
}

type countingUserRepo struct {
	calls int
}

func (c *countingUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	c.calls++
	switch role {
	case models.RoleStudent:
		return 120, nil
	case models.RoleTeacher:
		return 15, nil
	default:
		return 0, nil
	}
}

type fixedCounter struct {
	value int
	calls int
}

func (f *fixedCounter) Count(ctx context.Context) (int, error) {
	f.calls++
	return f.value, nil
}

type singleStudentStore struct {
	student *models.Student
}

func (s *singleStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return nil, sql.ErrNoRows
}

func (s *singleStudentStore) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	if s.student != nil && s.student.UserID == userID {
		return s.student, nil
	}
	return nil, sql.ErrNoRows
}

func (s *singleStudentStore) FindByEnrollment(ctx context.Context, enrollment string) (*models.Student, error) {
	return nil, sql.ErrNoRows
}

func (s *singleStudentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	return nil, 0, nil
}

func (s *singleStudentStore) Update(ctx context.Context, student *models.Student) error { return nil }
func (s *singleStudentStore) Delete(ctx context.Context, id string) error               { return nil }

type emptyAssignmentStore struct{}

func (e *emptyAssignmentStore) Create(ctx context.Context, a *models.Assignment) error { return nil }
func (e *emptyAssignmentStore) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	return nil, sql.ErrNoRows
}
func (e *emptyAssignmentStore) List(ctx context.Context, f models.AssignmentFilter) ([]models.Assignment, int, error) {
	return nil, 0, nil
}
func (e *emptyAssignmentStore) Update(ctx context.Context, a *models.Assignment) error { return nil }
func (e *emptyAssignmentStore) Delete(ctx context.Context, id string) error            { return nil }

type emptyAnnouncementStore struct{}

func (e *emptyAnnouncementStore) Create(ctx context.Context, a *models.Announcement) error {
	return nil
}
func (e *emptyAnnouncementStore) FindByID(ctx context.Context, id string) (*models.Announcement, error) {
	return nil, sql.ErrNoRows
}
func (e *emptyAnnouncementStore) List(ctx context.Context, f models.AnnouncementFilter) ([]models.Announcement, int, error) {
	return nil, 0, nil
}
func (e *emptyAnnouncementStore) Update(ctx context.Context, a *models.Announcement) error {
	return nil
}
func (e *emptyAnnouncementStore) Delete(ctx context.Context, id string) error { return nil }

func newTestDashboardService(cache DashboardCache, users *countingUserRepo, subjects, assignments *fixedCounter, students StudentStore) *DashboardService {
	return NewDashboardService(
		users,
		subjects,
		assignments,
		students,
		NewAssignmentService(&emptyAssignmentStore{}, zap.NewNop()),
		NewAnnouncementService(&emptyAnnouncementStore{}, zap.NewNop()),
		NewAttendanceService(&mockAttendanceStore{}, zap.NewNop()),
		cache,
		time.Minute,
		zap.NewNop(),
	)
}

func TestDashboardAdminOverviewCacheAside(t *testing.T) {
	cache := newMapCache()
	users := &countingUserRepo{}
	subjects := &fixedCounter{value: 8}
	assignments := &fixedCounter{value: 23}
	svc := newTestDashboardService(cache, users, subjects, assignments, &singleStudentStore{})

	overview, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, overview.Students)
	assert.Equal(t, 15, overview.Teachers)
	assert.Equal(t, 8, overview.Subjects)
	assert.Equal(t, 23, overview.Assignments)
	assert.Equal(t, 1, cache.sets)

	// The second read must come from the cache, not the counters.
	_, err = svc.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, users.calls)
	assert.Equal(t, 1, subjects.calls)
}

func TestDashboardInvalidateForcesRecount(t *testing.T) {
	cache := newMapCache()
	users := &countingUserRepo{}
	subjects := &fixedCounter{value: 8}
	assignments := &fixedCounter{value: 23}
	svc := newTestDashboardService(cache, users, subjects, assignments, &singleStudentStore{})

	_, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, err = svc.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, subjects.calls)
}

func TestDashboardStudentHome(t *testing.T) {
	cache := newMapCache()
	students := &singleStudentStore{student: &models.Student{ID: "s1", UserID: "u2", Course: "B.Tech", Semester: 3}}
	svc := newTestDashboardService(cache, &countingUserRepo{}, &fixedCounter{}, &fixedCounter{}, students)

	dashboard, err := svc.StudentHome(context.Background(), "u2")
	require.NoError(t, err)
	assert.NotNil(t, dashboard)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboardStudentHomeMissingProfile(t *testing.T) {
	svc := newTestDashboardService(newMapCache(), &countingUserRepo{}, &fixedCounter{}, &fixedCounter{}, &singleStudentStore{})

	_, err := svc.StudentHome(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

type erroringStudentStore struct {
	singleStudentStore
}

func (e *erroringStudentStore) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return nil, errors.New("connection reset")
}

func TestDashboardStudentHomeStoreFailure(t *testing.T) {
	svc := newTestDashboardService(newMapCache(), &countingUserRepo{}, &fixedCounter{}, &fixedCounter{}, &erroringStudentStore{})

	_, err := svc.StudentHome(context.Background(), "u2")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.NotEqual(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
