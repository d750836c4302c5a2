package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

type mockResultStore struct {
	byStudent map[string][]models.Result
	created   *models.Result
}

func (m *mockResultStore) Create(ctx context.Context, result *models.Result) error {
	result.ID = "r-new"
	m.created = result
	return nil
}

func (m *mockResultStore) FindByID(ctx context.Context, id string) (*models.Result, error) {
	return nil, sql.ErrNoRows
}

func (m *mockResultStore) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error) {
	return nil, 0, nil
}

func (m *mockResultStore) ListByStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	return m.byStudent[studentID], nil
}

func (m *mockResultStore) Update(ctx context.Context, result *models.Result) error { return nil }
func (m *mockResultStore) Delete(ctx context.Context, id string) error             { return nil }

func TestComputeSGPA(t *testing.T) {
	subjects := []models.Result{
		{Internal: 8, External: 9},
		{Internal: 7, External: 6},
	}
	// (8.5 + 6.5) / 2 = 7.5
	assert.Equal(t, 7.5, computeSGPA(subjects))
}

func TestComputeSGPARounding(t *testing.T) {
	subjects := []models.Result{
		{Internal: 9, External: 8},
		{Internal: 7, External: 7},
		{Internal: 6, External: 9},
	}
	// (8.5 + 7 + 7.5) / 3 = 7.666... -> 7.67
	assert.Equal(t, 7.67, computeSGPA(subjects))
}

func TestComputeSGPAEmpty(t *testing.T) {
	assert.Equal(t, 0.0, computeSGPA(nil))
}

func TestResultServiceSummaryGroupsBySemester(t *testing.T) {
	store := &mockResultStore{byStudent: map[string][]models.Result{
		"s1": {
			{ID: "r1", Semester: 1, Subject: "Maths", Internal: 8, External: 8},
			{ID: "r2", Semester: 1, Subject: "Physics", Internal: 6, External: 8},
			{ID: "r3", Semester: 2, Subject: "Chemistry", Internal: 9, External: 9},
		},
	}}
	svc := NewResultService(store, zap.NewNop())

	summary, err := svc.Summary(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, summary.Semesters, 2)

	first := summary.Semesters[0]
	assert.Equal(t, 1, first.Semester)
	assert.Len(t, first.Subjects, 2)
	assert.Equal(t, 7.5, first.SGPA)

	second := summary.Semesters[1]
	assert.Equal(t, 2, second.Semester)
	assert.Equal(t, 9.0, second.SGPA)
}

func TestResultServiceCreateDefaultsStatusToFail(t *testing.T) {
	store := &mockResultStore{}
	svc := NewResultService(store, zap.NewNop())

	result, err := svc.Create(context.Background(), models.ResultRequest{
		StudentID: "s1",
		Course:    "B.Tech",
		Semester:  1,
		Subject:   "Maths",
		Internal:  4,
		External:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusFail, result.Status)
}

func TestResultServiceCreateRejectsOutOfRangeMarks(t *testing.T) {
	svc := NewResultService(&mockResultStore{}, zap.NewNop())

	_, err := svc.Create(context.Background(), models.ResultRequest{
		StudentID: "s1",
		Course:    "B.Tech",
		Semester:  1,
		Subject:   "Maths",
		Internal:  12,
		External:  5,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
