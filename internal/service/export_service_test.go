package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
)

type rosterStudentStore struct {
	singleStudentStore
	details []models.StudentDetail
}

func (r *rosterStudentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	return r.details, len(r.details), nil
}

func TestExportServiceStudentsCSV(t *testing.T) {
	students := &rosterStudentStore{details: []models.StudentDetail{
		{
			Student: models.Student{Enrollment: "EN2024001", Course: "B.Tech", Semester: 3},
			Name:    "Ravi Kumar",
			Email:   "ravi@example.com",
		},
	}}
	svc := NewExportService(students, &mockResultStore{}, zap.NewNop())

	payload, contentType, err := svc.Students(context.Background(), models.StudentFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Enrollment,Name,Email,Course,Semester", lines[0])
	assert.Contains(t, lines[1], "EN2024001")
	assert.Contains(t, lines[1], "ravi@example.com")
}

func TestExportServiceResultsPDF(t *testing.T) {
	results := &mockResultStore{byStudent: map[string][]models.Result{
		"s1": {{Semester: 1, Subject: "Maths", Internal: 8, External: 9, Status: models.ResultStatusPass}},
	}}
	svc := NewExportService(&rosterStudentStore{}, results, zap.NewNop())

	payload, contentType, err := svc.Results(context.Background(), "s1", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&rosterStudentStore{}, &mockResultStore{}, zap.NewNop())

	_, _, err := svc.Students(context.Background(), models.StudentFilter{}, ExportFormat("xlsx"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
