package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ayushshivam48/edulytix-api/internal/models"
)

// AttendanceRepository provides database access for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `id, student_id, teacher_id, subject, course, semester, date, status, created_at, updated_at`

const attendanceInsert = `INSERT INTO attendance (id, student_id, teacher_id, subject, course, semester, date, status, created_at, updated_at) VALUES (:id, :student_id, :teacher_id, :subject, :course, :semester, :date, :status, :created_at, :updated_at)`

// Create inserts a single attendance row.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	prepareAttendance(record)
	if _, err := r.db.NamedExecContext(ctx, attendanceInsert, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// BulkCreate inserts a batch of attendance rows atomically.
func (r *AttendanceRepository) BulkCreate(ctx context.Context, records []models.Attendance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for i := range records {
		prepareAttendance(&records[i])
		if _, err := tx.NamedExecContext(ctx, attendanceInsert, &records[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk create attendance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// List returns attendance rows based on filters with total count.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error) {
	baseQuery := `FROM attendance WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Course != "" {
		conditions = append(conditions, fmt.Sprintf("course = $%d", len(args)+1))
		args = append(args, filter.Course)
	}
	if filter.Semester > 0 {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT "+attendanceColumns+" %s ORDER BY date DESC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}

	return records, total, nil
}

// SummaryByStudent aggregates a student's attendance per subject.
func (r *AttendanceRepository) SummaryByStudent(ctx context.Context, studentID string) ([]models.SubjectAttendanceRatio, error) {
	const query = `SELECT subject, semester, COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'present') AS present FROM attendance WHERE student_id = $1 GROUP BY subject, semester ORDER BY semester, subject`
	var rows []models.SubjectAttendanceRatio
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("attendance summary by student: %w", err)
	}
	return rows, nil
}

func prepareAttendance(record *models.Attendance) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
}
