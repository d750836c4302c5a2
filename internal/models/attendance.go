package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// Attendance represents a single attendance row for a student session.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	TeacherID *string          `db:"teacher_id" json:"teacher_id,omitempty"`
	Subject   string           `db:"subject" json:"subject"`
	Course    string           `db:"course" json:"course"`
	Semester  int              `db:"semester" json:"semester"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter defines query filters for listing attendance rows.
type AttendanceFilter struct {
	StudentID string
	Course    string
	Semester  int
	Subject   string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// AttendanceRequest is the payload for recording one attendance entry.
type AttendanceRequest struct {
	StudentID string  `json:"student" validate:"required"`
	TeacherID *string `json:"teacher"`
	Subject   string  `json:"subject" validate:"required"`
	Course    string  `json:"course" validate:"required"`
	Semester  int     `json:"semester" validate:"required,min=1"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string  `json:"status" validate:"required,oneof=present absent late"`
}

// BulkAttendanceEntry is one student's status within a bulk submission.
type BulkAttendanceEntry struct {
	StudentID string `json:"student" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

// BulkAttendanceRequest records a whole class session at once.
type BulkAttendanceRequest struct {
	TeacherID *string               `json:"teacher"`
	Subject   string                `json:"subject" validate:"required"`
	Course    string                `json:"course" validate:"required"`
	Semester  int                   `json:"semester" validate:"required,min=1"`
	Date      string                `json:"date" validate:"required,datetime=2006-01-02"`
	Entries   []BulkAttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// SubjectAttendanceRatio is the raw per-subject aggregate from the store.
type SubjectAttendanceRatio struct {
	Subject  string `db:"subject" json:"subject"`
	Semester int    `db:"semester" json:"semester"`
	Total    int    `db:"total" json:"total"`
	Present  int    `db:"present" json:"present"`
}

// SubjectAttendanceSummary reports the attendance percentage for one subject.
type SubjectAttendanceSummary struct {
	Subject    string `json:"subject"`
	Semester   int    `json:"semester"`
	Percentage int    `json:"percentage"`
}
