package models

import "time"

// Assignment represents coursework published for a course semester.
type Assignment struct {
	ID          string    `db:"id" json:"id"`
	Course      string    `db:"course" json:"course"`
	Semester    int       `db:"semester" json:"semester"`
	Subject     string    `db:"subject" json:"subject"`
	Title       string    `db:"title" json:"title"`
	DueDate     time.Time `db:"due_date" json:"dueDate"`
	TeacherName *string   `db:"teacher_name" json:"teacherName,omitempty"`
	TeacherID   *string   `db:"teacher_id" json:"teacherId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter captures supported filters for listing assignments.
type AssignmentFilter struct {
	Course   string
	Semester int
	Subject  string
	Page     int
	PageSize int
}

// AssignmentRequest is the create/update payload for assignments.
type AssignmentRequest struct {
	Course      string  `json:"course" validate:"required"`
	Semester    int     `json:"semester" validate:"required,min=1"`
	Subject     string  `json:"subject" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	DueDate     string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	TeacherName *string `json:"teacherName"`
	TeacherID   *string `json:"teacherId"`
}
