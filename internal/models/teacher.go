package models

import "time"

// Teacher extends an account with instructor-specific identity when role = teacher.
type Teacher struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"user_id"`
	TeacherCode    string     `db:"teacher_code" json:"teacherId"`
	Specialization *string    `db:"specialization" json:"specialization,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	DOB            *time.Time `db:"dob" json:"dob,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// TeacherDetail joins the identity row with its owning account.
type TeacherDetail struct {
	Teacher
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// UpdateTeacherRequest carries mutable teacher profile fields.
type UpdateTeacherRequest struct {
	Specialization *string `json:"specialization"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
}
