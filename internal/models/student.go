package models

import "time"

// Student extends an account with learner-specific identity when role = student.
type Student struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	Enrollment string     `db:"enrollment" json:"enrollment"`
	Course     string     `db:"course" json:"course"`
	Semester   int        `db:"semester" json:"semester"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	Address    *string    `db:"address" json:"address,omitempty"`
	DOB        *time.Time `db:"dob" json:"dob,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentDetail joins the identity row with its owning account.
type StudentDetail struct {
	Student
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Course    string
	Semester  int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// UpdateStudentRequest carries mutable student profile fields.
type UpdateStudentRequest struct {
	Course   string  `json:"course"`
	Semester int     `json:"semester" validate:"omitempty,min=1"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}
