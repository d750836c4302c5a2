package models

import "time"

// Subject represents an academic subject offered for a course semester.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      *string   `db:"code" json:"code,omitempty"`
	Course    string    `db:"course" json:"course"`
	Semester  int       `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Course   string
	Semester int
	Search   string
	Page     int
	PageSize int
}

// SubjectRequest is the create/update payload for subjects.
type SubjectRequest struct {
	Name     string  `json:"name" validate:"required"`
	Code     *string `json:"code"`
	Course   string  `json:"course" validate:"required"`
	Semester int     `json:"semester" validate:"required,min=1"`
}
