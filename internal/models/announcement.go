package models

import "time"

// Announcement represents a notice, optionally scoped to a course semester
// or subject. Nil scope fields mean the announcement is visible to everyone.
type Announcement struct {
	ID        string    `db:"id" json:"id"`
	Course    *string   `db:"course" json:"course,omitempty"`
	Semester  *int      `db:"semester" json:"semester,omitempty"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Message   string    `db:"message" json:"message"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AnnouncementFilter lists announcements for a scope, including global ones.
type AnnouncementFilter struct {
	Course   string
	Semester int
	Page     int
	PageSize int
}

// AnnouncementRequest is the create/update payload for announcements.
type AnnouncementRequest struct {
	Course   *string `json:"course"`
	Semester *int    `json:"semester" validate:"omitempty,min=1"`
	Subject  *string `json:"subject"`
	Message  string  `json:"message" validate:"required"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
