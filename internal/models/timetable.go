package models

import "time"

// TimetableEntry is one slot in the weekly grid for a course semester.
type TimetableEntry struct {
	ID        string    `db:"id" json:"id"`
	Day       string    `db:"day" json:"day"`
	Period    string    `db:"period" json:"period"`
	Subject   string    `db:"subject" json:"subject"`
	Teacher   string    `db:"teacher" json:"teacher"`
	Course    string    `db:"course" json:"course"`
	Semester  int       `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableFilter selects the grid for one course semester.
type TimetableFilter struct {
	Course   string
	Semester int
}

// TimetableRequest is the create/update payload for timetable slots.
type TimetableRequest struct {
	Day      string `json:"day" validate:"required"`
	Period   string `json:"period" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Teacher  string `json:"teacher" validate:"required"`
	Course   string `json:"course" validate:"required"`
	Semester int    `json:"semester" validate:"required,min=1"`
}
