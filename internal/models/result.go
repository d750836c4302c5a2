package models

import "time"

// ResultStatus marks a result row as passed or failed.
type ResultStatus string

const (
	ResultStatusPass ResultStatus = "Pass"
	ResultStatusFail ResultStatus = "Fail"
)

// Result stores internal/external marks for one student and subject.
type Result struct {
	ID        string       `db:"id" json:"id"`
	StudentID string       `db:"student_id" json:"student_id"`
	Course    string       `db:"course" json:"course"`
	Semester  int          `db:"semester" json:"semester"`
	Subject   string       `db:"subject" json:"subject"`
	Internal  float64      `db:"internal" json:"internal"`
	External  float64      `db:"external" json:"external"`
	Status    ResultStatus `db:"status" json:"resultStatus"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// ResultFilter captures supported filters for listing results.
type ResultFilter struct {
	Course    string
	Semester  int
	Subject   string
	StudentID string
	Page      int
	PageSize  int
}

// ResultRequest is the create/update payload for a result row.
type ResultRequest struct {
	StudentID string  `json:"student" validate:"required"`
	Course    string  `json:"course" validate:"required"`
	Semester  int     `json:"semester" validate:"required,min=1"`
	Subject   string  `json:"subject" validate:"required"`
	Internal  float64 `json:"internal" validate:"min=0,max=10"`
	External  float64 `json:"external" validate:"min=0,max=10"`
	Status    string  `json:"resultStatus" validate:"omitempty,oneof=Pass Fail"`
}

// SemesterResult groups a semester's results with its computed SGPA.
type SemesterResult struct {
	Semester int      `json:"semester"`
	Subjects []Result `json:"subjects"`
	SGPA     float64  `json:"sgpa"`
}

// ResultSummary is a student's full academic record.
type ResultSummary struct {
	StudentID string           `json:"student_id"`
	Semesters []SemesterResult `json:"semesters"`
}
