package models

// AdminOverview summarises headline counts for the admin dashboard.
type AdminOverview struct {
	Students    int `json:"students"`
	Teachers    int `json:"teachers"`
	Subjects    int `json:"subjects"`
	Assignments int `json:"assignments"`
}

// StudentDashboard aggregates a student's home view.
type StudentDashboard struct {
	Assignments   []Assignment               `json:"assignments"`
	Announcements []Announcement             `json:"announcements"`
	Attendance    []SubjectAttendanceSummary `json:"attendance"`
}
