package models

import "time"

// Semester is a named date range bounding valid week values for schedule
// entries. SemesterName is unique and referenced by value from schedules.
type Semester struct {
	ID           string    `db:"id" json:"id"`
	SemesterName string    `db:"semester_name" json:"semester_name"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
