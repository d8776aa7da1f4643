package models

import "time"

// Course is a catalog entry teachable by any teacher whose subject set
// contains the course subject.
type Course struct {
	ID          string    `db:"id" json:"id"`
	CourseCode  string    `db:"course_code" json:"course_code"`
	CourseName  string    `db:"course_name" json:"course_name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Subject     string    `db:"subject" json:"subject"`
	GradeLevel  string    `db:"grade_level" json:"grade_level"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
