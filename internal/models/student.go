package models

import "time"

// Student represents an enrolled student joined with its user identity.
// GradeLevel, Section and RoomID together drive class-section derivation.
type Student struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"user_id"`
	StudentID      string     `db:"student_id" json:"student_id"`
	GradeLevel     *string    `db:"grade_level" json:"grade_level,omitempty"`
	Section        *string    `db:"section" json:"section,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	EnrollmentDate *time.Time `db:"enrollment_date" json:"enrollment_date,omitempty"`
	RoomID         *string    `db:"room_id" json:"room_id,omitempty"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email"`
	RoomNumber     *string    `db:"room_number" json:"room_number,omitempty"`
}
