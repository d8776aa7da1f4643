package models

import "time"

// ClassSection is a recurring group of students tied to a grade level,
// section label and room.
type ClassSection struct {
	ID              string    `db:"id" json:"id"`
	GradeLevel      string    `db:"grade_level" json:"grade_level"`
	SectionName     string    `db:"section_name" json:"section_name"`
	RoomID          string    `db:"room_id" json:"room_id"`
	StudentCapacity int       `db:"student_capacity" json:"student_capacity"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ClassSectionDetail extends ClassSection with room display fields.
type ClassSectionDetail struct {
	ClassSection
	RoomNumber *string `db:"room_number" json:"room_number,omitempty"`
	RoomName   *string `db:"room_name" json:"room_name,omitempty"`
}
