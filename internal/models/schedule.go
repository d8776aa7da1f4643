package models

import (
	"fmt"
	"time"
)

// ScheduleEntry is one (section, slot, day, week, semester) assignment of a
// course and teacher. At most one active entry exists per that tuple; writes
// against an existing tuple overwrite course/teacher/room. Deletion is a
// soft deactivate except inside replication, which replaces whole target
// periods.
type ScheduleEntry struct {
	ID             string    `db:"id" json:"id"`
	ClassSectionID string    `db:"class_section_id" json:"class_section_id"`
	TimeSlotID     string    `db:"time_slot_id" json:"time_slot_id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	RoomID         *string   `db:"room_id" json:"room_id,omitempty"`
	DayOfWeek      int       `db:"day_of_week" json:"day_of_week"`
	WeekStartDate  time.Time `db:"week_start_date" json:"week_start_date"`
	Semester       string    `db:"semester" json:"semester"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SameSlotKey reports whether another entry occupies the same planning cell
// (slot, day, week, semester), regardless of section.
func (e ScheduleEntry) SameSlotKey(slotID string, day int, week time.Time, semester string) bool {
	return e.TimeSlotID == slotID &&
		e.DayOfWeek == day &&
		e.WeekStartDate.Equal(week) &&
		e.Semester == semester
}

// ScheduleRow is a schedule entry joined with display fields for grid views.
type ScheduleRow struct {
	ScheduleEntry
	GradeLevel  string  `db:"grade_level" json:"grade_level"`
	SectionName string  `db:"section_name" json:"section_name"`
	SlotName    string  `db:"slot_name" json:"slot_name"`
	StartTime   string  `db:"start_time" json:"start_time"`
	EndTime     string  `db:"end_time" json:"end_time"`
	SlotOrder   int     `db:"slot_order" json:"slot_order"`
	CourseName  string  `db:"course_name" json:"course_name"`
	CourseCode  string  `db:"course_code" json:"course_code"`
	Subject     string  `db:"subject" json:"subject"`
	TeacherName string  `db:"teacher_name" json:"teacher_name"`
	EmployeeID  *string `db:"employee_id" json:"employee_id,omitempty"`
	RoomNumber  *string `db:"room_number" json:"room_number,omitempty"`
	RoomName    *string `db:"room_name" json:"room_name,omitempty"`
}

// ConflictType tags the resource dimension of a schedule conflict.
type ConflictType string

const (
	ConflictTeacher ConflictType = "teacher"
	ConflictRoom    ConflictType = "room"
)

// ScheduleConflict describes one clash between a candidate assignment and an
// existing entry. A single colliding entry can produce two conflicts, one
// per dimension.
type ScheduleConflict struct {
	Type         ConflictType `json:"type"`
	ResourceID   string       `json:"resource_id"`
	ResourceName string       `json:"resource_name"`
	SectionID    string       `json:"section_id"`
	GradeLevel   string       `json:"grade_level,omitempty"`
	SectionName  string       `json:"section_name,omitempty"`
}

// ScheduleConflictError carries every conflict detected for a candidate.
type ScheduleConflictError struct {
	Conflicts []ScheduleConflict
}

// Error implements the error interface.
func (e *ScheduleConflictError) Error() string {
	if e == nil || len(e.Conflicts) == 0 {
		return "schedule conflict"
	}
	c := e.Conflicts[0]
	return fmt.Sprintf("schedule conflict: %s %s already booked (and %d more)", c.Type, c.ResourceName, len(e.Conflicts)-1)
}

// CopyResult summarises a bulk replication run. Errors is a bounded sample;
// Copied and Failed are the source of truth for what landed.
type CopyResult struct {
	Copied      int      `json:"copied"`
	Failed      int      `json:"failed"`
	TargetDays  []int    `json:"target_days,omitempty"`
	TargetWeeks int      `json:"target_weeks,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// TeacherAvailability reports whether a teacher is free for a slot and day.
type TeacherAvailability struct {
	TeacherID  string `json:"teacher_id"`
	TimeSlotID string `json:"time_slot_id"`
	DayOfWeek  int    `json:"day_of_week"`
	Available  bool   `json:"available"`
}
