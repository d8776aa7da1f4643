package models

import "time"

// Room represents a physical classroom.
type Room struct {
	ID          string    `db:"id" json:"id"`
	RoomNumber  string    `db:"room_number" json:"room_number"`
	RoomName    string    `db:"room_name" json:"room_name"`
	Capacity    int       `db:"capacity" json:"capacity"`
	RoomType    string    `db:"room_type" json:"room_type"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// RoomDependencies enumerates records blocking a room deletion.
type RoomDependencies struct {
	StudentCount  int `json:"student_count"`
	SectionCount  int `json:"section_count"`
	ScheduleCount int `json:"schedule_count"`
}

// Blocked reports whether any dependent records exist.
func (d RoomDependencies) Blocked() bool {
	return d.StudentCount > 0 || d.SectionCount > 0 || d.ScheduleCount > 0
}
