package models

import (
	"strings"
	"time"
)

// TimeSlot is a named period of the day used as the scheduling granularity.
// SlotOrder is unique and drives grid row ordering.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	SlotName  string    `db:"slot_name" json:"slot_name"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	SlotOrder int       `db:"slot_order" json:"slot_order"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Schedulable reports whether the slot belongs to the planner-facing grid.
// Break and lunch periods remain valid rows in storage but are never
// offered for class assignment.
func (s TimeSlot) Schedulable() bool {
	name := strings.ToLower(s.SlotName)
	return !strings.Contains(name, "break") && !strings.Contains(name, "lunch")
}
