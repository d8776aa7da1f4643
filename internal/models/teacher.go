package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor joined with its user identity. Subjects is
// an ordered, non-empty set; the first element is the primary subject used
// for display.
type Teacher struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"user_id"`
	EmployeeID *string        `db:"employee_id" json:"employee_id,omitempty"`
	Phone      *string        `db:"phone" json:"phone,omitempty"`
	Subjects   pq.StringArray `db:"subjects" json:"subjects"`
	Name       string         `db:"name" json:"name"`
	Email      string         `db:"email" json:"email"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// PrimarySubject returns the display subject.
func (t Teacher) PrimarySubject() string {
	if len(t.Subjects) == 0 {
		return ""
	}
	return t.Subjects[0]
}

// QualifiedFor reports whether the teacher may teach the given subject.
func (t Teacher) QualifiedFor(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
