package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/timetable-api/internal/models"
)

// SectionRepository provides persistence for class sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new class section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns all active sections with room display fields, ordered for
// grid rendering by grade then section.
func (r *SectionRepository) List(ctx context.Context) ([]models.ClassSectionDetail, error) {
	const query = `SELECT cs.id, cs.grade_level, cs.section_name, cs.room_id, cs.student_capacity,
		cs.is_active, cs.created_at, rm.room_number, rm.room_name
		FROM class_sections cs
		LEFT JOIN rooms rm ON cs.room_id = rm.id
		WHERE cs.is_active = true
		ORDER BY cs.grade_level, cs.section_name`
	var sections []models.ClassSectionDetail
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindByID loads a section by id.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.ClassSection, error) {
	const query = `SELECT id, grade_level, section_name, room_id, student_capacity, is_active, created_at
		FROM class_sections WHERE id = $1`
	var section models.ClassSection
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// FindActiveByGradeSection resolves the active section for a grade and
// section label, used to derive student schedules.
func (r *SectionRepository) FindActiveByGradeSection(ctx context.Context, gradeLevel, sectionName string) (*models.ClassSection, error) {
	const query = `SELECT id, grade_level, section_name, room_id, student_capacity, is_active, created_at
		FROM class_sections
		WHERE grade_level = $1 AND section_name = $2 AND is_active = true
		LIMIT 1`
	var section models.ClassSection
	if err := r.db.GetContext(ctx, &section, query, gradeLevel, sectionName); err != nil {
		return nil, err
	}
	return &section, nil
}

// ExistsActive reports whether an active section already exists for the
// (room, grade, section) triple. Reconciliation relies on this check to stay
// idempotent.
func (r *SectionRepository) ExistsActive(ctx context.Context, roomID, gradeLevel, sectionName string) (bool, error) {
	const query = `SELECT 1 FROM class_sections
		WHERE room_id = $1 AND grade_level = $2 AND section_name = $3 AND is_active = true
		LIMIT 1`
	var one int
	err := r.db.GetContext(ctx, &one, query, roomID, gradeLevel, sectionName)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check section exists: %w", err)
	}
	return true, nil
}

// Create stores a new class section.
func (r *SectionRepository) Create(ctx context.Context, section *models.ClassSection) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	if section.CreatedAt.IsZero() {
		section.CreatedAt = time.Now().UTC()
	}
	section.IsActive = true

	const query = `INSERT INTO class_sections (id, grade_level, section_name, room_id, student_capacity, is_active, created_at)
		VALUES (:id, :grade_level, :section_name, :room_id, :student_capacity, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// SyncFromRooms derives missing class sections from occupied rooms: any
// available room whose students share a grade and section label gets an
// active section if none exists. Idempotent by construction.
func (r *SectionRepository) SyncFromRooms(ctx context.Context, defaultCapacity int) error {
	const query = `INSERT INTO class_sections (id, grade_level, section_name, room_id, student_capacity, is_active, created_at)
		SELECT gen_random_uuid(), s.grade_level, s.section, rm.id, $1, true, NOW()
		FROM rooms rm
		LEFT JOIN students s ON s.room_id = rm.id
		WHERE rm.is_available = true
		AND NOT EXISTS (
			SELECT 1 FROM class_sections cs
			WHERE cs.room_id = rm.id AND cs.is_active = true
		)
		AND s.grade_level IS NOT NULL
		AND s.section IS NOT NULL
		GROUP BY rm.id, s.grade_level, s.section`
	if _, err := r.db.ExecContext(ctx, query, defaultCapacity); err != nil {
		return fmt.Errorf("sync sections from rooms: %w", err)
	}
	return nil
}
