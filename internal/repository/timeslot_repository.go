package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

// TimeSlotRepository provides persistence for time slots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository creates a new time slot repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// List returns active time slots ordered by slot order.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, slot_name, start_time, end_time, slot_order, is_active, created_at
		FROM time_slots WHERE is_active = true ORDER BY slot_order`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// FindByID loads a time slot by id.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	const query = `SELECT id, slot_name, start_time, end_time, slot_order, is_active, created_at
		FROM time_slots WHERE id = $1`
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create stores a new time slot. A duplicate slot order is reported as a
// duplicate key, not a generic failure.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	slot.IsActive = true

	const query = `INSERT INTO time_slots (id, slot_name, start_time, end_time, slot_order, is_active, created_at)
		VALUES (:id, :slot_name, :start_time, :end_time, :slot_order, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "slot order already exists")
		}
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// Update modifies a time slot record.
func (r *TimeSlotRepository) Update(ctx context.Context, slot *models.TimeSlot) error {
	const query = `UPDATE time_slots SET slot_name = :slot_name, start_time = :start_time,
		end_time = :end_time, slot_order = :slot_order WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "slot order already exists")
		}
		return fmt.Errorf("update time slot: %w", err)
	}
	return nil
}

// CountActiveSchedules counts active schedule entries referencing the slot.
func (r *TimeSlotRepository) CountActiveSchedules(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM daily_schedules WHERE time_slot_id = $1 AND is_active = true`, id); err != nil {
		return 0, fmt.Errorf("count time slot schedules: %w", err)
	}
	return count, nil
}

// Delete removes a time slot by id. Returns false when no row matched.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete time slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete time slot rows: %w", err)
	}
	return affected > 0, nil
}
