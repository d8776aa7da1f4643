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

// RoomRepository provides persistence for rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns all rooms ordered by room number.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, room_number, room_name, capacity, room_type, is_available, created_at
		FROM rooms ORDER BY room_number ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID loads a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, room_number, room_name, capacity, room_type, is_available, created_at
		FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// Create stores a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}
	room.IsAvailable = true

	const query = `INSERT INTO rooms (id, room_number, room_name, capacity, room_type, is_available, created_at)
		VALUES (:id, :room_number, :room_name, :capacity, :room_type, :is_available, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "room number already exists")
		}
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies a room record.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	const query = `UPDATE rooms SET room_number = :room_number, room_name = :room_name,
		capacity = :capacity, room_type = :room_type WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "room number already exists")
		}
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Dependencies counts records that would block deleting the room: students
// assigned to it, class sections hosted in it, and schedule entries placed
// either in the room or in any section it hosts.
func (r *RoomRepository) Dependencies(ctx context.Context, id string) (models.RoomDependencies, error) {
	var deps models.RoomDependencies

	if err := r.db.GetContext(ctx, &deps.StudentCount,
		`SELECT COUNT(*) FROM students WHERE room_id = $1`, id); err != nil {
		return deps, fmt.Errorf("count room students: %w", err)
	}
	if err := r.db.GetContext(ctx, &deps.SectionCount,
		`SELECT COUNT(*) FROM class_sections WHERE room_id = $1`, id); err != nil {
		return deps, fmt.Errorf("count room sections: %w", err)
	}
	if err := r.db.GetContext(ctx, &deps.ScheduleCount,
		`SELECT COUNT(*) FROM daily_schedules
		 WHERE room_id = $1 OR class_section_id IN (SELECT id FROM class_sections WHERE room_id = $1)`, id); err != nil {
		return deps, fmt.Errorf("count room schedules: %w", err)
	}

	return deps, nil
}

// Delete removes a room by id.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
