package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/timetable-api/internal/models"
)

const scheduleRowColumns = `
	ds.id, ds.class_section_id, ds.time_slot_id, ds.course_id, ds.teacher_id,
	ds.room_id, ds.day_of_week, ds.week_start_date, ds.semester, ds.is_active,
	ds.created_at, ds.updated_at,
	cs.grade_level, cs.section_name,
	ts.slot_name, ts.start_time, ts.end_time, ts.slot_order,
	c.course_name, c.course_code, c.subject,
	u.name AS teacher_name, t.employee_id,
	r.room_number, r.room_name`

const scheduleRowJoins = `
	FROM daily_schedules ds
	JOIN class_sections cs ON ds.class_section_id = cs.id
	JOIN time_slots ts ON ds.time_slot_id = ts.id
	JOIN courses c ON ds.course_id = c.id
	JOIN teachers t ON ds.teacher_id = t.id
	JOIN users u ON t.user_id = u.id
	LEFT JOIN rooms r ON ds.room_id = r.id`

// ScheduleRepository provides persistence for daily schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByDay returns the active grid for one day with display fields, ordered
// for grid rendering by grade, section and slot order.
func (r *ScheduleRepository) ListByDay(ctx context.Context, day int, week *time.Time, semester string) ([]models.ScheduleRow, error) {
	query := "SELECT" + scheduleRowColumns + scheduleRowJoins + " WHERE ds.day_of_week = $1 AND ds.is_active = true"
	args := []interface{}{day}

	if week != nil {
		query += fmt.Sprintf(" AND ds.week_start_date = $%d", len(args)+1)
		args = append(args, *week)
	}
	if semester != "" {
		query += fmt.Sprintf(" AND ds.semester = $%d", len(args)+1)
		args = append(args, semester)
	}

	query += " ORDER BY cs.grade_level, cs.section_name, ts.slot_order"

	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules by day: %w", err)
	}
	return rows, nil
}

// ListBySection returns a section's active schedule across all days.
func (r *ScheduleRepository) ListBySection(ctx context.Context, sectionID string, week *time.Time) ([]models.ScheduleRow, error) {
	query := "SELECT" + scheduleRowColumns + scheduleRowJoins + " WHERE ds.class_section_id = $1 AND ds.is_active = true"
	args := []interface{}{sectionID}

	if week != nil {
		query += fmt.Sprintf(" AND ds.week_start_date = $%d", len(args)+1)
		args = append(args, *week)
	}

	query += " ORDER BY ds.day_of_week, ts.slot_order"

	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules by section: %w", err)
	}
	return rows, nil
}

// ListByTeacher returns a teacher's active entries across sections.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID string, week *time.Time) ([]models.ScheduleRow, error) {
	query := "SELECT" + scheduleRowColumns + scheduleRowJoins +
		" WHERE ds.teacher_id = $1 AND ds.is_active = true AND ds.day_of_week BETWEEN 0 AND 6"
	args := []interface{}{teacherID}

	if week != nil {
		query += fmt.Sprintf(" AND ds.week_start_date = $%d", len(args)+1)
		args = append(args, *week)
	}

	query += " ORDER BY ds.day_of_week, ts.slot_order"

	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules by teacher: %w", err)
	}
	return rows, nil
}

// FindBySlot returns every active entry occupying the given planning cell
// (slot, day, week, semester), with display fields for conflict reporting.
func (r *ScheduleRepository) FindBySlot(ctx context.Context, slotID string, day int, week time.Time, semester string) ([]models.ScheduleRow, error) {
	query := "SELECT" + scheduleRowColumns + scheduleRowJoins + ` WHERE ds.time_slot_id = $1
		AND ds.day_of_week = $2 AND ds.week_start_date = $3 AND ds.semester = $4 AND ds.is_active = true`

	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, slotID, day, week, semester); err != nil {
		return nil, fmt.Errorf("find schedules by slot: %w", err)
	}
	return rows, nil
}

// FindByID loads one entry by id, active or not.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	const query = `SELECT id, class_section_id, time_slot_id, course_id, teacher_id, room_id,
		day_of_week, week_start_date, semester, is_active, created_at, updated_at
		FROM daily_schedules WHERE id = $1`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert writes an entry keyed by the uniqueness tuple. An existing row for
// the same (section, slot, day, week, semester) has its course, teacher and
// room overwritten and is reactivated; no duplicate row is ever created.
func (r *ScheduleRepository) Upsert(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.IsActive = true

	const query = `INSERT INTO daily_schedules
		(id, class_section_id, time_slot_id, course_id, teacher_id, room_id, day_of_week, week_start_date, semester, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, $10, $10)
		ON CONFLICT (class_section_id, time_slot_id, day_of_week, week_start_date, semester)
		DO UPDATE SET
			course_id = EXCLUDED.course_id,
			teacher_id = EXCLUDED.teacher_id,
			room_id = EXCLUDED.room_id,
			is_active = true,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.ClassSectionID, entry.TimeSlotID, entry.CourseID, entry.TeacherID,
		entry.RoomID, entry.DayOfWeek, entry.WeekStartDate, entry.Semester, now,
	)
	if err := row.Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// Insert stores one entry without conflict-target handling. Used by the
// replication engine where a unique violation is an individual failure to be
// counted, not resolved.
func (r *ScheduleRepository) Insert(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.IsActive = true

	const query = `INSERT INTO daily_schedules
		(id, class_section_id, time_slot_id, course_id, teacher_id, room_id, day_of_week, week_start_date, semester, is_active, created_at, updated_at)
		VALUES (:id, :class_section_id, :time_slot_id, :course_id, :teacher_id, :room_id, :day_of_week, :week_start_date, :semester, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// Deactivate soft-deletes one entry. Returns false when no row matched.
func (r *ScheduleRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_schedules SET is_active = false, updated_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("deactivate schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate schedule rows: %w", err)
	}
	return affected > 0, nil
}

// ListEntriesForDay returns raw active entries for a day within one week and
// semester, optionally scoped to a single section.
func (r *ScheduleRepository) ListEntriesForDay(ctx context.Context, day int, week time.Time, semester, sectionID string) ([]models.ScheduleEntry, error) {
	query := `SELECT id, class_section_id, time_slot_id, course_id, teacher_id, room_id,
		day_of_week, week_start_date, semester, is_active, created_at, updated_at
		FROM daily_schedules
		WHERE day_of_week = $1 AND week_start_date = $2 AND semester = $3 AND is_active = true`
	args := []interface{}{day, week, semester}

	if sectionID != "" {
		query += fmt.Sprintf(" AND class_section_id = $%d", len(args)+1)
		args = append(args, sectionID)
	}

	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule entries for day: %w", err)
	}
	return entries, nil
}

// ListEntriesForWeek returns every raw active entry in one week+semester.
func (r *ScheduleRepository) ListEntriesForWeek(ctx context.Context, week time.Time, semester string) ([]models.ScheduleEntry, error) {
	const query = `SELECT id, class_section_id, time_slot_id, course_id, teacher_id, room_id,
		day_of_week, week_start_date, semester, is_active, created_at, updated_at
		FROM daily_schedules
		WHERE week_start_date = $1 AND semester = $2 AND is_active = true`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, week, semester); err != nil {
		return nil, fmt.Errorf("list schedule entries for week: %w", err)
	}
	return entries, nil
}

// DeleteDay hard-deletes every entry, active or not, for one day within a
// week and semester. Replication replaces whole target periods; this is the
// documented exception to the soft-delete policy.
func (r *ScheduleRepository) DeleteDay(ctx context.Context, day int, week time.Time, semester string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM daily_schedules WHERE day_of_week = $1 AND week_start_date = $2 AND semester = $3`,
		day, week, semester); err != nil {
		return fmt.Errorf("delete schedules for day: %w", err)
	}
	return nil
}

// DeleteWeek hard-deletes every entry for one week within a semester.
func (r *ScheduleRepository) DeleteWeek(ctx context.Context, week time.Time, semester string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM daily_schedules WHERE week_start_date = $1 AND semester = $2`,
		week, semester); err != nil {
		return fmt.Errorf("delete schedules for week: %w", err)
	}
	return nil
}

// CountActiveForTeacherSlot counts a teacher's active claims on a slot+day
// across weeks in the caller's current context.
func (r *ScheduleRepository) CountActiveForTeacherSlot(ctx context.Context, teacherID, slotID string, day int) (int, error) {
	const query = `SELECT COUNT(*) FROM daily_schedules
		WHERE teacher_id = $1 AND time_slot_id = $2 AND day_of_week = $3 AND is_active = true`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID, slotID, day); err != nil {
		return 0, fmt.Errorf("count teacher slot claims: %w", err)
	}
	return count, nil
}
