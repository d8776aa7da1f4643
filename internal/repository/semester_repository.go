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

// SemesterRepository provides persistence for semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository creates a new semester repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns active semesters, newest start date first.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	const query = `SELECT id, semester_name, start_date, end_date, is_active, created_at
		FROM semesters WHERE is_active = true ORDER BY start_date DESC`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindByID loads a semester by id.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT id, semester_name, start_date, end_date, is_active, created_at
		FROM semesters WHERE id = $1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// FindByName loads an active semester by its unique name.
func (r *SemesterRepository) FindByName(ctx context.Context, name string) (*models.Semester, error) {
	const query = `SELECT id, semester_name, start_date, end_date, is_active, created_at
		FROM semesters WHERE semester_name = $1 AND is_active = true`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, name); err != nil {
		return nil, err
	}
	return &semester, nil
}

// Create stores a new semester. A duplicate name is reported as a duplicate
// key, not a generic failure.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	if semester.CreatedAt.IsZero() {
		semester.CreatedAt = time.Now().UTC()
	}
	semester.IsActive = true

	const query = `INSERT INTO semesters (id, semester_name, start_date, end_date, is_active, created_at)
		VALUES (:id, :semester_name, :start_date, :end_date, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "semester name already exists")
		}
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// Update modifies an active semester. Returns false when no row matched.
func (r *SemesterRepository) Update(ctx context.Context, semester *models.Semester) (bool, error) {
	const query = `UPDATE semesters SET semester_name = :semester_name, start_date = :start_date,
		end_date = :end_date WHERE id = :id AND is_active = true`
	res, err := r.db.NamedExecContext(ctx, query, semester)
	if err != nil {
		if isUniqueViolation(err) {
			return false, appErrors.Clone(appErrors.ErrDuplicateKey, "semester name already exists")
		}
		return false, fmt.Errorf("update semester: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update semester rows: %w", err)
	}
	return affected > 0, nil
}

// CountActiveSchedules counts active schedule entries referencing the
// semester by name.
func (r *SemesterRepository) CountActiveSchedules(ctx context.Context, id string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM daily_schedules
		WHERE semester = (SELECT semester_name FROM semesters WHERE id = $1) AND is_active = true`
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count semester schedules: %w", err)
	}
	return count, nil
}

// Deactivate soft-deletes a semester. Returns false when no row matched.
func (r *SemesterRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE semesters SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deactivate semester: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate semester rows: %w", err)
	}
	return affected > 0, nil
}
