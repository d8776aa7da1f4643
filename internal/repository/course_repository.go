package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/timetable-api/internal/models"
)

// CourseRepository provides persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses ordered by course code.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, course_code, course_name, description, subject, grade_level, created_at
		FROM courses ORDER BY course_code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListByGrade returns courses grouped for planner dropdowns.
func (r *CourseRepository) ListByGrade(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, course_code, course_name, description, subject, grade_level, created_at
		FROM courses ORDER BY grade_level, subject`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses by grade: %w", err)
	}
	return courses, nil
}

// ListSubjects returns the distinct non-empty course subjects.
func (r *CourseRepository) ListSubjects(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT subject FROM courses
		WHERE subject IS NOT NULL AND subject != '' ORDER BY subject`
	var subjects []string
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID loads a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, course_code, course_name, description, subject, grade_level, created_at
		FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create stores a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO courses (id, course_code, course_name, description, subject, grade_level, created_at)
		VALUES (:id, :course_code, :course_name, :description, :subject, :grade_level, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies a course record.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET course_code = :course_code, course_name = :course_name,
		description = :description, subject = :subject, grade_level = :grade_level WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// CountActiveSchedules counts active schedule entries referencing the course.
func (r *CourseRepository) CountActiveSchedules(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM daily_schedules WHERE course_id = $1 AND is_active = true`, id); err != nil {
		return 0, fmt.Errorf("count course schedules: %w", err)
	}
	return count, nil
}

// Delete removes a course by id.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}
