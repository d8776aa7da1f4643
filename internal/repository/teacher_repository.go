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

const teacherColumns = `t.id, t.user_id, t.employee_id, t.phone, t.subjects, t.created_at,
	u.name, u.email`

// TeacherRepository provides persistence for teachers and their linked users.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns the full roster ordered by name. This ordering doubles as the
// stable candidate order for automatic teacher selection.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	query := "SELECT " + teacherColumns + ` FROM teachers t
		JOIN users u ON t.user_id = u.id
		WHERE u.role = 'teacher'
		ORDER BY u.name, t.id`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListBySubject returns teachers qualified for a subject in roster order.
func (r *TeacherRepository) ListBySubject(ctx context.Context, subject string) ([]models.Teacher, error) {
	query := "SELECT " + teacherColumns + ` FROM teachers t
		JOIN users u ON t.user_id = u.id
		WHERE u.role = 'teacher' AND $1 = ANY(t.subjects)
		ORDER BY u.name, t.id`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, subject); err != nil {
		return nil, fmt.Errorf("list teachers by subject: %w", err)
	}
	return teachers, nil
}

// FindByID loads a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := "SELECT " + teacherColumns + ` FROM teachers t
		JOIN users u ON t.user_id = u.id WHERE t.id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByUserID resolves a teacher from its user identity.
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	query := "SELECT " + teacherColumns + ` FROM teachers t
		JOIN users u ON t.user_id = u.id WHERE t.user_id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create stores the user identity and teacher profile in one transaction.
// Credentials are owned by the identity service and never written here.
func (r *TeacherRepository) Create(ctx context.Context, user *models.User, teacher *models.Teacher) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Role = models.RoleTeacher
	user.CreatedAt = time.Now().UTC()

	if _, err = tx.NamedExecContext(ctx,
		`INSERT INTO users (id, name, email, username, role, created_at)
		 VALUES (:id, :name, :email, :username, :role, :created_at)`, user); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrDuplicateKey, "email or username already exists")
		} else {
			err = fmt.Errorf("create teacher user: %w", err)
		}
		return err
	}

	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	teacher.UserID = user.ID
	teacher.CreatedAt = user.CreatedAt

	if _, err = tx.NamedExecContext(ctx,
		`INSERT INTO teachers (id, user_id, employee_id, phone, subjects, created_at)
		 VALUES (:id, :user_id, :employee_id, :phone, :subjects, :created_at)`, teacher); err != nil {
		err = fmt.Errorf("create teacher: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create teacher: %w", err)
	}

	teacher.Name = user.Name
	teacher.Email = user.Email
	return nil
}

// Update modifies the teacher profile and its user display fields.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET name = $1, email = $2 WHERE id = $3`,
		teacher.Name, teacher.Email, teacher.UserID); err != nil {
		err = fmt.Errorf("update teacher user: %w", err)
		return err
	}

	if _, err = tx.NamedExecContext(ctx,
		`UPDATE teachers SET employee_id = :employee_id, phone = :phone, subjects = :subjects
		 WHERE id = :id`, teacher); err != nil {
		err = fmt.Errorf("update teacher: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update teacher: %w", err)
	}
	return nil
}

// Delete removes the teacher and its user identity. A foreign key violation
// means schedule entries still reference the teacher.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	var userID string
	if err := r.db.GetContext(ctx, &userID, `SELECT user_id FROM teachers WHERE id = $1`, id); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			err = appErrors.Clone(appErrors.ErrDependencyBlocked, "teacher has schedule entries assigned")
		} else {
			err = fmt.Errorf("delete teacher: %w", err)
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		err = fmt.Errorf("delete teacher user: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete teacher: %w", err)
	}
	return nil
}
