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

const studentColumns = `s.id, s.user_id, s.student_id, s.grade_level, s.section, s.phone,
	s.address, s.enrollment_date, s.room_id,
	u.name, u.email, r.room_number`

// StudentRepository provides persistence for students and their linked users.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns all students ordered by student id.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := "SELECT " + studentColumns + ` FROM students s
		JOIN users u ON s.user_id = u.id
		LEFT JOIN rooms r ON s.room_id = r.id
		WHERE u.role = 'student'
		ORDER BY s.student_id`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID loads a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := "SELECT " + studentColumns + ` FROM students s
		JOIN users u ON s.user_id = u.id
		LEFT JOIN rooms r ON s.room_id = r.id
		WHERE s.id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID resolves a student from its user identity.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	query := "SELECT " + studentColumns + ` FROM students s
		JOIN users u ON s.user_id = u.id
		LEFT JOIN rooms r ON s.room_id = r.id
		WHERE s.user_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create stores the user identity and student profile in one transaction.
func (r *StudentRepository) Create(ctx context.Context, user *models.User, student *models.Student) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Role = models.RoleStudent
	user.CreatedAt = time.Now().UTC()

	if _, err = tx.NamedExecContext(ctx,
		`INSERT INTO users (id, name, email, username, role, created_at)
		 VALUES (:id, :name, :email, :username, :role, :created_at)`, user); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrDuplicateKey, "email or username already exists")
		} else {
			err = fmt.Errorf("create student user: %w", err)
		}
		return err
	}

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	student.UserID = user.ID
	if student.EnrollmentDate == nil {
		now := time.Now().UTC()
		student.EnrollmentDate = &now
	}

	if _, err = tx.NamedExecContext(ctx,
		`INSERT INTO students (id, user_id, student_id, grade_level, section, phone, address, enrollment_date, room_id)
		 VALUES (:id, :user_id, :student_id, :grade_level, :section, :phone, :address, :enrollment_date, :room_id)`, student); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrDuplicateKey, "student id already exists")
		} else {
			err = fmt.Errorf("create student: %w", err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create student: %w", err)
	}

	student.Name = user.Name
	student.Email = user.Email
	return nil
}

// Update modifies the student profile and its user display fields.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET name = $1, email = $2 WHERE id = $3`,
		student.Name, student.Email, student.UserID); err != nil {
		err = fmt.Errorf("update student user: %w", err)
		return err
	}

	if _, err = tx.NamedExecContext(ctx,
		`UPDATE students SET student_id = :student_id, grade_level = :grade_level, section = :section,
		 phone = :phone, address = :address, enrollment_date = :enrollment_date, room_id = :room_id
		 WHERE id = :id`, student); err != nil {
		err = fmt.Errorf("update student: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update student: %w", err)
	}
	return nil
}

// Delete removes the student and its user identity.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	var userID string
	if err := r.db.GetContext(ctx, &userID, `SELECT user_id FROM students WHERE id = $1`, id); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		err = fmt.Errorf("delete student: %w", err)
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		err = fmt.Errorf("delete student user: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	return nil
}
