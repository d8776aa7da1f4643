package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, user *models.User, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type sectionEnsurer interface {
	ExistsActive(ctx context.Context, roomID, gradeLevel, sectionName string) (bool, error)
	Create(ctx context.Context, section *models.ClassSection) error
}

// StudentRequest carries a student create or update payload.
type StudentRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	StudentID      string  `json:"student_id" validate:"required"`
	GradeLevel     *string `json:"grade_level"`
	Section        *string `json:"section"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	RoomID         *string `json:"room_id"`
	EnrollmentDate *string `json:"enrollment_date"`
}

// StudentService manages student enrollment. Whenever a student lands in a
// room with a grade and section, the matching class section is created on
// demand so the scheduling grid always has a section to attach entries to.
type StudentService struct {
	repo            studentRepository
	sections        sectionEnsurer
	validator       *validator.Validate
	logger          *zap.Logger
	defaultCapacity int
}

// NewStudentService instantiates StudentService.
func NewStudentService(repo studentRepository, sections sectionEnsurer, validate *validator.Validate, logger *zap.Logger, defaultCapacity int) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCapacity <= 0 {
		defaultCapacity = 30
	}
	return &StudentService{
		repo:            repo,
		sections:        sections,
		validator:       validate,
		logger:          logger,
		defaultCapacity: defaultCapacity,
	}
}

// List returns all students with their room assignment.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a student together with its user identity.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	enrollment, err := parseOptionalDate(req.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.RoleStudent,
	}
	student := &models.Student{
		StudentID:      req.StudentID,
		GradeLevel:     req.GradeLevel,
		Section:        req.Section,
		Phone:          req.Phone,
		Address:        req.Address,
		RoomID:         req.RoomID,
		EnrollmentDate: enrollment,
		Name:           req.Name,
		Email:          req.Email,
	}

	if err := s.repo.Create(ctx, user, student); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.ensureSection(ctx, student)
	return student, nil
}

// Update modifies a student and its user identity.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollment, err := parseOptionalDate(req.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	student.Name = req.Name
	student.Email = req.Email
	student.StudentID = req.StudentID
	student.GradeLevel = req.GradeLevel
	student.Section = req.Section
	student.Phone = req.Phone
	student.Address = req.Address
	student.RoomID = req.RoomID
	if enrollment != nil {
		student.EnrollmentDate = enrollment
	}

	if err := s.repo.Update(ctx, student); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	s.ensureSection(ctx, student)
	return student, nil
}

// Delete removes a student and its user identity.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// ensureSection creates the student's class section if it does not exist
// yet. The operation is best effort: reconciliation also runs as a bulk
// sync, so a failure here never fails the enrollment itself.
func (s *StudentService) ensureSection(ctx context.Context, student *models.Student) {
	if student.RoomID == nil || student.GradeLevel == nil || student.Section == nil {
		return
	}
	if *student.GradeLevel == "" || *student.Section == "" {
		return
	}

	exists, err := s.sections.ExistsActive(ctx, *student.RoomID, *student.GradeLevel, *student.Section)
	if err != nil {
		s.logger.Warn("section existence check failed",
			zap.String("room_id", *student.RoomID), zap.Error(err))
		return
	}
	if exists {
		return
	}

	section := &models.ClassSection{
		GradeLevel:      *student.GradeLevel,
		SectionName:     *student.Section,
		RoomID:          *student.RoomID,
		StudentCapacity: s.defaultCapacity,
		IsActive:        true,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		s.logger.Warn("section auto-creation failed",
			zap.String("grade_level", *student.GradeLevel),
			zap.String("section", *student.Section),
			zap.Error(err))
		return
	}

	s.logger.Info("class section auto-created",
		zap.String("grade_level", section.GradeLevel),
		zap.String("section_name", section.SectionName))
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dates must be formatted YYYY-MM-DD")
	}
	return &t, nil
}
