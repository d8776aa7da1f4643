package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context) ([]models.ClassSectionDetail, error)
	FindByID(ctx context.Context, id string) (*models.ClassSection, error)
	Create(ctx context.Context, section *models.ClassSection) error
	SyncFromRooms(ctx context.Context, defaultCapacity int) error
}

// SectionRequest carries a class-section create payload.
type SectionRequest struct {
	GradeLevel      string `json:"grade_level" validate:"required"`
	SectionName     string `json:"section_name" validate:"required"`
	RoomID          string `json:"room_id" validate:"required"`
	StudentCapacity int    `json:"student_capacity"`
}

// SectionService manages class sections, including the reconciliation that
// derives sections from occupied rooms.
type SectionService struct {
	repo            sectionRepository
	validator       *validator.Validate
	logger          *zap.Logger
	defaultCapacity int
}

// NewSectionService instantiates SectionService.
func NewSectionService(repo sectionRepository, validate *validator.Validate, logger *zap.Logger, defaultCapacity int) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCapacity <= 0 {
		defaultCapacity = 30
	}
	return &SectionService{repo: repo, validator: validate, logger: logger, defaultCapacity: defaultCapacity}
}

// List reconciles sections from room occupancy and returns the active set.
// Reconciliation only adds missing sections, so repeated calls converge.
func (s *SectionService) List(ctx context.Context) ([]models.ClassSectionDetail, error) {
	if err := s.repo.SyncFromRooms(ctx, s.defaultCapacity); err != nil {
		s.logger.Warn("section sync from rooms failed", zap.Error(err))
	}

	sections, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class sections")
	}
	return sections, nil
}

// Get returns one class section by id.
func (s *SectionService) Get(ctx context.Context, id string) (*models.ClassSection, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class section")
	}
	return section, nil
}

// Create registers a class section explicitly.
func (s *SectionService) Create(ctx context.Context, req SectionRequest) (*models.ClassSection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class section payload")
	}

	section := &models.ClassSection{
		GradeLevel:      req.GradeLevel,
		SectionName:     req.SectionName,
		RoomID:          req.RoomID,
		StudentCapacity: req.StudentCapacity,
		IsActive:        true,
	}
	if section.StudentCapacity <= 0 {
		section.StudentCapacity = s.defaultCapacity
	}

	if err := s.repo.Create(ctx, section); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class section")
	}
	return section, nil
}
