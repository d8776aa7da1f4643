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

type timeSlotRepository interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
	Update(ctx context.Context, slot *models.TimeSlot) error
	CountActiveSchedules(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TimeSlotRequest carries a time-slot create or update payload. Times are
// HH:MM strings; SlotOrder is unique across active slots.
type TimeSlotRequest struct {
	SlotName  string `json:"slot_name" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	SlotOrder int    `json:"slot_order" validate:"min=1"`
}

// TimeSlotService manages the period grid rows.
type TimeSlotService struct {
	repo      timeSlotRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeSlotService instantiates TimeSlotService.
func NewTimeSlotService(repo timeSlotRepository, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{repo: repo, validator: validate, logger: logger}
}

// List returns active slots in grid order. When schedulableOnly is set,
// break and lunch periods are filtered out for planner-facing views.
func (s *TimeSlotService) List(ctx context.Context, schedulableOnly bool) ([]models.TimeSlot, error) {
	slots, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	if !schedulableOnly {
		return slots, nil
	}

	filtered := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Schedulable() {
			filtered = append(filtered, slot)
		}
	}
	return filtered, nil
}

// Get returns one time slot by id.
func (s *TimeSlotService) Get(ctx context.Context, id string) (*models.TimeSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slot")
	}
	return slot, nil
}

// Create registers a new slot. Duplicate slot orders are rejected.
func (s *TimeSlotService) Create(ctx context.Context, req TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}

	slot := &models.TimeSlot{
		SlotName:  req.SlotName,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SlotOrder: req.SlotOrder,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create time slot")
	}
	return slot, nil
}

// Update modifies an existing slot.
func (s *TimeSlotService) Update(ctx context.Context, id string, req TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}

	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	slot.SlotName = req.SlotName
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	slot.SlotOrder = req.SlotOrder

	if err := s.repo.Update(ctx, slot); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update time slot")
	}
	return slot, nil
}

// Delete removes a slot unless active schedule entries still reference it.
func (s *TimeSlotService) Delete(ctx context.Context, id string) error {
	count, err := s.repo.CountActiveSchedules(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check time slot dependencies")
	}
	if count > 0 {
		return appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrDependencyBlocked, "time slot is referenced by active schedule entries"),
			map[string]int{"schedule_count": count})
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete time slot")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
	}

	s.logger.Info("time slot deleted", zap.String("time_slot_id", id))
	return nil
}
