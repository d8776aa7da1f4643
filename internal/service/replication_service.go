package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type replicationRepository interface {
	ListEntriesForDay(ctx context.Context, day int, week time.Time, semester, sectionID string) ([]models.ScheduleEntry, error)
	ListEntriesForWeek(ctx context.Context, week time.Time, semester string) ([]models.ScheduleEntry, error)
	DeleteDay(ctx context.Context, day int, week time.Time, semester string) error
	DeleteWeek(ctx context.Context, week time.Time, semester string) error
	Insert(ctx context.Context, entry *models.ScheduleEntry) error
	Upsert(ctx context.Context, entry *models.ScheduleEntry) error
}

// CopyDayRequest replicates one day's grid onto other days of the same week.
type CopyDayRequest struct {
	FromDay       int    `json:"from_day" validate:"min=0,max=6"`
	ToDays        []int  `json:"to_days" validate:"required,min=1,dive,min=0,max=6"`
	WeekStartDate string `json:"week_start_date" validate:"required"`
	Semester      string `json:"semester" validate:"required"`
}

// CopySectionDayRequest replicates one section's day without clearing the
// targets first.
type CopySectionDayRequest struct {
	ClassSectionID string `json:"class_section_id" validate:"required"`
	FromDay        int    `json:"from_day" validate:"min=0,max=6"`
	ToDays         []int  `json:"to_days" validate:"required,min=1,dive,min=0,max=6"`
	WeekStartDate  string `json:"week_start_date" validate:"required"`
	Semester       string `json:"semester" validate:"required"`
}

// CopyWeekRequest replicates one week's grid onto other weeks of a semester.
type CopyWeekRequest struct {
	SourceWeek  string   `json:"source_week" validate:"required"`
	TargetWeeks []string `json:"target_weeks" validate:"required,min=1"`
	Semester    string   `json:"semester" validate:"required"`
}

// ReplicationService copies schedule grids across days and weeks. Target
// scopes are cleared and rebuilt from the source, and individual entry
// failures are counted without aborting the run.
type ReplicationService struct {
	repo            replicationRepository
	cache           *CacheService
	metrics         *MetricsService
	validator       *validator.Validate
	logger          *zap.Logger
	dayErrorSample  int
	weekErrorSample int
}

// NewReplicationService instantiates ReplicationService.
func NewReplicationService(repo replicationRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, dayErrorSample, weekErrorSample int) *ReplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dayErrorSample <= 0 {
		dayErrorSample = 5
	}
	if weekErrorSample <= 0 {
		weekErrorSample = 10
	}
	return &ReplicationService{
		repo:            repo,
		cache:           cache,
		metrics:         metrics,
		validator:       validate,
		logger:          logger,
		dayErrorSample:  dayErrorSample,
		weekErrorSample: weekErrorSample,
	}
}

// CopyDayToDays replicates the whole school's grid for one day onto the
// target days of the same week. Each target day is cleared first, then the
// source entries are inserted one by one so a single bad row cannot abort
// the remainder. Rerunning the copy converges on the same final state.
func (s *ReplicationService) CopyDayToDays(ctx context.Context, req CopyDayRequest) (*models.CopyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy request")
	}

	week, err := ParseWeekStart(req.WeekStartDate)
	if err != nil {
		return nil, err
	}
	targets, err := normalizeTargetDays(req.FromDay, req.ToDays)
	if err != nil {
		return nil, err
	}

	source, err := s.repo.ListEntriesForDay(ctx, req.FromDay, week, req.Semester, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source day")
	}
	if len(source) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSourceSchedule,
			fmt.Sprintf("no schedule entries found on day %d of week %s to copy", req.FromDay, week.Format("2006-01-02")))
	}

	result := &models.CopyResult{TargetDays: targets}

	for _, day := range targets {
		if err := s.repo.DeleteDay(ctx, day, week, req.Semester); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				fmt.Sprintf("failed to clear day %d before copy", day))
		}
		for _, src := range source {
			entry := src
			entry.ID = ""
			entry.DayOfWeek = day
			if err := s.repo.Insert(ctx, &entry); err != nil {
				result.Failed++
				if len(result.Errors) < s.dayErrorSample {
					result.Errors = append(result.Errors,
						fmt.Sprintf("day %d, section %s, slot %s: %v", day, src.ClassSectionID, src.TimeSlotID, err))
				}
				continue
			}
			result.Copied++
		}
	}

	s.logger.Info("copied day schedule",
		zap.Int("from_day", req.FromDay),
		zap.Int("target_days", len(targets)),
		zap.Int("copied", result.Copied),
		zap.Int("failed", result.Failed))

	s.metrics.RecordCopyOutcome("copy_day", result.Copied, result.Failed)
	_ = s.cache.Invalidate(ctx, "schedule:day:*")
	return result, nil
}

// CopySectionDay replicates a single section's day onto the target days
// without clearing them. Writes go through the upsert path, so entries the
// targets already hold in the same slots are replaced in place.
func (s *ReplicationService) CopySectionDay(ctx context.Context, req CopySectionDayRequest) (*models.CopyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy request")
	}

	week, err := ParseWeekStart(req.WeekStartDate)
	if err != nil {
		return nil, err
	}
	targets, err := normalizeTargetDays(req.FromDay, req.ToDays)
	if err != nil {
		return nil, err
	}

	source, err := s.repo.ListEntriesForDay(ctx, req.FromDay, week, req.Semester, req.ClassSectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source day")
	}
	if len(source) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSourceSchedule,
			fmt.Sprintf("section has no schedule entries on day %d to copy", req.FromDay))
	}

	result := &models.CopyResult{TargetDays: targets}

	for _, day := range targets {
		for _, src := range source {
			entry := src
			entry.ID = ""
			entry.DayOfWeek = day
			if err := s.repo.Upsert(ctx, &entry); err != nil {
				result.Failed++
				if len(result.Errors) < s.dayErrorSample {
					result.Errors = append(result.Errors,
						fmt.Sprintf("day %d, slot %s: %v", day, src.TimeSlotID, err))
				}
				continue
			}
			result.Copied++
		}
	}

	s.metrics.RecordCopyOutcome("copy_section_day", result.Copied, result.Failed)
	_ = s.cache.Invalidate(ctx, "schedule:day:*")
	return result, nil
}

// CopyWeekToSemester replicates one week's full grid onto every target week.
// Each target week is cleared first. Failures are counted per entry and a
// bounded sample of error messages is returned with the result.
func (s *ReplicationService) CopyWeekToSemester(ctx context.Context, req CopyWeekRequest) (*models.CopyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy request")
	}

	sourceWeek, err := ParseWeekStart(req.SourceWeek)
	if err != nil {
		return nil, err
	}

	targetWeeks := make([]time.Time, 0, len(req.TargetWeeks))
	for _, raw := range req.TargetWeeks {
		week, err := ParseWeekStart(raw)
		if err != nil {
			return nil, err
		}
		if week.Equal(sourceWeek) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "target weeks must not include the source week")
		}
		targetWeeks = append(targetWeeks, week)
	}

	source, err := s.repo.ListEntriesForWeek(ctx, sourceWeek, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source week")
	}
	if len(source) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSourceSchedule,
			fmt.Sprintf("week %s has no schedule entries to copy", sourceWeek.Format("2006-01-02")))
	}

	result := &models.CopyResult{TargetWeeks: len(targetWeeks)}

	for _, week := range targetWeeks {
		if err := s.repo.DeleteWeek(ctx, week, req.Semester); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				fmt.Sprintf("failed to clear week %s before copy", week.Format("2006-01-02")))
		}
		for _, src := range source {
			entry := src
			entry.ID = ""
			entry.WeekStartDate = week
			if err := s.repo.Insert(ctx, &entry); err != nil {
				result.Failed++
				if len(result.Errors) < s.weekErrorSample {
					result.Errors = append(result.Errors,
						fmt.Sprintf("week %s, day %d: %v", week.Format("2006-01-02"), src.DayOfWeek, err))
				}
				continue
			}
			result.Copied++
		}
	}

	s.logger.Info("copied week schedule",
		zap.String("source_week", sourceWeek.Format("2006-01-02")),
		zap.Int("target_weeks", len(targetWeeks)),
		zap.Int("copied", result.Copied),
		zap.Int("failed", result.Failed))

	s.metrics.RecordCopyOutcome("copy_week", result.Copied, result.Failed)
	_ = s.cache.Invalidate(ctx, "schedule:day:*")
	return result, nil
}

// normalizeTargetDays rejects targets containing the source day and drops
// duplicate targets while preserving order.
func normalizeTargetDays(fromDay int, toDays []int) ([]int, error) {
	seen := make(map[int]bool, len(toDays))
	targets := make([]int, 0, len(toDays))
	for _, day := range toDays {
		if day == fromDay {
			return nil, appErrors.Clone(appErrors.ErrValidation, "target days must not include the source day")
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		targets = append(targets, day)
	}
	return targets, nil
}
