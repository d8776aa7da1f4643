package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type scheduleRepository interface {
	ListByDay(ctx context.Context, day int, week *time.Time, semester string) ([]models.ScheduleRow, error)
	ListBySection(ctx context.Context, sectionID string, week *time.Time) ([]models.ScheduleRow, error)
	ListByTeacher(ctx context.Context, teacherID string, week *time.Time) ([]models.ScheduleRow, error)
	FindBySlot(ctx context.Context, slotID string, day int, week time.Time, semester string) ([]models.ScheduleRow, error)
	Upsert(ctx context.Context, entry *models.ScheduleEntry) error
	Deactivate(ctx context.Context, id string) (bool, error)
	CountActiveForTeacherSlot(ctx context.Context, teacherID, slotID string, day int) (int, error)
}

type sectionReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassSection, error)
	FindActiveByGradeSection(ctx context.Context, gradeLevel, sectionName string) (*models.ClassSection, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
	ListBySubject(ctx context.Context, subject string) ([]models.Teacher, error)
}

type studentReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type timeSlotReader interface {
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
}

// AssignScheduleRequest describes a single planning request. TeacherID may
// be omitted, in which case a qualified conflict-free teacher is selected
// automatically. RoomID falls back to the section's room.
type AssignScheduleRequest struct {
	ClassSectionID string `json:"class_section_id" validate:"required"`
	TimeSlotID     string `json:"time_slot_id" validate:"required"`
	CourseID       string `json:"course_id" validate:"required"`
	TeacherID      string `json:"teacher_id"`
	RoomID         string `json:"room_id"`
	DayOfWeek      int    `json:"day_of_week" validate:"min=0,max=6"`
	WeekStartDate  string `json:"week_start_date" validate:"required"`
	Semester       string `json:"semester" validate:"required"`
}

// AssignManyRequest plans several entries as one operation. Entries staged
// earlier in the batch count as occupied when checking later ones.
type AssignManyRequest struct {
	Items          []AssignScheduleRequest `json:"items" validate:"required,min=1,dive"`
	PartialOnError bool                    `json:"partial_on_error"`
}

// AssignManyResult summarises a batch planning run.
type AssignManyResult struct {
	Created   []models.ScheduleEntry    `json:"created"`
	Conflicts []models.ScheduleConflict `json:"conflicts,omitempty"`
}

// ScheduleService owns conflict detection, assignment planning and the
// schedule read surface.
type ScheduleService struct {
	repo      scheduleRepository
	sections  sectionReader
	courses   courseReader
	teachers  teacherReader
	students  studentReader
	slots     timeSlotReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(
	repo scheduleRepository,
	sections sectionReader,
	courses courseReader,
	teachers teacherReader,
	students studentReader,
	slots timeSlotReader,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      repo,
		sections:  sections,
		courses:   courses,
		teachers:  teachers,
		students:  students,
		slots:     slots,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// ByDay returns the active grid for one day, optionally filtered by week
// and/or semester.
func (s *ScheduleService) ByDay(ctx context.Context, day int, week *time.Time, semester string) ([]models.ScheduleRow, error) {
	if day < 0 || day > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be between 0 and 6")
	}

	key := dayCacheKey(day, week, semester)
	var cached []models.ScheduleRow
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	rows, err := s.repo.ListByDay(ctx, day, week, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily schedule")
	}

	_ = s.cache.Set(ctx, key, rows, 0)
	return rows, nil
}

// BySection returns a section's active schedule across all days.
func (s *ScheduleService) BySection(ctx context.Context, sectionID string, week *time.Time) ([]models.ScheduleRow, error) {
	if _, err := s.sections.FindByID(ctx, sectionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class section")
	}

	rows, err := s.repo.ListBySection(ctx, sectionID, week)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section schedule")
	}
	return rows, nil
}

// StudentSchedule derives a student's personal schedule: the student's grade
// and section resolve to the matching active class section, whose entries
// form the schedule.
func (s *ScheduleService) StudentSchedule(ctx context.Context, userID string, week *time.Time) ([]models.ScheduleRow, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	if student.GradeLevel == nil || student.Section == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student has no grade or section assigned")
	}

	section, err := s.sections.FindActiveByGradeSection(ctx, *student.GradeLevel, *student.Section)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active class section found for student")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve class section")
	}

	rows, err := s.repo.ListBySection(ctx, section.ID, week)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student schedule")
	}
	return rows, nil
}

// TeacherSchedule returns the teaching schedule for a user identity.
func (s *ScheduleService) TeacherSchedule(ctx context.Context, userID string, week *time.Time) ([]models.ScheduleRow, error) {
	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	rows, err := s.repo.ListByTeacher(ctx, teacher.ID, week)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher schedule")
	}
	return rows, nil
}

// TeacherAvailability reports whether a teacher has no active claim on a
// slot and day in the caller's current context.
func (s *ScheduleService) TeacherAvailability(ctx context.Context, teacherID, slotID string, day int) (*models.TeacherAvailability, error) {
	if day < 0 || day > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be between 0 and 6")
	}

	count, err := s.repo.CountActiveForTeacherSlot(ctx, teacherID, slotID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher availability")
	}

	return &models.TeacherAvailability{
		TeacherID:  teacherID,
		TimeSlotID: slotID,
		DayOfWeek:  day,
		Available:  count == 0,
	}, nil
}

// Assign plans one schedule entry. The write is an upsert on the
// (section, slot, day, week, semester) tuple: an existing active entry has
// its course, teacher and room replaced instead of a second row appearing.
func (s *ScheduleService) Assign(ctx context.Context, req AssignScheduleRequest) (*models.ScheduleEntry, error) {
	entry, err := s.plan(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write schedule entry")
	}

	s.invalidateGrid(ctx)
	return entry, nil
}

// AssignMany plans a batch of entries as one operation. Conflict checks for
// each item run against storage plus the entries already staged by earlier
// items, so a batch can conflict with itself, not just with persisted data.
func (s *ScheduleService) AssignMany(ctx context.Context, req AssignManyRequest) (*AssignManyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	var staged []models.ScheduleEntry
	var conflicts []models.ScheduleConflict

	for _, item := range req.Items {
		entry, err := s.plan(ctx, item, staged)
		if err != nil {
			var conflictErr *models.ScheduleConflictError
			if errors.As(err, &conflictErr) {
				conflicts = append(conflicts, conflictErr.Conflicts...)
				if !req.PartialOnError {
					return nil, err
				}
				continue
			}
			return nil, err
		}
		staged = append(staged, *entry)
	}

	for i := range staged {
		if err := s.repo.Upsert(ctx, &staged[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write schedule entries")
		}
	}

	if len(staged) > 0 {
		s.invalidateGrid(ctx)
	}
	return &AssignManyResult{Created: staged, Conflicts: conflicts}, nil
}

// Deactivate soft-deletes one entry. A missing id reports not-found rather
// than failing the caller's flow.
func (s *ScheduleService) Deactivate(ctx context.Context, id string) error {
	found, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate schedule entry")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
	}

	s.invalidateGrid(ctx)
	return nil
}

// plan validates one request, resolves its references, picks a teacher when
// none is given, and returns the entry ready to write. It never writes.
func (s *ScheduleService) plan(ctx context.Context, req AssignScheduleRequest, staged []models.ScheduleEntry) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	week, err := ParseWeekStart(req.WeekStartDate)
	if err != nil {
		return nil, err
	}

	section, err := s.sections.FindByID(ctx, req.ClassSectionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class section")
	}

	if _, err := s.slots.FindByID(ctx, req.TimeSlotID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slot")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	roomID := req.RoomID
	if roomID == "" {
		roomID = section.RoomID
	}

	entry := &models.ScheduleEntry{
		ClassSectionID: req.ClassSectionID,
		TimeSlotID:     req.TimeSlotID,
		CourseID:       req.CourseID,
		DayOfWeek:      req.DayOfWeek,
		WeekStartDate:  week,
		Semester:       req.Semester,
	}
	if roomID != "" {
		entry.RoomID = &roomID
	}

	if req.TeacherID == "" {
		teacherID, err := s.selectTeacher(ctx, course, entry, staged)
		if err != nil {
			return nil, err
		}
		entry.TeacherID = teacherID
		return entry, nil
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	entry.TeacherID = req.TeacherID

	conflicts, err := s.findConflicts(ctx, entry, staged)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		domainErr := &models.ScheduleConflictError{Conflicts: conflicts}
		appErr := appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, "schedule conflict detected"), conflicts)
		appErr.Err = domainErr
		return nil, appErr
	}

	return entry, nil
}

// selectTeacher walks the qualified roster in stable order and returns the
// first teacher with zero conflicts for the entry's time context. It never
// falls back to a conflicting teacher.
func (s *ScheduleService) selectTeacher(ctx context.Context, course *models.Course, entry *models.ScheduleEntry, staged []models.ScheduleEntry) (string, error) {
	candidates, err := s.teachers.ListBySubject(ctx, course.Subject)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list qualified teachers")
	}
	if len(candidates) == 0 {
		return "", appErrors.Clone(appErrors.ErrNoAvailableTeacher,
			fmt.Sprintf("no teachers qualified for subject %q", course.Subject))
	}

	for _, candidate := range candidates {
		probe := *entry
		probe.TeacherID = candidate.ID
		conflicts, err := s.findConflicts(ctx, &probe, staged)
		if err != nil {
			return "", err
		}
		if len(conflicts) == 0 {
			return candidate.ID, nil
		}
	}

	return "", appErrors.Clone(appErrors.ErrNoAvailableTeacher,
		fmt.Sprintf("no %s teacher is free on day %d at the requested slot in week %s (%s)",
			course.Subject, entry.DayOfWeek, entry.WeekStartDate.Format("2006-01-02"), entry.Semester))
}

// findConflicts scans every other active entry in the same planning cell
// (slot, day, week, semester), plus any staged entries from the same
// operation, and evaluates the teacher and room predicates independently. A
// single colliding entry can therefore yield two conflict records. Entries
// for the candidate's own section are never conflicts. Other weeks and
// semesters are independent planning surfaces and are never consulted.
func (s *ScheduleService) findConflicts(ctx context.Context, candidate *models.ScheduleEntry, staged []models.ScheduleEntry) ([]models.ScheduleConflict, error) {
	rows, err := s.repo.FindBySlot(ctx, candidate.TimeSlotID, candidate.DayOfWeek, candidate.WeekStartDate, candidate.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}

	var conflicts []models.ScheduleConflict

	for _, row := range rows {
		if row.ClassSectionID == candidate.ClassSectionID {
			continue
		}
		if row.TeacherID == candidate.TeacherID {
			conflicts = append(conflicts, models.ScheduleConflict{
				Type:         models.ConflictTeacher,
				ResourceID:   row.TeacherID,
				ResourceName: row.TeacherName,
				SectionID:    row.ClassSectionID,
				GradeLevel:   row.GradeLevel,
				SectionName:  row.SectionName,
			})
		}
		if candidate.RoomID != nil && row.RoomID != nil && *row.RoomID == *candidate.RoomID {
			name := ""
			if row.RoomName != nil {
				name = *row.RoomName
			}
			conflicts = append(conflicts, models.ScheduleConflict{
				Type:         models.ConflictRoom,
				ResourceID:   *row.RoomID,
				ResourceName: name,
				SectionID:    row.ClassSectionID,
				GradeLevel:   row.GradeLevel,
				SectionName:  row.SectionName,
			})
		}
	}

	for _, other := range staged {
		if other.ClassSectionID == candidate.ClassSectionID {
			continue
		}
		if !other.SameSlotKey(candidate.TimeSlotID, candidate.DayOfWeek, candidate.WeekStartDate, candidate.Semester) {
			continue
		}
		if other.TeacherID == candidate.TeacherID {
			name := ""
			if t, err := s.teachers.FindByID(ctx, other.TeacherID); err == nil {
				name = t.Name
			}
			conflicts = append(conflicts, models.ScheduleConflict{
				Type:         models.ConflictTeacher,
				ResourceID:   other.TeacherID,
				ResourceName: name,
				SectionID:    other.ClassSectionID,
			})
		}
		if candidate.RoomID != nil && other.RoomID != nil && *other.RoomID == *candidate.RoomID {
			conflicts = append(conflicts, models.ScheduleConflict{
				Type:       models.ConflictRoom,
				ResourceID: *other.RoomID,
				SectionID:  other.ClassSectionID,
			})
		}
	}

	return conflicts, nil
}

func (s *ScheduleService) invalidateGrid(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, "schedule:day:*")
}

func dayCacheKey(day int, week *time.Time, semester string) string {
	w := "any"
	if week != nil {
		w = week.Format("2006-01-02")
	}
	sem := semester
	if sem == "" {
		sem = "any"
	}
	return fmt.Sprintf("schedule:day:%d:%s:%s", day, w, sem)
}

// ParseWeekStart parses a week key and enforces that weeks are identified by
// the date of their Monday.
func ParseWeekStart(raw string) (time.Time, error) {
	week, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "week_start_date must be formatted YYYY-MM-DD")
	}
	if week.Weekday() != time.Monday {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "week_start_date must be a Monday")
	}
	return week, nil
}

// ParseWeekFilter parses an optional week filter for read queries.
func ParseWeekFilter(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	week, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weekStart must be formatted YYYY-MM-DD")
	}
	return &week, nil
}
