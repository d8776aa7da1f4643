package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

const (
	testWeek     = "2026-08-31"
	testSemester = "Fall 2026"
)

type fakeSectionRepo struct {
	items map[string]models.ClassSection
}

func (m *fakeSectionRepo) FindByID(ctx context.Context, id string) (*models.ClassSection, error) {
	if s, ok := m.items[id]; ok {
		cp := s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *fakeSectionRepo) FindActiveByGradeSection(ctx context.Context, gradeLevel, sectionName string) (*models.ClassSection, error) {
	for _, s := range m.items {
		if s.IsActive && s.GradeLevel == gradeLevel && s.SectionName == sectionName {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeCourseRepo struct {
	items map[string]models.Course
}

func (m *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.items[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type fakeTeacherRepo struct {
	roster []models.Teacher
}

func (m *fakeTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	for _, t := range m.roster {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *fakeTeacherRepo) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	for _, t := range m.roster {
		if t.UserID == userID {
			cp := t
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *fakeTeacherRepo) ListBySubject(ctx context.Context, subject string) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range m.roster {
		if t.QualifiedFor(subject) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeStudentRepo struct {
	items map[string]models.Student
}

func (m *fakeStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	if s, ok := m.items[userID]; ok {
		cp := s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type fakeSlotRepo struct {
	items map[string]models.TimeSlot
}

func (m *fakeSlotRepo) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	if s, ok := m.items[id]; ok {
		cp := s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

// fakeScheduleRepo is an in-memory stand-in enforcing the uniqueness tuple
// the way the daily_schedules table does.
type fakeScheduleRepo struct {
	entries   []models.ScheduleEntry
	nextID    int
	sections  *fakeSectionRepo
	teachers  *fakeTeacherRepo
	insertErr func(e *models.ScheduleEntry) error
}

func (m *fakeScheduleRepo) genID() string {
	m.nextID++
	return fmt.Sprintf("entry-%d", m.nextID)
}

func (m *fakeScheduleRepo) findTuple(e *models.ScheduleEntry) int {
	for i := range m.entries {
		if m.entries[i].ClassSectionID == e.ClassSectionID &&
			m.entries[i].SameSlotKey(e.TimeSlotID, e.DayOfWeek, e.WeekStartDate, e.Semester) {
			return i
		}
	}
	return -1
}

func (m *fakeScheduleRepo) Upsert(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.IsActive = true
	if i := m.findTuple(entry); i >= 0 {
		existing := &m.entries[i]
		existing.CourseID = entry.CourseID
		existing.TeacherID = entry.TeacherID
		existing.RoomID = entry.RoomID
		existing.IsActive = true
		entry.ID = existing.ID
		return nil
	}
	if entry.ID == "" {
		entry.ID = m.genID()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *fakeScheduleRepo) Insert(ctx context.Context, entry *models.ScheduleEntry) error {
	if m.insertErr != nil {
		if err := m.insertErr(entry); err != nil {
			return err
		}
	}
	if m.findTuple(entry) >= 0 {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "schedule entry already exists")
	}
	if entry.ID == "" {
		entry.ID = m.genID()
	}
	entry.IsActive = true
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *fakeScheduleRepo) Deactivate(ctx context.Context, id string) (bool, error) {
	for i := range m.entries {
		if m.entries[i].ID == id && m.entries[i].IsActive {
			m.entries[i].IsActive = false
			return true, nil
		}
	}
	return false, nil
}

func (m *fakeScheduleRepo) rowFor(e models.ScheduleEntry) models.ScheduleRow {
	row := models.ScheduleRow{ScheduleEntry: e}
	if m.sections != nil {
		if s, ok := m.sections.items[e.ClassSectionID]; ok {
			row.GradeLevel = s.GradeLevel
			row.SectionName = s.SectionName
		}
	}
	if m.teachers != nil {
		for _, t := range m.teachers.roster {
			if t.ID == e.TeacherID {
				row.TeacherName = t.Name
			}
		}
	}
	if e.RoomID != nil {
		name := "Room " + *e.RoomID
		row.RoomName = &name
	}
	return row
}

func (m *fakeScheduleRepo) FindBySlot(ctx context.Context, slotID string, day int, week time.Time, semester string) ([]models.ScheduleRow, error) {
	var rows []models.ScheduleRow
	for _, e := range m.entries {
		if e.IsActive && e.SameSlotKey(slotID, day, week, semester) {
			rows = append(rows, m.rowFor(e))
		}
	}
	return rows, nil
}

func (m *fakeScheduleRepo) ListByDay(ctx context.Context, day int, week *time.Time, semester string) ([]models.ScheduleRow, error) {
	var rows []models.ScheduleRow
	for _, e := range m.entries {
		if !e.IsActive || e.DayOfWeek != day {
			continue
		}
		if week != nil && !e.WeekStartDate.Equal(*week) {
			continue
		}
		if semester != "" && e.Semester != semester {
			continue
		}
		rows = append(rows, m.rowFor(e))
	}
	return rows, nil
}

func (m *fakeScheduleRepo) ListBySection(ctx context.Context, sectionID string, week *time.Time) ([]models.ScheduleRow, error) {
	var rows []models.ScheduleRow
	for _, e := range m.entries {
		if !e.IsActive || e.ClassSectionID != sectionID {
			continue
		}
		if week != nil && !e.WeekStartDate.Equal(*week) {
			continue
		}
		rows = append(rows, m.rowFor(e))
	}
	return rows, nil
}

func (m *fakeScheduleRepo) ListByTeacher(ctx context.Context, teacherID string, week *time.Time) ([]models.ScheduleRow, error) {
	var rows []models.ScheduleRow
	for _, e := range m.entries {
		if !e.IsActive || e.TeacherID != teacherID {
			continue
		}
		if week != nil && !e.WeekStartDate.Equal(*week) {
			continue
		}
		rows = append(rows, m.rowFor(e))
	}
	return rows, nil
}

func (m *fakeScheduleRepo) CountActiveForTeacherSlot(ctx context.Context, teacherID, slotID string, day int) (int, error) {
	count := 0
	for _, e := range m.entries {
		if e.IsActive && e.TeacherID == teacherID && e.TimeSlotID == slotID && e.DayOfWeek == day {
			count++
		}
	}
	return count, nil
}

func (m *fakeScheduleRepo) ListEntriesForDay(ctx context.Context, day int, week time.Time, semester, sectionID string) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	for _, e := range m.entries {
		if !e.IsActive || e.DayOfWeek != day || !e.WeekStartDate.Equal(week) || e.Semester != semester {
			continue
		}
		if sectionID != "" && e.ClassSectionID != sectionID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *fakeScheduleRepo) ListEntriesForWeek(ctx context.Context, week time.Time, semester string) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	for _, e := range m.entries {
		if e.IsActive && e.WeekStartDate.Equal(week) && e.Semester == semester {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *fakeScheduleRepo) DeleteDay(ctx context.Context, day int, week time.Time, semester string) error {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.DayOfWeek == day && e.WeekStartDate.Equal(week) && e.Semester == semester {
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return nil
}

func (m *fakeScheduleRepo) DeleteWeek(ctx context.Context, week time.Time, semester string) error {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.WeekStartDate.Equal(week) && e.Semester == semester {
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return nil
}

type fixtures struct {
	schedules *fakeScheduleRepo
	sections  *fakeSectionRepo
	courses   *fakeCourseRepo
	teachers  *fakeTeacherRepo
	students  *fakeStudentRepo
	slots     *fakeSlotRepo
}

func newFixtures() *fixtures {
	sections := &fakeSectionRepo{items: map[string]models.ClassSection{
		"sec-9a": {ID: "sec-9a", GradeLevel: "9", SectionName: "A", RoomID: "room-101", IsActive: true},
		"sec-9b": {ID: "sec-9b", GradeLevel: "9", SectionName: "B", RoomID: "room-102", IsActive: true},
	}}
	teachers := &fakeTeacherRepo{roster: []models.Teacher{
		{ID: "t-lee", UserID: "u-lee", Name: "Ms. Lee", Subjects: []string{"Math"}},
		{ID: "t-kim", UserID: "u-kim", Name: "Mr. Kim", Subjects: []string{"Math", "Physics"}},
		{ID: "t-park", UserID: "u-park", Name: "Ms. Park", Subjects: []string{"History"}},
	}}
	schedules := &fakeScheduleRepo{sections: sections, teachers: teachers}
	return &fixtures{
		schedules: schedules,
		sections:  sections,
		courses: &fakeCourseRepo{items: map[string]models.Course{
			"c-math": {ID: "c-math", CourseCode: "MATH9", CourseName: "Mathematics 9", Subject: "Math", GradeLevel: "9"},
			"c-art":  {ID: "c-art", CourseCode: "ART9", CourseName: "Art 9", Subject: "Art", GradeLevel: "9"},
		}},
		teachers: teachers,
		students: &fakeStudentRepo{items: map[string]models.Student{}},
		slots: &fakeSlotRepo{items: map[string]models.TimeSlot{
			"slot-1": {ID: "slot-1", SlotName: "Period 1", SlotOrder: 1, IsActive: true},
			"slot-2": {ID: "slot-2", SlotName: "Period 2", SlotOrder: 2, IsActive: true},
		}},
	}
}

func newTestScheduleService(f *fixtures) *ScheduleService {
	return NewScheduleService(f.schedules, f.sections, f.courses, f.teachers, f.students, f.slots,
		nil, validator.New(), zap.NewNop())
}

func assignRequest(section string) AssignScheduleRequest {
	return AssignScheduleRequest{
		ClassSectionID: section,
		TimeSlotID:     "slot-1",
		CourseID:       "c-math",
		DayOfWeek:      1,
		WeekStartDate:  testWeek,
		Semester:       testSemester,
	}
}

func TestAssignAutoSelectsFirstQualifiedTeacher(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	entry, err := svc.Assign(context.Background(), assignRequest("sec-9a"))
	require.NoError(t, err)
	assert.Equal(t, "t-lee", entry.TeacherID)
	require.NotNil(t, entry.RoomID)
	assert.Equal(t, "room-101", *entry.RoomID)
	assert.True(t, entry.IsActive)
}

func TestAssignAutoSelectionSkipsBusyTeacher(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	_, err := svc.Assign(context.Background(), assignRequest("sec-9a"))
	require.NoError(t, err)

	entry, err := svc.Assign(context.Background(), assignRequest("sec-9b"))
	require.NoError(t, err)
	assert.Equal(t, "t-kim", entry.TeacherID, "second section gets the next free qualified teacher")
}

func TestAssignExplicitTeacherConflictNamesHoldingSection(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	_, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	req9b := assignRequest("sec-9b")
	req9b.TeacherID = "t-lee"
	_, err = svc.Assign(context.Background(), req9b)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	conflicts, ok := appErr.Details.([]models.ScheduleConflict)
	require.True(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTeacher, conflicts[0].Type)
	assert.Equal(t, "t-lee", conflicts[0].ResourceID)
	assert.Equal(t, "Ms. Lee", conflicts[0].ResourceName)
	assert.Equal(t, "sec-9a", conflicts[0].SectionID)
	assert.Equal(t, "9", conflicts[0].GradeLevel)
	assert.Equal(t, "A", conflicts[0].SectionName)
}

func TestAssignRoomConflictIndependentOfTeacher(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	_, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	req9b := assignRequest("sec-9b")
	req9b.TeacherID = "t-kim"
	req9b.RoomID = "room-101"
	_, err = svc.Assign(context.Background(), req9b)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	conflicts := appErr.Details.([]models.ScheduleConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictRoom, conflicts[0].Type)
	assert.Equal(t, "room-101", conflicts[0].ResourceID)
}

func TestAssignSameTeacherAndRoomYieldsTwoConflicts(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	_, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	req9b := assignRequest("sec-9b")
	req9b.TeacherID = "t-lee"
	req9b.RoomID = "room-101"
	_, err = svc.Assign(context.Background(), req9b)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	conflicts := appErr.Details.([]models.ScheduleConflict)
	assert.Len(t, conflicts, 2)
}

func TestAssignOwnSectionNeverConflicts(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	first, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	req.CourseID = "c-art"
	req.TeacherID = "t-park"
	second, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "rewriting the same tuple replaces in place")
	require.Len(t, f.schedules.entries, 1)
	assert.Equal(t, "c-art", f.schedules.entries[0].CourseID)
	assert.Equal(t, "t-park", f.schedules.entries[0].TeacherID)
}

func TestAssignOtherWeekIsIndependent(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	_, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	req9b := assignRequest("sec-9b")
	req9b.TeacherID = "t-lee"
	req9b.WeekStartDate = "2026-09-07"
	_, err = svc.Assign(context.Background(), req9b)
	assert.NoError(t, err, "the same teacher in another week is not a conflict")
}

func TestAssignNoQualifiedTeacher(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.CourseID = "c-art"
	_, err := svc.Assign(context.Background(), req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNoAvailableTeacher.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Art")
}

func TestAssignNoFreeTeacherReportsTimeContext(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	// Occupy both math teachers in the same cell.
	reqA := assignRequest("sec-9a")
	reqA.TeacherID = "t-lee"
	_, err := svc.Assign(context.Background(), reqA)
	require.NoError(t, err)

	f.sections.items["sec-9c"] = models.ClassSection{ID: "sec-9c", GradeLevel: "9", SectionName: "C", RoomID: "room-103", IsActive: true}
	reqC := assignRequest("sec-9c")
	reqC.TeacherID = "t-kim"
	_, err = svc.Assign(context.Background(), reqC)
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), assignRequest("sec-9b"))
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNoAvailableTeacher.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Math")
	assert.Contains(t, appErr.Message, testWeek)
	assert.Contains(t, appErr.Message, testSemester)
}

func TestAssignAutoSelectionIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		f := newFixtures()
		svc := newTestScheduleService(f)
		entry, err := svc.Assign(context.Background(), assignRequest("sec-9a"))
		require.NoError(t, err)
		assert.Equal(t, "t-lee", entry.TeacherID)
	}
}

func TestAssignRejectsNonMondayWeek(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.WeekStartDate = "2026-09-01"
	_, err := svc.Assign(context.Background(), req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, strings.ToLower(appErr.Message), "monday")
}

func TestAssignUnknownReferences(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("missing")
	_, err := svc.Assign(context.Background(), req)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	req = assignRequest("sec-9a")
	req.CourseID = "missing"
	_, err = svc.Assign(context.Background(), req)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	req = assignRequest("sec-9a")
	req.TeacherID = "missing"
	_, err = svc.Assign(context.Background(), req)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAssignManyDetectsIntraBatchConflict(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	itemA := assignRequest("sec-9a")
	itemA.TeacherID = "t-lee"
	itemB := assignRequest("sec-9b")
	itemB.TeacherID = "t-lee"

	result, err := svc.AssignMany(context.Background(), AssignManyRequest{
		Items:          []AssignScheduleRequest{itemA, itemB},
		PartialOnError: true,
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictTeacher, result.Conflicts[0].Type)
	assert.Len(t, f.schedules.entries, 1)
}

func TestAssignManyFailsFastWithoutPartialFlag(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	itemA := assignRequest("sec-9a")
	itemA.TeacherID = "t-lee"
	itemB := assignRequest("sec-9b")
	itemB.TeacherID = "t-lee"

	_, err := svc.AssignMany(context.Background(), AssignManyRequest{
		Items: []AssignScheduleRequest{itemA, itemB},
	})
	require.Error(t, err)
	assert.Empty(t, f.schedules.entries, "nothing is written when the batch aborts")
}

func TestDeactivate(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	entry, err := svc.Assign(context.Background(), assignRequest("sec-9a"))
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), entry.ID))
	assert.False(t, f.schedules.entries[0].IsActive)

	err = svc.Deactivate(context.Background(), "missing")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDeactivatedEntryFreesTheSlot(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	entry, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), entry.ID))

	req9b := assignRequest("sec-9b")
	req9b.TeacherID = "t-lee"
	_, err = svc.Assign(context.Background(), req9b)
	assert.NoError(t, err, "inactive entries do not participate in conflict checks")
}

func TestByDayValidatesRange(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	_, err := svc.ByDay(context.Background(), 7, nil, "")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentScheduleResolvesSection(t *testing.T) {
	f := newFixtures()
	grade, section := "9", "A"
	f.students.items["u-stu"] = models.Student{ID: "stu-1", UserID: "u-stu", GradeLevel: &grade, Section: &section}
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	_, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	rows, err := svc.StudentSchedule(context.Background(), "u-stu", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "sec-9a", rows[0].ClassSectionID)
}

func TestStudentScheduleWithoutSectionAssignment(t *testing.T) {
	f := newFixtures()
	f.students.items["u-stu"] = models.Student{ID: "stu-1", UserID: "u-stu"}
	svc := newTestScheduleService(f)

	_, err := svc.StudentSchedule(context.Background(), "u-stu", nil)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTeacherSchedule(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	_, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	rows, err := svc.TeacherSchedule(context.Background(), "u-lee", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "t-lee", rows[0].TeacherID)

	_, err = svc.TeacherSchedule(context.Background(), "u-nobody", nil)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestTeacherAvailability(t *testing.T) {
	f := newFixtures()
	svc := newTestScheduleService(f)

	avail, err := svc.TeacherAvailability(context.Background(), "t-lee", "slot-1", 1)
	require.NoError(t, err)
	assert.True(t, avail.Available)

	req := assignRequest("sec-9a")
	req.TeacherID = "t-lee"
	_, err = svc.Assign(context.Background(), req)
	require.NoError(t, err)

	avail, err = svc.TeacherAvailability(context.Background(), "t-lee", "slot-1", 1)
	require.NoError(t, err)
	assert.False(t, avail.Available)
}

func TestParseWeekStart(t *testing.T) {
	week, err := ParseWeekStart("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, week.Weekday())

	_, err = ParseWeekStart("2026-08-30")
	assert.Error(t, err)

	_, err = ParseWeekStart("not-a-date")
	assert.Error(t, err)
}
