package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/timetable-api/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scheduleRowMock(id string) *sqlmock.Rows {
	now := time.Now()
	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "class_section_id", "time_slot_id", "course_id", "teacher_id",
		"room_id", "day_of_week", "week_start_date", "semester", "is_active",
		"created_at", "updated_at",
		"grade_level", "section_name",
		"slot_name", "start_time", "end_time", "slot_order",
		"course_name", "course_code", "subject",
		"teacher_name", "employee_id",
		"room_number", "room_name",
	}).AddRow(
		id, "sec-9a", "slot-1", "c-math", "t-lee",
		"room-101", 1, week, "Fall 2026", true,
		now, now,
		"9", "A",
		"Period 1", "08:00", "08:45", 1,
		"Mathematics 9", "MATH-9", "Math",
		"Ms. Lee", nil,
		"101", "Room 101",
	)
}

func TestScheduleRepositoryListByDayFilters(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ds\.day_of_week = \$1 AND ds\.is_active = true AND ds\.week_start_date = \$2 AND ds\.semester = \$3 ORDER BY cs\.grade_level, cs\.section_name, ts\.slot_order`).
		WithArgs(1, week, "Fall 2026").
		WillReturnRows(scheduleRowMock("e-1"))

	rows, err := repo.ListByDay(context.Background(), 1, &week, "Fall 2026")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ms. Lee", rows[0].TeacherName)
	assert.Equal(t, "9", rows[0].GradeLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListByDayNoFilters(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(`ds\.day_of_week = \$1 AND ds\.is_active = true ORDER BY cs\.grade_level`).
		WithArgs(1).
		WillReturnRows(scheduleRowMock("e-1"))

	rows, err := repo.ListByDay(context.Background(), 1, nil, "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindBySlot(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE ds\.time_slot_id = \$1`).
		WithArgs("slot-1", 1, week, "Fall 2026").
		WillReturnRows(scheduleRowMock("e-1"))

	rows, err := repo.FindBySlot(context.Background(), "slot-1", 1, week, "Fall 2026")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "t-lee", rows[0].TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpsertReturnsIdentity(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	roomID := "room-101"

	mock.ExpectQuery(`INSERT INTO daily_schedules`).
		WithArgs(sqlmock.AnyArg(), "sec-9a", "slot-1", "c-math", "t-lee", &roomID, 1, week, "Fall 2026", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("existing-id", now, now))

	entry := &models.ScheduleEntry{
		ClassSectionID: "sec-9a",
		TimeSlotID:     "slot-1",
		CourseID:       "c-math",
		TeacherID:      "t-lee",
		RoomID:         &roomID,
		DayOfWeek:      1,
		WeekStartDate:  week,
		Semester:       "Fall 2026",
	}
	require.NoError(t, repo.Upsert(context.Background(), entry))

	// ON CONFLICT hit an existing tuple; the returned row id wins.
	assert.Equal(t, "existing-id", entry.ID)
	assert.True(t, entry.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(`UPDATE daily_schedules SET is_active = false`).
		WithArgs("e-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.Deactivate(context.Background(), "e-1")
	require.NoError(t, err)
	assert.True(t, found)

	mock.ExpectExec(`UPDATE daily_schedules SET is_active = false`).
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err = repo.Deactivate(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListEntriesForDayScopedToSection(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "class_section_id", "time_slot_id", "course_id", "teacher_id",
		"room_id", "day_of_week", "week_start_date", "semester", "is_active",
		"created_at", "updated_at",
	}).AddRow("e-1", "sec-9a", "slot-1", "c-math", "t-lee", nil, 1, week, "Fall 2026", true, now, now)

	mock.ExpectQuery(`WHERE day_of_week = \$1 AND week_start_date = \$2 AND semester = \$3 AND is_active = true AND class_section_id = \$4`).
		WithArgs(1, week, "Fall 2026", "sec-9a").
		WillReturnRows(rows)

	entries, err := repo.ListEntriesForDay(context.Background(), 1, week, "Fall 2026", "sec-9a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e-1", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryDeleteDay(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM daily_schedules WHERE day_of_week = \$1`).
		WithArgs(2, week, "Fall 2026").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteDay(context.Background(), 2, week, "Fall 2026"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCountActiveForTeacherSlot(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM daily_schedules`).
		WithArgs("t-lee", "slot-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveForTeacherSlot(context.Background(), "t-lee", "slot-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
