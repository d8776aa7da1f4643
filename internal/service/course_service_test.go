package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type mockCourseRepo struct {
	courses       []models.Course
	scheduleCount map[string]int
	nextID        int
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	return m.courses, nil
}

func (m *mockCourseRepo) ListByGrade(ctx context.Context) ([]models.Course, error) {
	return m.courses, nil
}

func (m *mockCourseRepo) ListSubjects(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var subjects []string
	for _, c := range m.courses {
		if !seen[c.Subject] {
			seen[c.Subject] = true
			subjects = append(subjects, c.Subject)
		}
	}
	return subjects, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	for _, c := range m.courses {
		if c.CourseCode == course.CourseCode {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "course code already exists")
		}
	}
	m.nextID++
	course.ID = fmt.Sprintf("c-%d", m.nextID)
	m.courses = append(m.courses, *course)
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	for i := range m.courses {
		if m.courses[i].ID == course.ID {
			m.courses[i] = *course
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockCourseRepo) CountActiveSchedules(ctx context.Context, id string) (int, error) {
	return m.scheduleCount[id], nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	for i := range m.courses {
		if m.courses[i].ID == id {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newTestCourseService(repo *mockCourseRepo) *CourseService {
	return NewCourseService(repo, validator.New(), zap.NewNop())
}

func TestCourseCreateRejectsDuplicateCode(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newTestCourseService(repo)

	req := CourseRequest{CourseCode: "MATH-9", CourseName: "Mathematics 9", Subject: "Math", GradeLevel: "9"}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErr.Code)
}

func TestCourseSubjectsDistinct(t *testing.T) {
	repo := &mockCourseRepo{courses: []models.Course{
		{ID: "c-1", CourseCode: "MATH-9", Subject: "Math"},
		{ID: "c-2", CourseCode: "MATH-10", Subject: "Math"},
		{ID: "c-3", CourseCode: "HIST-9", Subject: "History"},
	}}
	svc := newTestCourseService(repo)

	subjects, err := svc.Subjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "History"}, subjects)
}

func TestCourseDeleteBlockedByActiveSchedules(t *testing.T) {
	repo := &mockCourseRepo{
		courses:       []models.Course{{ID: "c-1", CourseCode: "MATH-9", Subject: "Math"}},
		scheduleCount: map[string]int{"c-1": 5},
	}
	svc := newTestCourseService(repo)

	err := svc.Delete(context.Background(), "c-1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDependencyBlocked.Code, appErr.Code)
	assert.Equal(t, map[string]int{"schedule_count": 5}, appErr.Details)
	assert.Len(t, repo.courses, 1)
}

func TestCourseDeleteRemovesUnreferenced(t *testing.T) {
	repo := &mockCourseRepo{
		courses: []models.Course{{ID: "c-1", CourseCode: "ART-9", Subject: "Art"}},
	}
	svc := newTestCourseService(repo)

	require.NoError(t, svc.Delete(context.Background(), "c-1"))
	assert.Empty(t, repo.courses)

	err := svc.Delete(context.Background(), "c-1")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
