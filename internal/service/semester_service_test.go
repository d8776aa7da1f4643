package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
)

type mockSemesterRepo struct {
	items       map[string]*models.Semester
	schedules   map[string]int
	deactivated []string
}

func (m *mockSemesterRepo) List(ctx context.Context) ([]models.Semester, error) {
	var out []models.Semester
	for _, s := range m.items {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSemesterRepo) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSemesterRepo) Create(ctx context.Context, semester *models.Semester) error {
	for _, s := range m.items {
		if s.SemesterName == semester.SemesterName {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "semester name already exists")
		}
	}
	if m.items == nil {
		m.items = make(map[string]*models.Semester)
	}
	if semester.ID == "" {
		semester.ID = "generated"
	}
	cp := *semester
	m.items[semester.ID] = &cp
	return nil
}

func (m *mockSemesterRepo) Update(ctx context.Context, semester *models.Semester) (bool, error) {
	existing, ok := m.items[semester.ID]
	if !ok || !existing.IsActive {
		return false, nil
	}
	cp := *semester
	cp.IsActive = true
	m.items[semester.ID] = &cp
	return true, nil
}

func (m *mockSemesterRepo) CountActiveSchedules(ctx context.Context, id string) (int, error) {
	return m.schedules[id], nil
}

func (m *mockSemesterRepo) Deactivate(ctx context.Context, id string) (bool, error) {
	s, ok := m.items[id]
	if !ok || !s.IsActive {
		return false, nil
	}
	s.IsActive = false
	m.deactivated = append(m.deactivated, id)
	return true, nil
}

func newTestSemesterService(repo *mockSemesterRepo) *SemesterService {
	return NewSemesterService(repo, validator.New(), zap.NewNop())
}

func TestSemesterCreateAndDuplicateName(t *testing.T) {
	repo := &mockSemesterRepo{}
	svc := newTestSemesterService(repo)

	semester, err := svc.Create(context.Background(), SemesterRequest{
		SemesterName: "Fall 2026", StartDate: "2026-08-31", EndDate: "2026-12-18",
	})
	require.NoError(t, err)
	assert.True(t, semester.IsActive)

	_, err = svc.Create(context.Background(), SemesterRequest{
		SemesterName: "Fall 2026", StartDate: "2026-08-31", EndDate: "2026-12-18",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErr.Code)
}

func TestSemesterCreateRejectsInvertedDates(t *testing.T) {
	svc := newTestSemesterService(&mockSemesterRepo{})

	_, err := svc.Create(context.Background(), SemesterRequest{
		SemesterName: "Backwards", StartDate: "2026-12-18", EndDate: "2026-08-31",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSemesterDeleteBlockedByActiveSchedules(t *testing.T) {
	repo := &mockSemesterRepo{
		items:     map[string]*models.Semester{"sem1": {ID: "sem1", SemesterName: "Fall 2026", IsActive: true}},
		schedules: map[string]int{"sem1": 40},
	}
	svc := newTestSemesterService(repo)

	err := svc.Delete(context.Background(), "sem1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDependencyBlocked.Code, appErr.Code)
	assert.Empty(t, repo.deactivated)
}

func TestSemesterDeleteDeactivates(t *testing.T) {
	repo := &mockSemesterRepo{
		items: map[string]*models.Semester{"sem1": {ID: "sem1", SemesterName: "Fall 2026", IsActive: true}},
	}
	svc := newTestSemesterService(repo)

	require.NoError(t, svc.Delete(context.Background(), "sem1"))
	assert.Equal(t, []string{"sem1"}, repo.deactivated)
	assert.False(t, repo.items["sem1"].IsActive, "record kept, only deactivated")

	err := svc.Delete(context.Background(), "sem1")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSemesterUpdateMissing(t *testing.T) {
	svc := newTestSemesterService(&mockSemesterRepo{})

	_, err := svc.Update(context.Background(), "missing", SemesterRequest{
		SemesterName: "Spring 2027", StartDate: "2027-01-11", EndDate: "2027-05-28",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
