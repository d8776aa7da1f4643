package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/timetable-api/internal/models"
)

type mockStudentRepo struct {
	items  map[string]*models.Student
	nextID int
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.items {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, user *models.User, student *models.Student) error {
	if m.items == nil {
		m.items = make(map[string]*models.Student)
	}
	m.nextID++
	student.ID = fmt.Sprintf("stu-%d", m.nextID)
	student.UserID = fmt.Sprintf("user-%d", m.nextID)
	cp := *student
	m.items[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	cp := *student
	m.items[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type mockSectionEnsurer struct {
	sections map[string]models.ClassSection
	created  []models.ClassSection
}

func (m *mockSectionEnsurer) key(roomID, grade, section string) string {
	return roomID + "/" + grade + "/" + section
}

func (m *mockSectionEnsurer) ExistsActive(ctx context.Context, roomID, gradeLevel, sectionName string) (bool, error) {
	_, ok := m.sections[m.key(roomID, gradeLevel, sectionName)]
	return ok, nil
}

func (m *mockSectionEnsurer) Create(ctx context.Context, section *models.ClassSection) error {
	if m.sections == nil {
		m.sections = make(map[string]models.ClassSection)
	}
	section.ID = fmt.Sprintf("sec-%d", len(m.sections)+1)
	m.sections[m.key(section.RoomID, section.GradeLevel, section.SectionName)] = *section
	m.created = append(m.created, *section)
	return nil
}

func newTestStudentService(repo *mockStudentRepo, sections *mockSectionEnsurer) *StudentService {
	return NewStudentService(repo, sections, validator.New(), zap.NewNop(), 30)
}

func studentRequest() StudentRequest {
	grade, section, room := "9", "A", "room-101"
	return StudentRequest{
		Name:       "Student One",
		Email:      "student@campus.test",
		StudentID:  "S-001",
		GradeLevel: &grade,
		Section:    &section,
		RoomID:     &room,
	}
}

func TestStudentCreateAutoCreatesSection(t *testing.T) {
	repo := &mockStudentRepo{}
	sections := &mockSectionEnsurer{}
	svc := newTestStudentService(repo, sections)

	student, err := svc.Create(context.Background(), studentRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)

	require.Len(t, sections.created, 1)
	created := sections.created[0]
	assert.Equal(t, "9", created.GradeLevel)
	assert.Equal(t, "A", created.SectionName)
	assert.Equal(t, "room-101", created.RoomID)
	assert.Equal(t, 30, created.StudentCapacity)
	assert.True(t, created.IsActive)
}

func TestStudentCreateSectionReconciliationIsIdempotent(t *testing.T) {
	repo := &mockStudentRepo{}
	sections := &mockSectionEnsurer{}
	svc := newTestStudentService(repo, sections)

	_, err := svc.Create(context.Background(), studentRequest())
	require.NoError(t, err)

	second := studentRequest()
	second.Email = "student2@campus.test"
	second.StudentID = "S-002"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	assert.Len(t, sections.created, 1, "second student in the same room adds no new section")
}

func TestStudentCreateWithoutRoomSkipsSection(t *testing.T) {
	repo := &mockStudentRepo{}
	sections := &mockSectionEnsurer{}
	svc := newTestStudentService(repo, sections)

	req := studentRequest()
	req.RoomID = nil
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, sections.created)
}

func TestStudentUpdateTriggersSectionReconciliation(t *testing.T) {
	repo := &mockStudentRepo{}
	sections := &mockSectionEnsurer{}
	svc := newTestStudentService(repo, sections)

	req := studentRequest()
	req.RoomID = nil
	student, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, sections.created)

	room := "room-102"
	update := studentRequest()
	update.RoomID = &room
	_, err = svc.Update(context.Background(), student.ID, update)
	require.NoError(t, err)

	require.Len(t, sections.created, 1)
	assert.Equal(t, "room-102", sections.created[0].RoomID)
}

func TestStudentCreateRejectsBadEnrollmentDate(t *testing.T) {
	svc := newTestStudentService(&mockStudentRepo{}, &mockSectionEnsurer{})

	bad := "31/08/2026"
	req := studentRequest()
	req.EnrollmentDate = &bad
	_, err := svc.Create(context.Background(), req)
	assert.Error(t, err)
}
