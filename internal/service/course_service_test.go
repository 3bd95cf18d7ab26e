package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/repository"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

type memoryCourseRepo struct {
	courses map[string]*models.Course
	inUse   map[string]bool
	deleted []string
}

func (r *memoryCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var out []models.Course
	for _, c := range r.courses {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (r *memoryCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := r.courses[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "course-new"
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *memoryCourseRepo) Update(ctx context.Context, course *models.Course) error {
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *memoryCourseRepo) Delete(ctx context.Context, id string) error {
	if r.inUse[id] {
		return repository.ErrCourseInUse
	}
	delete(r.courses, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubCourseAssignments struct {
	highest   float64
	cancelled []string
}

func (s *stubCourseAssignments) CancelForCourse(ctx context.Context, courseID string) (int, error) {
	s.cancelled = append(s.cancelled, courseID)
	return 1, nil
}

func (s *stubCourseAssignments) MaxLiveWeeklyHours(ctx context.Context, courseID string) (float64, error) {
	return s.highest, nil
}

func newCourseFixture() (*CourseService, *memoryCourseRepo, *stubCourseAssignments) {
	repo := &memoryCourseRepo{
		courses: map[string]*models.Course{
			"math": {ID: "math", Title: "Mathématiques", SubjectID: "math", Level: "6e", WeeklyHourBudget: 4, Coefficient: 4, Status: models.CourseStatusActive},
		},
		inUse: map[string]bool{},
	}
	assignments := &stubCourseAssignments{}
	return NewCourseService(repo, assignments, nil, nil), repo, assignments
}

func TestCourseServiceCreate(t *testing.T) {
	svc, _, _ := newCourseFixture()
	course, err := svc.Create(context.Background(), CreateCourseRequest{
		Title: " Physique ", SubjectID: "phys", Level: "5e", WeeklyHourBudget: 2.5, Coefficient: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Physique", course.Title)
	assert.Equal(t, models.CourseStatusActive, course.Status)

	_, err = svc.Create(context.Background(), CreateCourseRequest{Title: "X", SubjectID: "x", Level: "5e", WeeklyHourBudget: 0, Coefficient: 1})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), CreateCourseRequest{Title: "X", SubjectID: "x", Level: "5e", WeeklyHourBudget: 2, Coefficient: 1, Status: "archived"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCourseServiceBudgetCannotDropBelowAssignments(t *testing.T) {
	svc, _, assignments := newCourseFixture()
	assignments.highest = 3

	budget := 2.5
	_, err := svc.Update(context.Background(), "math", UpdateCourseRequest{WeeklyHourBudget: &budget})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidHours))

	budget = 3
	course, err := svc.Update(context.Background(), "math", UpdateCourseRequest{WeeklyHourBudget: &budget})
	require.NoError(t, err)
	assert.Equal(t, 3.0, course.WeeklyHourBudget)
}

func TestCourseServiceCancelCascades(t *testing.T) {
	svc, _, assignments := newCourseFixture()
	status := models.CourseStatusCancelled
	course, err := svc.Update(context.Background(), "math", UpdateCourseRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusCancelled, course.Status)
	assert.Equal(t, []string{"math"}, assignments.cancelled)

	_, err = svc.Update(context.Background(), "math", UpdateCourseRequest{Status: &status})
	require.NoError(t, err)
	assert.Len(t, assignments.cancelled, 1)
}

func TestCourseServiceDelete(t *testing.T) {
	svc, repo, assignments := newCourseFixture()
	require.NoError(t, svc.Delete(context.Background(), "math"))
	assert.Equal(t, []string{"math"}, repo.deleted)
	assert.Equal(t, []string{"math"}, assignments.cancelled)

	assert.True(t, appErrors.Is(svc.Delete(context.Background(), "math"), appErrors.ErrNotFound))
}

func TestCourseServiceDeleteArchivesReferencedCourse(t *testing.T) {
	svc, repo, _ := newCourseFixture()
	repo.inUse["math"] = true

	require.NoError(t, svc.Delete(context.Background(), "math"))
	course, err := svc.Get(context.Background(), "math")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusCancelled, course.Status)
	assert.Empty(t, repo.deleted)
}
