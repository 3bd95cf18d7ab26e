package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE 1=1 AND level = $1 AND LOWER(title) LIKE $2 ORDER BY title ASC LIMIT 20 OFFSET 0")).
		WithArgs("6e", "%math%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "subject_id", "level", "weekly_hour_budget", "coefficient", "status", "created_at", "updated_at"}).
			AddRow("course-1", "Mathématiques 6e", "math", "6e", 4.0, 3.0, "active", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE 1=1 AND level = $1 AND LOWER(title) LIKE $2")).
		WithArgs("6e", "%math%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Level: "6e", Search: "Math"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 4.0, courses[0].WeeklyHourBudget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "Physique", "phys", "5e", 3.0, 2.0, "active", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Title: "Physique", SubjectID: "phys", Level: "5e", WeeklyHourBudget: 3, Coefficient: 2, Status: models.CourseStatusActive}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteInUse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("course-1").
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("course-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.ErrorIs(t, repo.Delete(context.Background(), "course-1"), ErrCourseInUse)
	assert.NoError(t, repo.Delete(context.Background(), "course-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
