package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

func TestEvaluationRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEvaluationRepository(db)

	day := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM evaluations WHERE 1=1 AND student_id = $1 AND period_id = $2 AND category = $3 ORDER BY evaluated_on ASC, created_at ASC")).
		WithArgs("stu-1", "p1", models.CategoryFormal).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "subject_id", "class_id", "period_id", "category", "title", "score", "coefficient", "evaluated_on", "recorded_by", "created_at", "updated_at"}).
			AddRow("e1", "stu-1", "math", "6A", "p1", "formal", nil, 14.5, 2.0, day, "teacher-1", day, day))

	evaluations, err := repo.List(context.Background(), models.EvaluationFilter{StudentID: "stu-1", PeriodID: "p1", Category: models.CategoryFormal})
	require.NoError(t, err)
	require.Len(t, evaluations, 1)
	assert.Equal(t, 14.5, evaluations[0].Score)
	assert.Nil(t, evaluations[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEvaluationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluations")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	evaluation := &models.Evaluation{StudentID: "stu-1", SubjectID: "math", ClassID: "6A", PeriodID: "p1", Category: models.CategoryContinuous, Score: 12, Coefficient: 1}
	require.NoError(t, repo.Create(context.Background(), evaluation))
	assert.NotEmpty(t, evaluation.ID)
	assert.False(t, evaluation.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
