package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + classColumns + " FROM classes WHERE id = $1")).
		WithArgs("6A").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level", "school_year", "schedule_version", "created_at", "updated_at"}).
			AddRow("6A", "6e A", "6e", "2024-2025", 3, now, now))

	class, err := repo.FindByID(context.Background(), " 6A ")
	require.NoError(t, err)
	assert.Equal(t, "6e A", class.Name)
	assert.Equal(t, int64(3), class.ScheduleVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	_, err := repo.FindByID(context.Background(), "  ")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE id = $1")).
		WithArgs("9Z").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(context.Background(), "9Z")
	assert.True(t, err == sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE id = $1")).
		WithArgs("6A").
		WillReturnError(errors.New("connection reset"))
	_, err = repo.FindByID(context.Background(), "6A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find class 6A")
	assert.NoError(t, mock.ExpectationsWereMet())
}
