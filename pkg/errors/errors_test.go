package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type budgetDetail struct{ budget float64 }

func (b *budgetDetail) Error() string { return fmt.Sprintf("budget %.1f", b.budget) }

func TestCloneKeepsCodeAndStatus(t *testing.T) {
	err := Clone(ErrTimeOverlap, "class already busy on MONDAY 08:00-09:00")
	assert.Equal(t, "TIME_OVERLAP", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "class already busy on MONDAY 08:00-09:00", err.Message)
	assert.Equal(t, "time slot overlaps an existing slot of the class", ErrTimeOverlap.Message)
	assert.Nil(t, Clone(nil, "x"))
}

func TestIsMatchesCodesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("schedule write: %w", Clone(ErrRoomConflict, "room B12 taken"))
	assert.True(t, Is(err, ErrRoomConflict))
	assert.False(t, Is(err, ErrTimeOverlap))
	assert.False(t, Is(nil, ErrRoomConflict))
	assert.False(t, Is(errors.New("plain"), ErrInternal))
}

func TestWrapExposesCause(t *testing.T) {
	detail := &budgetDetail{budget: 3}
	err := Wrap(detail, ErrBudgetExceeded.Code, ErrBudgetExceeded.Status, "weekly hour budget exceeded")

	var got *budgetDetail
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, 3.0, got.budget)
	assert.Equal(t, "weekly hour budget exceeded: budget 3.0", err.Error())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Same(t, ErrForbidden, FromError(ErrForbidden))

	internal := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.ErrorIs(t, internal, sql.ErrConnDone)
}
